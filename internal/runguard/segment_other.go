//go:build !unix

package runguard

import (
	"github.com/bashhack/runguard/internal/errors"
)

type segment struct {
	path string
}

func attachSegment(path string, writable bool) (*segment, error) {
	return nil, errors.ErrUnsupportedPlatform
}

func (s *segment) owner() int {
	return 0
}

func (s *segment) setOwner(pid int) error {
	return errors.ErrUnsupportedPlatform
}

func (s *segment) detach() error {
	return nil
}
