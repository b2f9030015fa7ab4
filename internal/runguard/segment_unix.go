//go:build unix

package runguard

import (
	"encoding/binary"
	"os"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sys/unix"

	"github.com/bashhack/runguard/internal/errors"
)

// recordSize is the size of the owner record: one little-endian int64 PID
const recordSize = 8

// segment is a file-backed shared memory mapping holding the owner record.
type segment struct {
	path     string
	file     *os.File
	data     []byte
	writable bool
}

// attachSegment maps the segment at path. Read-only attach fails when the
// segment does not exist or is too short to hold a record; read-write attach
// creates it and grows it to one record.
func attachSegment(path string, writable bool) (*segment, error) {
	flag := os.O_RDONLY
	prot := unix.PROT_READ
	if writable {
		flag = os.O_RDWR | os.O_CREATE
		prot |= unix.PROT_WRITE
	}

	f, err := os.OpenFile(path, flag, 0o600)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, errors.Errorf("%s is not a regular file", path)
	}

	if info.Size() < recordSize {
		if !writable {
			_ = f.Close()
			return nil, errors.Errorf("segment %s holds %d bytes, want %d", path, info.Size(), recordSize)
		}
		if err := f.Truncate(recordSize); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	data, err := unix.Mmap(int(f.Fd()), 0, recordSize, prot, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "mmap")
	}

	return &segment{
		path:     path,
		file:     f,
		data:     data,
		writable: writable,
	}, nil
}

// owner returns the PID stored in the record. Zero means no owner.
func (s *segment) owner() int {
	if s.data == nil {
		return 0
	}
	return int(int64(binary.LittleEndian.Uint64(s.data)))
}

// setOwner stores pid in the record
func (s *segment) setOwner(pid int) error {
	if s.data == nil {
		return errors.Errorf("segment %s is detached", s.path)
	}
	if !s.writable {
		return errors.Errorf("segment %s is attached read-only", s.path)
	}
	binary.LittleEndian.PutUint64(s.data, uint64(int64(pid)))
	return nil
}

// detach unmaps the record and closes the file. Safe to call repeatedly.
func (s *segment) detach() error {
	if s == nil {
		return nil
	}

	var result *multierror.Error
	if s.data != nil {
		if err := unix.Munmap(s.data); err != nil {
			result = multierror.Append(result, errors.Wrap(err, "munmap"))
		}
		s.data = nil
	}
	if s.file != nil {
		if err := s.file.Close(); err != nil {
			result = multierror.Append(result, err)
		}
		s.file = nil
	}
	return result.ErrorOrNil()
}
