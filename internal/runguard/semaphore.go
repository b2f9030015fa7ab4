package runguard

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// semaphorePollInterval is how often a cancellable wait retries the lock
const semaphorePollInterval = 5 * time.Millisecond

// semaphore is a binary named semaphore backed by flock(2) on a file.
// Every acquisition opens its own descriptor, so two holders inside one
// process exclude each other the same way two processes do. The kernel drops
// the lock when the holder dies.
type semaphore struct {
	path string
}

// acquire blocks until the semaphore is held and returns the function that
// releases it. With a context that can be cancelled the wait polls and gives
// up when ctx ends.
func (s semaphore) acquire(ctx context.Context) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return nil, err
	}

	fl := flock.New(s.path, flock.SetPermissions(0o600))

	if ctx.Done() == nil {
		if err := fl.Lock(); err != nil {
			return nil, err
		}
		return fl.Unlock, nil
	}

	locked, err := fl.TryLockContext(ctx, semaphorePollInterval)
	if err != nil {
		return nil, err
	}
	if !locked {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, context.Canceled
	}
	return fl.Unlock, nil
}
