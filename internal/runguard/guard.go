package runguard

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/bashhack/runguard/internal/common"
	"github.com/bashhack/runguard/internal/errors"
	"github.com/bashhack/runguard/internal/logger"
)

// Options configures a Guard. The zero value is usable.
type Options struct {
	// Dir holds the semaphore and segment files. Empty means DefaultDir().
	Dir string

	// PID is the identity written into the segment. Zero means os.Getpid().
	PID int

	// Checker answers liveness queries. Nil means SystemChecker.
	Checker ProcessChecker

	// Logger receives internal messages. Nil discards them.
	Logger common.Logger
}

// Guard enforces that at most one live process holds the claim for a key.
type Guard struct {
	key       string
	semaphore semaphore
	segPath   string
	pid       int
	checker   ProcessChecker
	logger    common.Logger

	mu  sync.Mutex
	seg *segment // attached while the claim is held
}

// New creates a Guard for key. It only derives the resource names; nothing
// is opened or created until a check or claim is made.
func New(key string, opts Options) (*Guard, error) {
	if strings.TrimSpace(key) == "" {
		return nil, errors.NewConfigError("key", nil,
			errors.Wrap(errors.ErrInvalidConfiguration, "key must not be empty"))
	}
	if opts.PID < 0 {
		return nil, errors.NewConfigError("pid", opts.PID,
			errors.Wrap(errors.ErrInvalidConfiguration, "pid must not be negative"))
	}

	dir := opts.Dir
	if dir == "" {
		dir = DefaultDir()
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.NewConfigError("dir", dir,
			errors.Wrapf(errors.ErrInvalidConfiguration, "failed to resolve absolute path: %v", err))
	}

	pid := opts.PID
	if pid == 0 {
		pid = os.Getpid()
	}

	l := opts.Logger
	if l == nil {
		l = logger.NewNop()
	}

	checker := opts.Checker
	if checker == nil {
		checker = SystemChecker(l)
	}

	return &Guard{
		key:       key,
		semaphore: semaphore{path: SemaphoreFile(absDir, key)},
		segPath:   SegmentFile(absDir, key),
		pid:       pid,
		checker:   checker,
		logger:    l,
	}, nil
}

// Key returns the key the guard was created for
func (g *Guard) Key() string {
	return g.key
}

// PID returns the identity the guard claims with
func (g *Guard) PID() int {
	return g.pid
}

// SemaphorePath returns the file backing the named semaphore
func (g *Guard) SemaphorePath() string {
	return g.semaphore.path
}

// SegmentPath returns the file backing the shared segment
func (g *Guard) SegmentPath() string {
	return g.segPath
}

// Held reports whether this guard currently holds the claim
func (g *Guard) Held() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seg != nil
}

// IsAnotherRunning reports whether a live process other than this guard's
// identity owns the key. A missing or unreadable segment means nobody does.
// The error is non-nil only if the semaphore cannot be acquired.
func (g *Guard) IsAnotherRunning(ctx context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.seg != nil {
		return false, nil
	}

	unlock, err := g.lockSemaphore(ctx)
	if err != nil {
		return false, err
	}
	defer g.unlockSemaphore(unlock)

	seg, err := attachSegment(g.segPath, false)
	if err != nil {
		g.logger.Info("No readable segment for key %q, assuming no owner: %v", g.key, err)
		return false, nil
	}
	defer g.detach(seg)

	owner := seg.owner()
	running := g.isOtherLiveOwner(ctx, owner)
	g.logger.Info("Key %q owner record %d, another instance running: %t", g.key, owner, running)

	return running, nil
}

// TryToRun claims the key for this guard's identity. It returns false with a
// nil error when another live process owns the key; the caller should exit.
// A non-nil error wraps ErrLockUnavailable (or the context error) and means
// the lock mechanism could not be used at all. Calling TryToRun again while
// holding the claim returns true.
func (g *Guard) TryToRun(ctx context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.seg != nil {
		return true, nil
	}

	unlock, err := g.lockSemaphore(ctx)
	if err != nil {
		return false, err
	}
	defer g.unlockSemaphore(unlock)

	seg, err := attachSegment(g.segPath, true)
	if err != nil {
		return false, errors.NewGuardError(g.key, errors.ResourceSegment, g.segPath, 0,
			errors.Errorf("%w: %w", errors.ErrLockUnavailable, err))
	}

	owner := seg.owner()
	if g.isOtherLiveOwner(ctx, owner) {
		g.logger.Info("Key %q is owned by live PID %d", g.key, owner)
		g.detach(seg)
		return false, nil
	}

	if owner > 0 && owner != g.pid {
		g.logger.Warning("Reclaiming stale claim on key %q left by PID %d", g.key, owner)
	}

	if err := seg.setOwner(g.pid); err != nil {
		g.detach(seg)
		return false, errors.NewGuardError(g.key, errors.ResourceSegment, g.segPath, owner,
			errors.Errorf("%w: %w", errors.ErrLockUnavailable, err))
	}

	g.seg = seg
	g.logger.Info("Claimed key %q for PID %d", g.key, g.pid)
	return true, nil
}

// Release gives up the claim: the owner record is cleared under the semaphore
// and the segment is detached. The semaphore file stays for the next holder.
// Release is idempotent and a no-op on a guard that never claimed.
func (g *Guard) Release() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.seg == nil {
		return nil
	}

	seg := g.seg
	g.seg = nil

	var result *multierror.Error

	unlock, err := g.lockSemaphore(context.Background())
	if err != nil {
		result = multierror.Append(result, err)
	} else {
		if seg.owner() == g.pid {
			if err := seg.setOwner(0); err != nil {
				result = multierror.Append(result, errors.NewGuardError(g.key, errors.ResourceSegment, g.segPath, g.pid, err))
			}
		}
		if err := unlock(); err != nil {
			result = multierror.Append(result, errors.NewGuardError(g.key, errors.ResourceSemaphore, g.semaphore.path, 0, err))
		}
	}

	if err := seg.detach(); err != nil {
		result = multierror.Append(result, errors.NewGuardError(g.key, errors.ResourceSegment, g.segPath, g.pid, err))
	}

	if result.ErrorOrNil() == nil {
		g.logger.Info("Released key %q", g.key)
	}
	return result.ErrorOrNil()
}

// Owner returns the PID recorded for the key and whether that process is
// alive. It reports (0, false, nil) when no owner is recorded.
func (g *Guard) Owner(ctx context.Context) (int, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.seg != nil {
		return g.pid, true, nil
	}

	unlock, err := g.lockSemaphore(ctx)
	if err != nil {
		return 0, false, err
	}
	defer g.unlockSemaphore(unlock)

	seg, err := attachSegment(g.segPath, false)
	if err != nil {
		return 0, false, nil
	}
	defer g.detach(seg)

	owner := seg.owner()
	if owner <= 0 {
		return 0, false, nil
	}
	return owner, g.checker.Alive(ctx, owner), nil
}

// ReleaseStale clears an owner record whose process is gone. It returns the
// recorded PID and whether the record was cleared. A live owner is never
// touched, and a missing segment is not created.
func (g *Guard) ReleaseStale(ctx context.Context) (int, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.seg != nil {
		return g.pid, false, nil
	}

	unlock, err := g.lockSemaphore(ctx)
	if err != nil {
		return 0, false, err
	}
	defer g.unlockSemaphore(unlock)

	if _, err := os.Stat(g.segPath); os.IsNotExist(err) {
		return 0, false, nil
	}

	seg, err := attachSegment(g.segPath, true)
	if err != nil {
		return 0, false, errors.NewGuardError(g.key, errors.ResourceSegment, g.segPath, 0,
			errors.Errorf("%w: %w", errors.ErrLockUnavailable, err))
	}
	defer g.detach(seg)

	owner := seg.owner()
	if owner == 0 {
		return 0, false, nil
	}
	if owner > 0 && g.checker.Alive(ctx, owner) {
		return owner, false, nil
	}

	if err := seg.setOwner(0); err != nil {
		return owner, false, errors.NewGuardError(g.key, errors.ResourceSegment, g.segPath, owner, err)
	}
	g.logger.Warning("Cleared stale claim on key %q left by PID %d", g.key, owner)
	return owner, true, nil
}

// isOtherLiveOwner reports whether pid is a live process other than ours
func (g *Guard) isOtherLiveOwner(ctx context.Context, pid int) bool {
	if pid <= 0 || pid == g.pid {
		return false
	}
	return g.checker.Alive(ctx, pid)
}

// lockSemaphore acquires the named semaphore, mapping failures to GuardErrors
func (g *Guard) lockSemaphore(ctx context.Context) (func() error, error) {
	unlock, err := g.semaphore.acquire(ctx)
	if err == nil {
		return unlock, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, errors.NewGuardError(g.key, errors.ResourceSemaphore, g.semaphore.path, 0,
			errors.Wrap(ctxErr, "waiting for semaphore"))
	}
	return nil, errors.NewGuardError(g.key, errors.ResourceSemaphore, g.semaphore.path, 0,
		errors.Errorf("%w: %w", errors.ErrLockUnavailable, err))
}

func (g *Guard) unlockSemaphore(unlock func() error) {
	if err := unlock(); err != nil {
		g.logger.Warning("Failed to release semaphore %s: %v", g.semaphore.path, err)
	}
}

func (g *Guard) detach(seg *segment) {
	if err := seg.detach(); err != nil {
		g.logger.Warning("Failed to detach segment %s: %v", seg.path, err)
	}
}
