package runguard

import (
	"context"
	"math"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/bashhack/runguard/internal/common"
	"github.com/bashhack/runguard/internal/logger"
)

// ProcessChecker reports whether a process with the given PID exists.
type ProcessChecker interface {
	Alive(ctx context.Context, pid int) bool
}

// ProcessCheckerFunc adapts an ordinary function to ProcessChecker
type ProcessCheckerFunc func(ctx context.Context, pid int) bool

// Alive calls f(ctx, pid)
func (f ProcessCheckerFunc) Alive(ctx context.Context, pid int) bool {
	return f(ctx, pid)
}

// systemChecker asks the operating system through gopsutil. A process we may
// not signal (EPERM) still counts as alive.
type systemChecker struct {
	logger common.Logger
}

// SystemChecker returns the OS-backed ProcessChecker. Query failures are
// logged to l (if non-nil) and reported as "not alive".
func SystemChecker(l common.Logger) ProcessChecker {
	if l == nil {
		l = logger.NewNop()
	}
	return systemChecker{logger: l}
}

func (c systemChecker) Alive(ctx context.Context, pid int) bool {
	if pid <= 0 || pid > math.MaxInt32 {
		return false
	}

	exists, err := process.PidExistsWithContext(ctx, int32(pid))
	if err != nil {
		c.logger.Warning("Liveness check for PID %d failed, treating it as gone: %v", pid, err)
		return false
	}
	return exists
}
