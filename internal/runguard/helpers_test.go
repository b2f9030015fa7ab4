package runguard

import (
	"context"
	"encoding/binary"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakePIDBase is above PID_MAX_LIMIT on Linux, so no real process has it
const fakePIDBase = 5_000_000

func newTestGuard(t *testing.T, key, dir string, pid int, checker ProcessChecker) *Guard {
	t.Helper()

	g, err := New(key, Options{Dir: dir, PID: pid, Checker: checker})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = g.Release()
	})
	return g
}

// readOwnerRecord reads the owner PID straight from the segment file
func readOwnerRecord(t *testing.T, path string) int {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), recordSize)
	return int(int64(binary.LittleEndian.Uint64(data[:recordSize])))
}

func writeOwnerRecord(t *testing.T, path string, pid int) {
	t.Helper()

	data := make([]byte, recordSize)
	binary.LittleEndian.PutUint64(data, uint64(int64(pid)))
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

// aliveSet treats exactly the given PIDs as running
func aliveSet(pids ...int) ProcessChecker {
	set := make(map[int]bool, len(pids))
	for _, pid := range pids {
		set[pid] = true
	}
	return ProcessCheckerFunc(func(_ context.Context, pid int) bool {
		return set[pid]
	})
}

func nothingAlive() ProcessChecker {
	return ProcessCheckerFunc(func(context.Context, int) bool { return false })
}

func everythingAlive() ProcessChecker {
	return ProcessCheckerFunc(func(_ context.Context, pid int) bool { return pid > 0 })
}

// exitedPID runs a short-lived process to completion and returns its PID.
// The process has been reaped, so the PID refers to nothing until reused.
func exitedPID(t *testing.T) int {
	t.Helper()

	cmd := exec.Command(os.Args[0], "-test.run=^$")
	require.NoError(t, cmd.Run())
	return cmd.ProcessState.Pid()
}
