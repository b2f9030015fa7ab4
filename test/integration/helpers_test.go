//go:build integration
// +build integration

package integration

import (
	"bufio"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func skipUnlessEnabled(t *testing.T) {
	t.Helper()

	if os.Getenv("RUNGUARD_INTEGRATION_TESTS") != "1" {
		t.Skip("Skipping integration test. Set RUNGUARD_INTEGRATION_TESTS=1 to run")
	}
}

// buildRunguard builds the binary once into ../../build and returns its path
func buildRunguard(t *testing.T) string {
	t.Helper()

	bin, err := filepath.Abs(filepath.Join("..", "..", "build", "runguard"))
	if err != nil {
		t.Fatalf("Failed to resolve binary path: %v", err)
	}

	if _, err := os.Stat(bin); os.IsNotExist(err) {
		buildCmd := exec.Command("go", "build", "-tags=testing", "-o", bin, "../../cmd/runguard")
		if out, err := buildCmd.CombinedOutput(); err != nil {
			t.Fatalf("Failed to build runguard binary: %v\n%s", err, out)
		}
	}

	return bin
}

// result is the outcome of one finished runguard invocation
type result struct {
	code   int
	stdout string
	stderr string
}

// runguardEnv isolates the binary from the user's config and environment
func runguardEnv(t *testing.T, extra ...string) []string {
	t.Helper()

	home := t.TempDir()
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + home,
		"XDG_CONFIG_HOME=" + filepath.Join(home, "config"),
		"XDG_DATA_HOME=" + filepath.Join(home, "data"),
	}
	return append(env, extra...)
}

func runRunguard(t *testing.T, bin string, env []string, args ...string) result {
	t.Helper()

	cmd := exec.Command(bin, args...)
	cmd.Env = env

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("Failed to run %s: %v", cmd.String(), err)
		}
		code = exitErr.ExitCode()
	}

	t.Logf("%s -> %d\nstdout: %s\nstderr: %s", cmd.String(), code, stdout.String(), stderr.String())
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// startHolder starts `runguard run` without a command and waits until it
// reports that it holds the key
func startHolder(t *testing.T, bin string, env []string, key, dir string) *exec.Cmd {
	t.Helper()

	cmd := exec.Command(bin, "run", "--key", key, "--dir", dir)
	cmd.Env = env

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		t.Fatalf("Failed to get stdout pipe: %v", err)
	}
	if err := cmd.Start(); err != nil {
		t.Fatalf("Failed to start holder: %v", err)
	}

	t.Cleanup(func() {
		if cmd.ProcessState == nil {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
		}
	})

	ready := make(chan error, 1)
	go func() {
		reader := bufio.NewReader(stdout)
		for {
			line, err := reader.ReadString('\n')
			if strings.Contains(line, "Holding key") {
				ready <- nil
				_, _ = io.Copy(io.Discard, reader)
				return
			}
			if err != nil {
				ready <- err
				return
			}
		}
	}()

	select {
	case err := <-ready:
		if err != nil {
			t.Fatalf("Holder exited before claiming: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Timed out waiting for holder to claim the key")
	}

	return cmd
}
