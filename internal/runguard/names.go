package runguard

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bashhack/runguard/internal/constants"
)

const (
	semaphoreSalt = "_semaphore"
	segmentSalt   = "_segment"

	// shmDir is where Linux exposes POSIX shared memory objects
	shmDir = "/dev/shm"
)

// deriveName hashes key and salt into a stable, filename-safe identifier.
// Different salts keep the semaphore and segment names apart for one key.
func deriveName(key, salt string) string {
	sum := sha1.Sum([]byte(key + salt))
	return hex.EncodeToString(sum[:])
}

// SemaphoreFile returns the path of the named semaphore for key inside dir
func SemaphoreFile(dir, key string) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%s.lock", constants.AppName, deriveName(key, semaphoreSalt)))
}

// SegmentFile returns the path of the shared segment for key inside dir
func SegmentFile(dir, key string) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%s.shm", constants.AppName, deriveName(key, segmentSalt)))
}

// DefaultDir returns /dev/shm when it exists and the OS temp directory otherwise
func DefaultDir() string {
	if info, err := os.Stat(shmDir); err == nil && info.IsDir() {
		return shmDir
	}
	return os.TempDir()
}
