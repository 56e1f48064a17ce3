// Package testutil holds helpers shared by kit's tests.
package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// DefaultTimeout bounds how long Receive waits.
const DefaultTimeout = 2 * time.Second

// RandomString generates a random hex string of the specified length.
func RandomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)[:length]
}

// WriteFile writes content to dir/name, creating parent directories, and
// returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// IsolateConfig points XDG_CONFIG_HOME at an empty directory and changes into
// a fresh project directory, so configuration lookups see only what the test
// writes. It returns the project directory.
func IsolateConfig(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

// Receive returns the next value from ch or fails the test after
// DefaultTimeout.
func Receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed while waiting for a value")
		return v
	case <-time.After(DefaultTimeout):
		require.FailNow(t, "timed out waiting for a value")
	}
	panic("unreachable")
}

// ExpectClosed fails unless ch is closed within DefaultTimeout. Values still
// buffered in ch are drained.
func ExpectClosed[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	deadline := time.After(DefaultTimeout)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			require.FailNow(t, "channel was not closed")
		}
	}
}
