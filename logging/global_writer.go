package logging

import (
	"io"
	"os"
	"sync"
)

// globalWriter delegates to a writer that can be swapped at runtime.
type globalWriter struct {
	mu sync.RWMutex
	w  io.Writer
}

func (gw *globalWriter) Write(p []byte) (n int, err error) {
	gw.mu.RLock()
	defer gw.mu.RUnlock()
	return gw.w.Write(p)
}

func (gw *globalWriter) Set(w io.Writer) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	gw.w = w
}

var defaultGlobalWriter = &globalWriter{w: os.Stderr}

// SetGlobalOutput redirects the stderr sink of every logger created by
// NewLogger, including loggers created before the call.
func SetGlobalOutput(w io.Writer) {
	defaultGlobalWriter.Set(w)
}

// GetGlobalOutput returns the shared stderr sink.
func GetGlobalOutput() io.Writer {
	return defaultGlobalWriter
}
