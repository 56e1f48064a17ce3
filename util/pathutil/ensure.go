package pathutil

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/grovetools/kit/config"
	"github.com/grovetools/kit/errors"
	"github.com/grovetools/kit/logging"
	"github.com/sirupsen/logrus"
)

// PathType is the kind of filesystem entry Ensure produced.
type PathType string

const (
	TypeFile      PathType = "file"
	TypeDirectory PathType = "directory"
)

// EnsureOptions controls Ensure.
type EnsureOptions struct {
	// TouchFile treats the path as a file and creates it empty if missing.
	TouchFile bool
	// MaxRetries is the number of retries after the first attempt on
	// transient errors. Nil means config.DefaultMaxRetries.
	MaxRetries *int
	// RetryDelay is the initial backoff interval. Zero means
	// config.DefaultRetryDelay.
	RetryDelay time.Duration
	// Logger receives a warning per retry. Defaults to the "kit.pathutil"
	// component logger.
	Logger *logrus.Entry
}

// EnsureResult describes the ensured path.
type EnsureResult struct {
	Type    PathType `json:"type" yaml:"type"`
	Created bool     `json:"created" yaml:"created"`
	Path    string   `json:"path" yaml:"path"`
}

// OptionsFromConfig builds EnsureOptions from the ensure config section.
func OptionsFromConfig(cfg config.EnsureConfig) EnsureOptions {
	retries := cfg.Retries()
	return EnsureOptions{
		MaxRetries: &retries,
		RetryDelay: cfg.Delay(),
	}
}

// filesystem is the set of calls Ensure makes, replaceable in tests.
type filesystem interface {
	Stat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	Create(name string) error
}

type osFS struct{}

func (osFS) Stat(name string) (os.FileInfo, error)       { return os.Stat(name) }
func (osFS) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

func (osFS) Create(name string) error {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}

var fs filesystem = osFS{}

// Ensure makes sure path exists. A path is file-like when it has an
// extension or TouchFile is set; its parent directories are created and, with
// TouchFile, an empty file. Any other path is created as a directory tree.
// Existing paths are left untouched and reported with their actual type.
//
// Transient OS failures (EMFILE, ENFILE, EBUSY, ETIMEDOUT, EAGAIN, EIO) are
// retried with exponential backoff. Exhausting the retries yields a
// TRANSIENT_IO error; EACCES, EPERM, ENOSPC, EROFS and anything unrecognised
// fail immediately with PERMANENT_IO.
func Ensure(ctx context.Context, path string, opts EnsureOptions) (*EnsureResult, error) {
	expanded, err := Expand(path)
	if err != nil {
		return nil, errors.InvalidInput("cannot expand path %q: %v", path, err)
	}

	maxRetries := config.DefaultMaxRetries
	if opts.MaxRetries != nil {
		maxRetries = *opts.MaxRetries
	}
	if maxRetries < 0 {
		return nil, errors.InvalidInput("max retries must be non-negative, got %d", maxRetries)
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = config.DefaultRetryDelay
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewLogger("kit.pathutil")
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = delay
	bo.RandomizationFactor = 0

	attempts := maxRetries + 1
	for attempt := 1; ; attempt++ {
		result, err := ensureOnce(expanded, opts.TouchFile)
		if err == nil {
			return result, nil
		}
		if !IsTransient(err) {
			return nil, errors.PermanentIO(expanded, err)
		}
		if attempt >= attempts {
			return nil, errors.TransientIO(expanded, attempt, err)
		}

		sleep := bo.NextBackOff()
		log.WithFields(logrus.Fields{
			"path":    expanded,
			"attempt": attempt,
			"delay":   sleep,
		}).WithError(err).Warn("Transient error ensuring path, retrying")

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, errors.TransientIO(expanded, attempt, ctx.Err())
		case <-timer.C:
		}
	}
}

func ensureOnce(path string, touch bool) (*EnsureResult, error) {
	fileLike := touch || filepath.Ext(path) != ""

	if info, err := fs.Stat(path); err == nil {
		result := &EnsureResult{Type: TypeFile, Path: path}
		if info.IsDir() {
			result.Type = TypeDirectory
		}
		return result, nil
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if !fileLike {
		if err := fs.MkdirAll(path, 0755); err != nil {
			return nil, err
		}
		return &EnsureResult{Type: TypeDirectory, Created: true, Path: path}, nil
	}

	dir := filepath.Dir(path)
	_, statErr := fs.Stat(dir)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	created := os.IsNotExist(statErr)
	if touch {
		if err := fs.Create(path); err != nil {
			return nil, err
		}
		created = true
	}
	return &EnsureResult{Type: TypeFile, Created: created, Path: path}, nil
}

var transientErrnos = []syscall.Errno{
	syscall.EMFILE,
	syscall.ENFILE,
	syscall.EBUSY,
	syscall.ETIMEDOUT,
	syscall.EAGAIN,
	syscall.EIO,
}

// IsTransient reports whether err is an OS failure worth retrying.
func IsTransient(err error) bool {
	for _, errno := range transientErrnos {
		if stderrors.Is(err, errno) {
			return true
		}
	}
	return false
}
