package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *KitError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *KitError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// TypeContract reports an arithmetic update against a key that does not hold a number.
// A nil value with present=false means the key does not exist.
func TypeContract(key string, value interface{}, present bool) *KitError {
	if !present {
		return New(ErrCodeTypeContract, fmt.Sprintf("key '%s' does not exist; arithmetic requires an existing numeric value", key)).
			WithDetail("key", key)
	}
	return New(ErrCodeTypeContract, fmt.Sprintf("key '%s' holds %T, not a number", key, value)).
		WithDetail("key", key).
		WithDetail("type", fmt.Sprintf("%T", value))
}

// TransientIO reports a retryable filesystem failure that persisted past the retry budget.
func TransientIO(path string, attempts int, err error) *KitError {
	return Wrap(err, ErrCodeTransientIO,
		fmt.Sprintf("failed to ensure %s after %d attempts", path, attempts)).
		WithDetail("path", path).
		WithDetail("attempts", attempts)
}

// PermanentIO reports a filesystem failure that is never retried.
func PermanentIO(path string, err error) *KitError {
	return Wrap(err, ErrCodePermanentIO, fmt.Sprintf("failed to ensure %s", path)).
		WithDetail("path", path)
}

// OutOfRange reports a numeric input outside the accepted interval.
func OutOfRange(what string, value, min, max int) *KitError {
	return New(ErrCodeOutOfRange,
		fmt.Sprintf("%s %d is outside the valid range [%d, %d]", what, value, min, max)).
		WithDetail("value", value).
		WithDetail("min", min).
		WithDetail("max", max)
}

// InvalidInput creates an invalid input error
func InvalidInput(format string, args ...interface{}) *KitError {
	return New(ErrCodeInvalidInput, fmt.Sprintf(format, args...))
}
