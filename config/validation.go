package config

import (
	"fmt"
	"time"

	"github.com/grovetools/kit/errors"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Reporter.Buffer < 0 {
		return errors.New(errors.ErrCodeConfigValidation, "reporter.buffer cannot be negative").
			WithDetail("buffer", c.Reporter.Buffer)
	}

	if err := validateReporterState(c.Reporter.Initial); err != nil {
		return err
	}

	if c.Ensure.MaxRetries != nil && *c.Ensure.MaxRetries < 0 {
		return errors.New(errors.ErrCodeConfigValidation, "ensure.max_retries cannot be negative").
			WithDetail("max_retries", *c.Ensure.MaxRetries)
	}

	if err := validateDuration("ensure.retry_delay", c.Ensure.RetryDelay, false); err != nil {
		return err
	}

	if err := validateDuration("telemetry.interval", c.Telemetry.Interval, true); err != nil {
		return err
	}

	return nil
}

// validateReporterState rejects keys that cannot be addressed.
func validateReporterState(initial map[string]interface{}) error {
	for key := range initial {
		if key == "" {
			return errors.New(errors.ErrCodeConfigValidation, "reporter.initial cannot contain an empty key")
		}
	}
	return nil
}

func validateDuration(field, value string, positive bool) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigValidation, fmt.Sprintf("%s is not a valid duration", field)).
			WithDetail("value", value)
	}
	if d < 0 || (positive && d == 0) {
		return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("%s must be positive", field)).
			WithDetail("value", value)
	}
	return nil
}
