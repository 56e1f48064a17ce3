// Package httpstatus classifies HTTP status codes and counts them in a
// reporter.
package httpstatus

import (
	"net/http"

	"github.com/grovetools/kit/errors"
	"github.com/grovetools/kit/reporter"
)

// Class is the status class given by a code's first digit.
type Class int

const (
	Informational Class = iota + 1
	Success
	Redirection
	ClientError
	ServerError
)

const (
	minCode = 100
	maxCode = 599
)

var classNames = map[Class]string{
	Informational: "informational",
	Success:       "success",
	Redirection:   "redirection",
	ClientError:   "client_error",
	ServerError:   "server_error",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return "unknown"
}

// Classify returns the class of code. Codes outside 100-599 are an
// OUT_OF_RANGE error.
func Classify(code int) (Class, error) {
	if code < minCode || code > maxCode {
		return 0, errors.OutOfRange("HTTP status code", code, minCode, maxCode)
	}
	return Class(code / 100), nil
}

// IsError reports whether code is a 4xx or 5xx status. Out-of-range codes
// are not errors by this definition.
func IsError(code int) bool {
	c, err := Classify(code)
	return err == nil && c >= ClientError
}

// Text returns the standard reason phrase, or the class name for codes
// without one.
func Text(code int) (string, error) {
	c, err := Classify(code)
	if err != nil {
		return "", err
	}
	if text := http.StatusText(code); text != "" {
		return text, nil
	}
	return c.String(), nil
}

// Record counts code in r with one batch: key.total and key.<class> are
// incremented, key.last holds the code. An out-of-range code records
// nothing.
func Record(r *reporter.Reporter, key string, code int) error {
	c, err := Classify(code)
	if err != nil {
		return err
	}
	r.Apply(
		reporter.Add(key+".total", 1),
		reporter.Add(key+"."+c.String(), 1),
		reporter.Set(key+".last", code),
	)
	return nil
}
