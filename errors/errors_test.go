package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestKitError(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad input")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidInput, err.Code)
	}

	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodePermanentIO, "mkdir failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	if !Is(wrapped, ErrCodePermanentIO) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeTransientIO) {
		t.Error("Is should return false for non-matching code")
	}

	detailed := err.WithDetail("key", "web").WithDetail("attempts", 3)
	if detailed.Details["key"] != "web" {
		t.Error("WithDetail should add details")
	}
}

func TestIsThroughFmtWrap(t *testing.T) {
	inner := TypeContract("status", "ready", true)
	outer := fmt.Errorf("apply: %w", inner)

	if !Is(outer, ErrCodeTypeContract) {
		t.Error("Is should unwrap fmt.Errorf chains")
	}
	if GetCode(outer) != ErrCodeTypeContract {
		t.Errorf("GetCode() = %s, want %s", GetCode(outer), ErrCodeTypeContract)
	}
	if Is(nil, ErrCodeTypeContract) {
		t.Error("Is(nil) should be false")
	}
	if Is(fmt.Errorf("plain"), "") {
		t.Error("Is with empty code should be false")
	}
}

func TestErrorConstructors(t *testing.T) {
	err := TypeContract("status", "ready", true)
	if err.Details["type"] != "string" {
		t.Errorf("TypeContract should record the value type, got %v", err.Details["type"])
	}

	err = TypeContract("missing", nil, false)
	if !strings.Contains(err.Message, "does not exist") {
		t.Errorf("unexpected message: %s", err.Message)
	}

	err = TransientIO("/tmp/x", 4, fmt.Errorf("busy"))
	if err.Details["attempts"] != 4 {
		t.Error("TransientIO should include attempts detail")
	}
	if !strings.Contains(err.Error(), "/tmp/x") {
		t.Errorf("TransientIO message should name the path: %s", err.Error())
	}

	err = OutOfRange("status code", 42, 100, 599)
	if err.Code != ErrCodeOutOfRange {
		t.Errorf("expected code %s, got %s", ErrCodeOutOfRange, err.Code)
	}
}

func TestToJSON(t *testing.T) {
	out := ConfigNotFound("/etc/kit.yml").ToJSON()
	if !strings.Contains(out, `"code": "CONFIG_NOT_FOUND"`) {
		t.Errorf("ToJSON() missing code: %s", out)
	}
	if !strings.Contains(out, `"path": "/etc/kit.yml"`) {
		t.Errorf("ToJSON() missing details: %s", out)
	}
}
