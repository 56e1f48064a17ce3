package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/grovetools/kit/errors"
)

// ErrorHandler prints user-friendly messages for kit errors.
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates an error handler writing to stderr.
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints a message for err based on its code and returns err
// unchanged.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}

	var kitErr *errors.KitError
	stderrors.As(err, &kitErr)

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.Out, "❌ Configuration not found. Create a kit.yml or pass --config.\n")

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintf(h.Out, "❌ Invalid configuration: %s\n", kitErr.Message)
		if path, ok := kitErr.Details["path"]; ok {
			fmt.Fprintf(h.Out, "Check %v\n", path)
		}
		if kitErr.Cause != nil {
			fmt.Fprintf(h.Out, "  %v\n", kitErr.Cause)
		}

	case errors.ErrCodeTransientIO:
		fmt.Fprintf(h.Out, "❌ Could not create %v after %v attempts\n",
			kitErr.Details["path"], kitErr.Details["attempts"])
		fmt.Fprintf(h.Out, "The error looked temporary. Retry, or raise ensure.max_retries in kit.yml.\n")

	case errors.ErrCodePermanentIO:
		fmt.Fprintf(h.Out, "❌ Could not create %v: %v\n", kitErr.Details["path"], kitErr.Cause)

	case errors.ErrCodeTypeContract:
		fmt.Fprintf(h.Out, "❌ %s\n", kitErr.Message)

	default:
		fmt.Fprintf(h.Out, "❌ Error: %v\n", err)
	}

	if h.Verbose && kitErr != nil {
		fmt.Fprintf(h.Out, "\nError details:\n%s\n", kitErr.ToJSON())
	}
	return err
}
