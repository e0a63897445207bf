package capability

import (
	"errors"
	"fmt"
)

// ErrUnknownTool is returned when the executor is asked to run a tool
// that was never registered.
var ErrUnknownTool = errors.New("unknown tool")

// ToolExecutionError wraps a capability failure with the tool and URL
// involved so callers can log a complete audit entry from the error alone.
type ToolExecutionError struct {
	// Tool is the capability that failed.
	Tool string

	// URL is the target the capability ran against.
	URL string

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s failed for %s: %v", e.Tool, e.URL, e.Err)
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}

// ExtractionError reports a recoverable extraction problem inside a
// capability (a malformed document section, an unreadable image). It is
// collected rather than propagated: one bad fragment must not discard
// the evidence extracted from the rest of the page.
type ExtractionError struct {
	// Source identifies what could not be extracted.
	Source string

	// Err is the underlying parse or decode failure.
	Err error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}
