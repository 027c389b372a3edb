package models

import "fmt"

// Error codes used in error-path reports and internal error handling.
const (
	ErrCodeTimeout      = "INSPECT_TIMEOUT"
	ErrCodeNavigation   = "NAVIGATION_FAILED"
	ErrCodeBrowserCrash = "BROWSER_CRASH"
	ErrCodeEvaluation   = "EVALUATION_FAILED"
	ErrCodeReportWrite  = "REPORT_WRITE_FAILED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// InspectError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type InspectError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *InspectError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InspectError) Unwrap() error {
	return e.Err
}

// NewInspectError creates a new InspectError.
func NewInspectError(code, message string, err error) *InspectError {
	return &InspectError{Code: code, Message: message, Err: err}
}
