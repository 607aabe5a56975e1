package main

import (
	"errors"
	"fmt"
)

// Error types for better error handling and agent processing
var (
	// Path errors
	ErrPathRequired   = errors.New("path is required")
	ErrAccessDenied   = errors.New("path escapes allowed roots")
	ErrParentNotFound = errors.New("parent directory missing or outside allowed roots")
	ErrPathNotFound   = errors.New("path not found")
	ErrPathNotRegular = errors.New("path is not a regular file")

	// Edit errors
	ErrNoMatch     = errors.New("old text not found in file")
	ErrNoHistory   = errors.New("no edit history for path")
	ErrInvalidLine = errors.New("line must be >= 0")

	// Pattern errors
	ErrPatternRequired = errors.New("pattern is required")
	ErrInvalidRegex    = errors.New("invalid regular expression")
	ErrInvalidGlob     = errors.New("invalid glob pattern")
)

// OperationError provides detailed context for failed operations
type OperationError struct {
	Op      string // Operation name
	Path    string // File path
	Err     error  // Underlying error
	Details string // Additional details
}

func (e *OperationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s %s: %v (%s)", e.Op, e.Path, e.Err, e.Details)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// newOpError creates a new operation error
func newOpError(op, path string, err error, details ...string) error {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &OperationError{
		Op:      op,
		Path:    path,
		Err:     err,
		Details: detail,
	}
}

// ErrorResponse for agent-friendly error reporting
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Operation string `json:"operation,omitempty"`
	Path      string `json:"path,omitempty"`
}

// toErrorResponse converts errors to agent-friendly format with a closed
// set of error codes callers can branch on instead of message text.
func toErrorResponse(err error) ErrorResponse {
	resp := ErrorResponse{
		Error: err.Error(),
	}

	var opErr *OperationError
	if errors.As(err, &opErr) {
		resp.Operation = opErr.Op
		resp.Path = opErr.Path
	}

	switch {
	case errors.Is(err, ErrAccessDenied):
		resp.Code = "ACCESS_DENIED"
	case errors.Is(err, ErrParentNotFound):
		resp.Code = "PARENT_NOT_FOUND"
	case errors.Is(err, ErrNoMatch):
		resp.Code = "NO_MATCH"
	case errors.Is(err, ErrNoHistory):
		resp.Code = "NO_HISTORY"
	case errors.Is(err, ErrPathNotFound):
		resp.Code = "NOT_FOUND"
	case errors.Is(err, ErrPathRequired), errors.Is(err, ErrPatternRequired), errors.Is(err, ErrInvalidLine):
		resp.Code = "BAD_REQUEST"
	case errors.Is(err, ErrPathNotRegular):
		resp.Code = "NOT_REGULAR"
	case errors.Is(err, ErrInvalidRegex), errors.Is(err, ErrInvalidGlob):
		resp.Code = "BAD_PATTERN"
	default:
		resp.Code = "UNKNOWN_ERROR"
	}

	return resp
}
