package engine

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyURL   = errors.New("URL is empty")
	ErrInvalidURL = errors.New("URL is malformed")
)

// Messages used when the engine exits without a terminal event
const (
	MsgProcessFailed     = "process exited with error"
	MsgProcessIncomplete = "process exited without reporting completion"
)

// ValidationError rejects a URL before any engine call is made
type ValidationError struct {
	URL string
	Err error
}

func (e *ValidationError) Error() string {
	if e.URL == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.URL)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ResolutionError means the engine could not produce metadata. It is
// retryable and never creates a download.
type ResolutionError struct {
	URL     string
	Message string
}

func (e *ResolutionError) Error() string {
	return "failed to get video info: " + e.Message
}

// TransferError means a dispatch ended in failure
type TransferError struct {
	ID      string
	Message string
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("download %s failed: %s", e.ID, e.Message)
}
