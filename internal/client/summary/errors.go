package summary

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCurriculumContext is raised before any network call when a
	// request lacks its class or subject reference.
	ErrMissingCurriculumContext = errors.New("class_id and subject_id are required")

	// ErrMalformedVideoReference is raised when the encoded video reference
	// does not decode to a valid source URL.
	ErrMalformedVideoReference = errors.New("malformed video reference")

	// ErrStreamStalled is raised when the server stops sending bytes for
	// longer than the stall timeout. A slow stream that keeps producing
	// progress records never trips this.
	ErrStreamStalled = errors.New("summary stream stalled")
)

// RequestError is a transport-level failure: a non-2xx status or a network
// error before any terminal record arrived.
type RequestError struct {
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("summary request failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("summary request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// GenerationError carries the message of an error-typed stream record.
type GenerationError struct {
	Message string
}

func (e *GenerationError) Error() string {
	return "summary generation failed: " + e.Message
}
