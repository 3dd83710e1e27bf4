package shortlist

import (
	"errors"
	"fmt"
)

var (
	ErrNoResumes        = errors.New("no resume files uploaded")
	ErrNoJobDescription = errors.New("job description is required")
	ErrQuotaExceeded    = errors.New("too many files")
)

// PersistFailedError marks failures that happen after scoring succeeded.
// Scoring results exist at that point but no job was stored, and callers
// surface this differently from a scoring failure.
type PersistFailedError struct {
	Err error
}

func (e *PersistFailedError) Error() string {
	return fmt.Sprintf("persist shortlist result: %v", e.Err)
}

func (e *PersistFailedError) Unwrap() error {
	return e.Err
}
