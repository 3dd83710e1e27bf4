package jobs

import "errors"

var (
	ErrJobNotFound       = errors.New("job not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrInvalidStatus     = errors.New("invalid status")
)
