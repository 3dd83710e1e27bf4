package scoring

import (
	"errors"
	"fmt"
)

// ErrTimeout reports that the worker was forcibly terminated after running
// past the configured deadline.
var ErrTimeout = errors.New("scoring timed out")

// ProcessError reports a worker that exited non-zero. Stderr carries the
// worker's full diagnostic output so operators can see why it died.
type ProcessError struct {
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("scoring process exited with code %d", e.ExitCode)
	}
	return fmt.Sprintf("scoring process exited with code %d: %s", e.ExitCode, e.Stderr)
}

// InvalidResponseError reports a worker that exited cleanly but wrote output
// that does not parse as the expected JSON array. Sample holds a truncated
// copy of the offending output, distinct from ProcessError so "crashed" and
// "produced garbage" stay distinguishable.
type InvalidResponseError struct {
	Sample string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid scoring response: %q", e.Sample)
}
