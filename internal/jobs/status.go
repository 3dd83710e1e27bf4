package jobs

// Status is a candidate's position in the hiring pipeline. The set is an
// unordered label set: any status may move to any other, there is no forced
// progression.
type Status string

const (
	StatusApplied     Status = "Applied"
	StatusShortlisted Status = "Shortlisted"
	StatusInterview   Status = "Interview"
	StatusOffer       Status = "Offer"
	StatusRejected    Status = "Rejected"
)

var allStatuses = []Status{
	StatusApplied,
	StatusShortlisted,
	StatusInterview,
	StatusOffer,
	StatusRejected,
}

// Valid reports whether s names a known status.
func (s Status) Valid() bool {
	for _, known := range allStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus validates a raw status value. It is checked before any
// mutation so an invalid value never touches stored state.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Statuses returns the fixed status set, for error messages and docs.
func Statuses() []Status {
	return append([]Status(nil), allStatuses...)
}
