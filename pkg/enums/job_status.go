package enums

import "fmt"

// JobStatus tracks where a job sits in its billing lifecycle. The string
// values are the persisted and wire encoding.
type JobStatus string

const (
	JobStatusOpen     JobStatus = "open"
	JobStatusClosed   JobStatus = "closed"
	JobStatusInvoiced JobStatus = "invoiced"
)

var validJobStatuses = []JobStatus{
	JobStatusOpen,
	JobStatusClosed,
	JobStatusInvoiced,
}

// String implements fmt.Stringer.
func (s JobStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known JobStatus.
func (s JobStatus) IsValid() bool {
	for _, candidate := range validJobStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseJobStatus converts raw input into a JobStatus.
func ParseJobStatus(value string) (JobStatus, error) {
	for _, candidate := range validJobStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid job status %q", value)
}
