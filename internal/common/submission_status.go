package common

import "strings"

// SubmissionStatus is the follow-up state an admin assigns to a submission
type SubmissionStatus string

const (
	StatusNew       SubmissionStatus = "new"
	StatusPending   SubmissionStatus = "pending"
	StatusResponded SubmissionStatus = "responded"
	StatusClosed    SubmissionStatus = "closed"
)

var AllStatuses = []SubmissionStatus{StatusNew, StatusPending, StatusResponded, StatusClosed}

// String returns the string representation
func (s SubmissionStatus) String() string {
	return string(s)
}

// IsValid checks if the status is one of the four known values
func (s SubmissionStatus) IsValid() bool {
	switch s {
	case StatusNew, StatusPending, StatusResponded, StatusClosed:
		return true
	}
	return false
}

// ParseStatus accepts surrounding whitespace and any letter case.
func ParseStatus(raw string) (SubmissionStatus, bool) {
	s := SubmissionStatus(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.IsValid()
}

// ReadFilter restricts a listing by the read flag.
type ReadFilter string

const (
	ReadFilterAll    ReadFilter = "all"
	ReadFilterRead   ReadFilter = "read"
	ReadFilterUnread ReadFilter = "unread"
)

// ParseReadFilter maps anything unrecognised to "all", like an empty query param.
func ParseReadFilter(raw string) ReadFilter {
	switch ReadFilter(strings.ToLower(strings.TrimSpace(raw))) {
	case ReadFilterRead:
		return ReadFilterRead
	case ReadFilterUnread:
		return ReadFilterUnread
	}
	return ReadFilterAll
}
