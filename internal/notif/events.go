package notif

import (
	"time"

	"contactdesk/internal/common"
)

type EventType string

const (
	EventCreated       EventType = "created"
	EventRead          EventType = "read"
	EventStatusChanged EventType = "status_changed"
	EventUpdated       EventType = "updated"
	EventDeleted       EventType = "deleted"
)

// SubmissionEvent describes one change to a submission. Deleted events only
// carry the id.
type SubmissionEvent struct {
	Type         EventType               `json:"type"`
	SubmissionID string                  `json:"submissionId"`
	Name         string                  `json:"name,omitempty"`
	Email        string                  `json:"email,omitempty"`
	Status       common.SubmissionStatus `json:"status,omitempty"`
	At           time.Time               `json:"at"`
}

// Observer receives every event the Manager is notified of
type Observer interface {
	Name() string
	Update(event SubmissionEvent) error
}
