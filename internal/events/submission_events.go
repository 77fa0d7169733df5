package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of events the service publishes
type EventType string

const (
	EventSubmissionRecorded EventType = "submission.recorded"
)

const (
	eventSource  = "placement-test-service"
	eventVersion = "1.0"
)

// SubmissionEvent is the envelope for all published events
type SubmissionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// SubmissionRecorded is the payload of a submission.recorded event. Values
// are the stored row text, after name sanitization.
type SubmissionRecorded struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Score          string `json:"score"`
	TotalQuestions string `json:"total_questions"`
	SubmittedAt    string `json:"submitted_at"`
	ResultsFile    string `json:"results_file"`
}

func NewSubmissionRecordedEvent(data SubmissionRecorded, now time.Time) *SubmissionEvent {
	return &SubmissionEvent{
		ID:        uuid.NewString(),
		Type:      EventSubmissionRecorded,
		Timestamp: now.UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}
