package events

import "time"

type EventType string

const (
	EventTypeTripPlanned    EventType = "TripPlanned"
	EventTypeReportsFetched EventType = "ReportsFetched"
	EventTypeVoteCast       EventType = "VoteCast"
	EventTypeReportCreated  EventType = "ReportCreated"
)

// Event is one entry of the activity archive.
type Event struct {
	Type      EventType `json:"type" bson:"type"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	SessionID string    `json:"session_id,omitempty" bson:"sessionid,omitempty"`

	Origin      string `json:"origin,omitempty" bson:"origin,omitempty"`
	Destination string `json:"destination,omitempty" bson:"destination,omitempty"`
	Line        string `json:"line,omitempty" bson:"line,omitempty"`
	ReportID    int64  `json:"report_id,omitempty" bson:"reportid,omitempty"`
	Action      string `json:"action,omitempty" bson:"action,omitempty"`

	Success    bool   `json:"success" bson:"success"`
	FailReason string `json:"fail_reason,omitempty" bson:"failreason,omitempty"`
	Count      int    `json:"count" bson:"count"`
}

func (e *Event) IndexName() string {
	return "transittracker-events-" + e.Timestamp.UTC().Format("2006-01-02")
}
