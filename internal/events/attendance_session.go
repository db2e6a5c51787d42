package events

import "time"

const AttendanceSessionTopic = "clubhouse.attendance.session.v1"

const (
	TypeSignedIn  = "attendance.signed_in"
	TypeSignedOut = "attendance.signed_out"
)

type AttendanceSessionEvent struct {
	EventType       string    `json:"event_type"`
	SessionID       string    `json:"session_id"`
	PersonID        string    `json:"person_id"`
	OccurredAt      time.Time `json:"occurred_at"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
}
