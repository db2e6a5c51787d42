package auditlog

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"

	ActionSignIn        = "signin"
	ActionSignInFailed  = "signin_failed"
	ActionSignOut       = "signout"
	ActionSignOutFailed = "signout_failed"
)

const (
	ReasonAlreadySignedIn = "already_signed_in"
	ReasonNotSignedIn     = "not_signed_in"
	ReasonPersonNotFound  = "person_not_found"
	ReasonStoreError      = "store_error"
)

// ActivityEvent is one immutable row in the activity audit trail.
// Rows are only ever inserted and purged by age, never updated.
// UserID is nullable: a failed attempt may not resolve to a person.
type ActivityEvent struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID         *uuid.UUID `gorm:"column:user_id;type:uuid;index"`
	Action         string     `gorm:"column:action;type:varchar(64);not null;index"`
	Status         string     `gorm:"column:status;type:varchar(10);not null"`
	IPAddress      string     `gorm:"column:ip_address;type:varchar(45)"`
	UserAgent      string     `gorm:"column:user_agent;type:varchar(255)"`
	Timestamp      time.Time  `gorm:"column:timestamp;type:timestamptz;not null;index"`
	AdditionalData []byte     `gorm:"column:additional_data;type:jsonb"`
}

func (ActivityEvent) TableName() string {
	return "activity_events"
}

// SignInDetail is the typed additional_data payload for successful
// sign-in/out events.
type SignInDetail struct {
	SessionID       string `json:"session_id"`
	Method          string `json:"method,omitempty"`
	DurationMinutes *int   `json:"duration_minutes,omitempty"`
}

// FailureDetail is the typed additional_data payload for failed
// attempts.
type FailureDetail struct {
	Reason string `json:"reason"`
	Method string `json:"method,omitempty"`
}
