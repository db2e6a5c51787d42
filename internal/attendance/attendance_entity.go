package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusSignedIn  = "signedIn"
	StatusSignedOut = "signedOut"
)

// AttendanceSession is one contiguous sign-in-to-sign-out interval.
// At most one row per person may be signedIn at any time; the partial
// unique index uq_attendance_active (see migrations) enforces this at
// the store level so concurrent sign-ins cannot both insert.
type AttendanceSession struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	PersonID     uuid.UUID  `gorm:"column:person_id;type:uuid;not null;index"`
	CheckedIn    time.Time  `gorm:"column:checked_in;type:timestamptz;not null;index"`
	CheckedOut   *time.Time `gorm:"column:checked_out;type:timestamptz"`
	SignInStatus string     `gorm:"column:sign_in_status;type:varchar(20);not null;default:signedIn"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	Person *PersonRef `gorm:"foreignKey:PersonID;references:ID"`
}

func (AttendanceSession) TableName() string {
	return "attendance_sessions"
}

// PersonRef carries the directory attributes needed for enrichment
// without pulling in the full person module on every query.
type PersonRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
	Username string    `gorm:"column:username"`
	Category string    `gorm:"column:category"`
}

func (PersonRef) TableName() string {
	return "persons"
}
