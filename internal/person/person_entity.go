package person

import (
	"time"

	"github.com/google/uuid"
)

const (
	CategoryAdmin  = "ADMIN"
	CategoryStaff  = "STAFF"
	CategoryMember = "MEMBER"
	CategoryGuest  = "GUEST"
)

// Person is the read-side projection of the externally owned person
// directory. This service never writes to it; rows are used for
// enrichment, search and existence checks only.
type Person struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name;not null"`
	Username string    `gorm:"column:username;not null;uniqueIndex"`
	Email    string    `gorm:"column:email"`
	Category string    `gorm:"column:category;type:varchar(20);not null;default:MEMBER"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Person) TableName() string {
	return "persons"
}
