package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user record in the database. TotalBalance is in
// centavos and is only ever changed through the guarded increment in
// AdjustBalance.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	FullName     string    `gorm:"not null;size:120"`
	Email        string    `gorm:"uniqueIndex;not null;size:255"`
	Password     string    `gorm:"not null"`
	CPF          string    `gorm:"uniqueIndex;not null;size:11"`
	BirthDate    string    `gorm:"size:10"`
	TotalBalance int64     `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}
