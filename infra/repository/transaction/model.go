package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Transaction represents a transaction record in the database. The CPF and
// name columns are the counterparty snapshot taken at creation time; they
// are never updated afterwards.
type Transaction struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Type           string    `gorm:"not null;size:16;index"`
	Value          int64     `gorm:"not null"`
	CPFOrigin      string    `gorm:"size:11;index"`
	NameOrigin     string    `gorm:"size:120"`
	CPFDest        string    `gorm:"size:11;index"`
	NameDest       string    `gorm:"size:120"`
	Attachment     string    `gorm:"type:text"`
	AttachmentName string    `gorm:"size:255"`
	CreatedAt      time.Time `gorm:"index"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}
