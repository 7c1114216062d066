package dto

import (
	"time"

	"github.com/fincore/bankapi/pkg/money"
	"github.com/google/uuid"
)

// TransactionCreate carries the fields needed to insert a transaction
// record. CPF and name fields are the immutable counterparty snapshot taken
// at creation time.
type TransactionCreate struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Type       string
	Value      money.Amount
	CPFOrigin  string
	NameOrigin string
	CPFDest    string
	NameDest   string
	CreatedAt  time.Time
}

// TransactionUpdate carries a partial update; nil fields are left untouched.
type TransactionUpdate struct {
	Value          *money.Amount
	Attachment     *string
	AttachmentName *string
}

// TransactionRead is the read-optimized projection of a transaction record.
// IsReceived is set by the read projection when the requesting user is the
// transfer destination rather than the owner.
type TransactionRead struct {
	ID             uuid.UUID    `json:"id"`
	UserID         uuid.UUID    `json:"userId"`
	Type           string       `json:"type"`
	Value          money.Amount `json:"value"`
	CPFOrigin      string       `json:"cpfOrigin,omitempty"`
	NameOrigin     string       `json:"nameOrigin,omitempty"`
	CPFDest        string       `json:"cpfDest,omitempty"`
	NameDest       string       `json:"nameDest,omitempty"`
	Attachment     string       `json:"attachment,omitempty"`
	AttachmentName string       `json:"attachmentName,omitempty"`
	IsReceived     bool         `json:"isReceived,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// TransactionListFilter narrows and pages the transaction read projection.
// Value bounds are in centavos; the date bounds are inclusive of DateFrom
// and exclusive of DateTo.
type TransactionListFilter struct {
	Type     string
	Search   string
	ValueMin *money.Amount
	ValueMax *money.Amount
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}

// TransactionPage is one page of the read projection plus the total match
// count for client-side page-count computation.
type TransactionPage struct {
	Transactions []*TransactionRead `json:"transactions"`
	TotalCount   int64              `json:"totalCount"`
}
