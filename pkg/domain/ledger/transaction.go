// Package ledger defines the transaction entity and the effect-vector rules
// that keep user balances equal to the signed sum of their transaction
// history.
//
// Every transaction has a signed effect over one or two balances. Creating a
// transaction applies the vector scaled by its value, deleting applies the
// negated vector, and amending applies the vector scaled by the value
// difference. All three lifecycle operations in the service layer are built
// on Transaction.Effect.
package ledger

import (
	"errors"
	"time"

	"github.com/fincore/bankapi/pkg/money"
	"github.com/google/uuid"
)

var (
	// ErrInvalidType is returned when a transaction type is not one of
	// deposit, withdrawal or transfer.
	ErrInvalidType = errors.New("invalid transaction type")
	// ErrInsufficientFunds is returned when an operation would push a
	// balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrTransactionNotFound is returned when a transaction cannot be found.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrCounterpartyNotFound is returned when a transfer destination CPF
	// does not resolve to a user.
	ErrCounterpartyNotFound = errors.New("counterparty not found")
	// ErrCounterpartyRequired is returned when a transfer is requested
	// without a destination CPF.
	ErrCounterpartyRequired = errors.New("counterparty cpf is required for transfers")
	// ErrSelfTransfer is returned when a transfer destination resolves to
	// the origin user.
	ErrSelfTransfer = errors.New("cannot transfer to own account")
)

// Type identifies the kind of a transaction.
type Type string

const (
	TypeDeposit    Type = "deposit"
	TypeWithdrawal Type = "withdrawal"
	TypeTransfer   Type = "transfer"
)

// ParseType validates a raw transaction type string.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeDeposit, TypeWithdrawal, TypeTransfer:
		return Type(s), nil
	}
	return "", ErrInvalidType
}

// Transaction represents a money movement. For transfers the counterpart is
// addressed by CPF, and the origin/destination CPF and display name are a
// snapshot taken at creation time.
type Transaction struct {
	ID             uuid.UUID    `json:"id"`
	UserID         uuid.UUID    `json:"userId"`
	Type           Type         `json:"type"`
	Value          money.Amount `json:"value"`
	CPFOrigin      string       `json:"cpfOrigin,omitempty"`
	NameOrigin     string       `json:"nameOrigin,omitempty"`
	CPFDest        string       `json:"cpfDest,omitempty"`
	NameDest       string       `json:"nameDest,omitempty"`
	Attachment     string       `json:"attachment,omitempty"`
	AttachmentName string       `json:"attachmentName,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// Entry is one signed balance adjustment of a transaction's effect vector.
// Exactly one of UserID and CPF addresses the affected user: deposits and
// withdrawals touch their owner by id, transfers touch both parties by CPF.
type Entry struct {
	UserID uuid.UUID
	CPF    string
	Delta  money.Amount
}

// Effect returns the balance adjustments this transaction applies when
// scaled by d. Callers pass d = value on create, newValue - oldValue on
// amend, and -value on delete.
func (t *Transaction) Effect(d money.Amount) []Entry {
	switch t.Type {
	case TypeDeposit:
		return []Entry{{UserID: t.UserID, Delta: d}}
	case TypeWithdrawal:
		return []Entry{{UserID: t.UserID, Delta: -d}}
	case TypeTransfer:
		return []Entry{
			{CPF: t.CPFOrigin, Delta: -d},
			{CPF: t.CPFDest, Delta: d},
		}
	}
	return nil
}
