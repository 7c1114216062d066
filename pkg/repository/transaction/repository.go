// Package transaction defines the persistence contract for transaction
// records.
package transaction

import (
	"context"

	"github.com/fincore/bankapi/pkg/dto"
	"github.com/google/uuid"
)

// Repository defines data access for transactions.
type Repository interface {
	// Create inserts a new transaction record.
	Create(ctx context.Context, create *dto.TransactionCreate) error

	// Get retrieves a transaction by id, or ledger.ErrTransactionNotFound.
	Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error)

	// Update applies a partial update to a transaction. CreatedAt is never
	// touched.
	Update(ctx context.Context, id uuid.UUID, update *dto.TransactionUpdate) error

	// Delete removes a transaction by id.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListForUser returns one page of transactions owned by the user or
	// received by the user's CPF as a transfer destination, newest first,
	// plus the total match count.
	ListForUser(
		ctx context.Context,
		userID uuid.UUID,
		cpf string,
		filter *dto.TransactionListFilter,
	) ([]*dto.TransactionRead, int64, error)

	// LastByType returns the user's most recent transaction of the given
	// type, or nil when there is none.
	LastByType(ctx context.Context, userID uuid.UUID, txType string) (*dto.TransactionRead, error)
}
