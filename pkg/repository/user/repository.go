// Package user defines the persistence contract for user records.
package user

import (
	"context"

	"github.com/fincore/bankapi/pkg/dto"
	"github.com/fincore/bankapi/pkg/money"
	"github.com/google/uuid"
)

// Repository defines data access for users. Balance mutation goes through
// the AdjustBalance methods only: implementations must apply the delta as a
// single atomic conditional increment that fails with
// ledger.ErrInsufficientFunds instead of ever storing a negative balance,
// so concurrent adjustments cannot lose updates.
type Repository interface {
	// Create inserts a new user record.
	Create(ctx context.Context, create *dto.UserCreate) error

	// Get retrieves a user by id, or user.ErrUserNotFound.
	Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error)

	// GetByCPF retrieves a user by normalized CPF, or user.ErrUserNotFound.
	GetByCPF(ctx context.Context, cpf string) (*dto.UserRead, error)

	// ExistsByCPF reports whether a user with the given CPF exists.
	ExistsByCPF(ctx context.Context, cpf string) (bool, error)

	// ExistsByEmail reports whether a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// AdjustBalance atomically adds delta (centavos, possibly negative) to
	// the user's balance and returns the new balance. It fails with
	// ledger.ErrInsufficientFunds when the result would be negative and
	// user.ErrUserNotFound when the user does not exist.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta money.Amount) (money.Amount, error)

	// AdjustBalanceByCPF is AdjustBalance addressing the user by CPF.
	AdjustBalanceByCPF(ctx context.Context, cpf string, delta money.Amount) (money.Amount, error)
}
