// Package repository defines the unit-of-work contract that gives services
// transactional access to the individual repositories.
package repository

import (
	"context"

	txrepo "github.com/fincore/bankapi/pkg/repository/transaction"
	userrepo "github.com/fincore/bankapi/pkg/repository/user"
)

// UnitOfWork is the transaction boundary for the persistence layer. All
// repositories obtained inside Do share one store transaction, so the user
// writes and the transaction write of a single ledger operation either all
// commit or all roll back.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. If fn returns an error
	// the transaction is rolled back and the error is returned.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// Users returns the user repository bound to the current session.
	Users() userrepo.Repository

	// Transactions returns the transaction repository bound to the current
	// session.
	Transactions() txrepo.Repository
}
