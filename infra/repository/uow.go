// Package repository provides the GORM-backed unit of work.
package repository

import (
	"context"

	txinfra "github.com/fincore/bankapi/infra/repository/transaction"
	userinfra "github.com/fincore/bankapi/infra/repository/user"
	"github.com/fincore/bankapi/pkg/repository"
	txrepo "github.com/fincore/bankapi/pkg/repository/transaction"
	userrepo "github.com/fincore/bankapi/pkg/repository/user"
	"gorm.io/gorm"
)

// UoW provides the transaction boundary and repository access in one
// abstraction. Repositories handed out inside Do share the session of the
// surrounding database transaction.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a unit of work for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs fn inside a database transaction, providing a UoW bound to it.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

// Users returns the user repository bound to the current session.
func (u *UoW) Users() userrepo.Repository {
	return userinfra.New(u.session())
}

// Transactions returns the transaction repository bound to the current
// session.
func (u *UoW) Transactions() txrepo.Repository {
	return txinfra.New(u.session())
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

var _ repository.UnitOfWork = (*UoW)(nil)
