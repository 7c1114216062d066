package ledger

import (
	"context"

	"github.com/fincore/bankapi/pkg/domain/ledger"
	"github.com/fincore/bankapi/pkg/dto"
	"github.com/fincore/bankapi/pkg/repository"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ListTransactions returns one page of the user's statement: transactions
// the user owns plus transfers received on the user's CPF, newest first,
// with the total match count. Received transfers are flagged IsReceived.
func (s *Service) ListTransactions(
	ctx context.Context,
	userID uuid.UUID,
	filter *dto.TransactionListFilter,
) (page *dto.TransactionPage, err error) {
	log := s.logger.With("context", "ListTransactions", "userID", userID)
	if filter == nil {
		filter = &dto.TransactionListFilter{}
	}
	if filter.Type != "" {
		if _, err = ledger.ParseType(filter.Type); err != nil {
			return
		}
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		owner, err := uow.Users().Get(ctx, userID)
		if err != nil {
			return err
		}
		rows, total, err := uow.Transactions().ListForUser(ctx, userID, owner.CPF, filter)
		if err != nil {
			return err
		}
		for _, r := range rows {
			r.IsReceived = r.UserID != userID
		}
		page = &dto.TransactionPage{Transactions: rows, TotalCount: total}
		return nil
	})
	if err != nil {
		page = nil
		log.Error("list transactions failed", "error", err)
	}
	return
}

// GetTransaction returns a single transaction by id.
func (s *Service) GetTransaction(ctx context.Context, id uuid.UUID) (tx *dto.TransactionRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		tx, err = uow.Transactions().Get(ctx, id)
		return err
	})
	if err != nil {
		tx = nil
	}
	return
}

// LastTransaction returns the user's most recent transaction of the given
// type, or nil when the user has none. Used by the UI to prefill forms.
func (s *Service) LastTransaction(
	ctx context.Context,
	userID uuid.UUID,
	txType string,
) (tx *dto.TransactionRead, err error) {
	if _, err = ledger.ParseType(txType); err != nil {
		return
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if _, err := uow.Users().Get(ctx, userID); err != nil {
			return err
		}
		tx, err = uow.Transactions().LastByType(ctx, userID, txType)
		return err
	})
	if err != nil {
		tx = nil
	}
	return
}
