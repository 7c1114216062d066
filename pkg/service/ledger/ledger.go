// Package ledger provides the business logic that applies, amends and
// reverses transactions against user balances. It is the single authority
// for mutating a user's cached balance: handlers never touch balances
// directly.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fincore/bankapi/pkg/domain/ledger"
	"github.com/fincore/bankapi/pkg/domain/user"
	"github.com/fincore/bankapi/pkg/dto"
	"github.com/fincore/bankapi/pkg/money"
	"github.com/fincore/bankapi/pkg/repository"
	userrepo "github.com/fincore/bankapi/pkg/repository/user"
	"github.com/google/uuid"
)

// Service implements the transaction lifecycle over a unit of work. Every
// operation runs inside one store transaction, so the balance writes and the
// transaction write of a transfer cannot be half-applied.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a ledger Service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// CreateInput carries a transaction creation intent. Value is in centavos.
// CPFDest is required for transfers and ignored otherwise.
type CreateInput struct {
	UserID  uuid.UUID
	Type    ledger.Type
	Value   money.Amount
	CPFDest string
}

// Attachment is an optional data-URI payload attached to a transaction.
type Attachment struct {
	Data string
	Name string
}

// CreateTransaction applies a new transaction's effect vector to the
// affected balance(s) and persists the record with a counterparty snapshot.
// It returns the stored transaction and the owner's new balance.
func (s *Service) CreateTransaction(
	ctx context.Context,
	in CreateInput,
) (tx *dto.TransactionRead, newBalance money.Amount, err error) {
	log := s.logger.With("context", "CreateTransaction", "userID", in.UserID, "type", in.Type)
	if _, err = ledger.ParseType(string(in.Type)); err != nil {
		return
	}
	if in.Value <= 0 {
		err = money.ErrAmountMustBePositive
		return
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users := uow.Users()
		owner, err := users.Get(ctx, in.UserID)
		if err != nil {
			return err
		}
		t := &ledger.Transaction{
			ID:        uuid.New(),
			UserID:    owner.ID,
			Type:      in.Type,
			Value:     in.Value,
			CreatedAt: time.Now().UTC(),
		}
		switch in.Type {
		case ledger.TypeDeposit:
			t.CPFDest, t.NameDest = owner.CPF, owner.FullName
		case ledger.TypeWithdrawal:
			t.CPFOrigin, t.NameOrigin = owner.CPF, owner.FullName
		case ledger.TypeTransfer:
			cpfDest := user.NormalizeCPF(in.CPFDest)
			if cpfDest == "" {
				return ledger.ErrCounterpartyRequired
			}
			dest, err := users.GetByCPF(ctx, cpfDest)
			if errors.Is(err, user.ErrUserNotFound) {
				return ledger.ErrCounterpartyNotFound
			}
			if err != nil {
				return err
			}
			if dest.ID == owner.ID {
				return ledger.ErrSelfTransfer
			}
			t.CPFOrigin, t.NameOrigin = owner.CPF, owner.FullName
			t.CPFDest, t.NameDest = dest.CPF, dest.FullName
		}
		newBalance, err = applyEffect(ctx, users, t, in.Value)
		if err != nil {
			return err
		}
		if err := uow.Transactions().Create(ctx, createDTO(t)); err != nil {
			return err
		}
		tx = readDTO(t)
		return nil
	})
	if err != nil {
		tx, newBalance = nil, 0
		log.Error("create transaction failed", "error", err)
		return
	}
	log.Info("transaction created", "transactionID", tx.ID, "newBalance", newBalance)
	return
}

// AmendTransactionValue changes a transaction's value, applying the effect
// vector scaled by newValue minus the stored value so that only the
// difference moves. An optional attachment replaces the stored one.
// CreatedAt is never changed.
func (s *Service) AmendTransactionValue(
	ctx context.Context,
	id uuid.UUID,
	newValue money.Amount,
	attach *Attachment,
) (tx *dto.TransactionRead, newBalance money.Amount, err error) {
	log := s.logger.With("context", "AmendTransactionValue", "transactionID", id)
	if newValue <= 0 {
		err = money.ErrAmountMustBePositive
		return
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txs := uow.Transactions()
		stored, err := txs.Get(ctx, id)
		if err != nil {
			return err
		}
		t := entityFromRead(stored)
		newBalance, err = applyEffect(ctx, uow.Users(), t, newValue-stored.Value)
		if err != nil {
			return err
		}
		update := &dto.TransactionUpdate{Value: &newValue}
		if attach != nil {
			update.Attachment = &attach.Data
			update.AttachmentName = &attach.Name
		}
		if err := txs.Update(ctx, id, update); err != nil {
			return err
		}
		stored.Value = newValue
		if attach != nil {
			stored.Attachment = attach.Data
			stored.AttachmentName = attach.Name
		}
		tx = stored
		return nil
	})
	if err != nil {
		tx, newBalance = nil, 0
		log.Error("amend transaction failed", "error", err)
		return
	}
	log.Info("transaction amended", "newValue", newValue, "newBalance", newBalance)
	return
}

// DeleteTransaction applies the negated effect vector, restoring every
// affected balance to its pre-transaction state, then removes the record.
func (s *Service) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	log := s.logger.With("context", "DeleteTransaction", "transactionID", id)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txs := uow.Transactions()
		stored, err := txs.Get(ctx, id)
		if err != nil {
			return err
		}
		t := entityFromRead(stored)
		if _, err := applyEffect(ctx, uow.Users(), t, -stored.Value); err != nil {
			return err
		}
		return txs.Delete(ctx, id)
	})
	if err != nil {
		log.Error("delete transaction failed", "error", err)
		return err
	}
	log.Info("transaction deleted")
	return nil
}

// applyEffect applies the transaction's effect vector scaled by d through
// the repository's atomic conditional increments. It returns the resulting
// balance of the transaction owner. Any adjustment that would push a
// balance below zero fails the whole unit of work with
// ledger.ErrInsufficientFunds; nothing is ever clamped.
func applyEffect(
	ctx context.Context,
	users userrepo.Repository,
	t *ledger.Transaction,
	d money.Amount,
) (ownerBalance money.Amount, err error) {
	for _, e := range t.Effect(d) {
		var balance money.Amount
		if e.UserID != uuid.Nil {
			balance, err = users.AdjustBalance(ctx, e.UserID, e.Delta)
		} else {
			balance, err = users.AdjustBalanceByCPF(ctx, e.CPF, e.Delta)
		}
		if err != nil {
			return 0, err
		}
		if e.UserID == t.UserID || (t.Type == ledger.TypeTransfer && e.CPF == t.CPFOrigin) {
			ownerBalance = balance
		}
	}
	return ownerBalance, nil
}

func createDTO(t *ledger.Transaction) *dto.TransactionCreate {
	return &dto.TransactionCreate{
		ID:         t.ID,
		UserID:     t.UserID,
		Type:       string(t.Type),
		Value:      t.Value,
		CPFOrigin:  t.CPFOrigin,
		NameOrigin: t.NameOrigin,
		CPFDest:    t.CPFDest,
		NameDest:   t.NameDest,
		CreatedAt:  t.CreatedAt,
	}
}

func readDTO(t *ledger.Transaction) *dto.TransactionRead {
	return &dto.TransactionRead{
		ID:         t.ID,
		UserID:     t.UserID,
		Type:       string(t.Type),
		Value:      t.Value,
		CPFOrigin:  t.CPFOrigin,
		NameOrigin: t.NameOrigin,
		CPFDest:    t.CPFDest,
		NameDest:   t.NameDest,
		CreatedAt:  t.CreatedAt,
	}
}

func entityFromRead(r *dto.TransactionRead) *ledger.Transaction {
	return &ledger.Transaction{
		ID:        r.ID,
		UserID:    r.UserID,
		Type:      ledger.Type(r.Type),
		Value:     r.Value,
		CPFOrigin: r.CPFOrigin,
		CPFDest:   r.CPFDest,
		CreatedAt: r.CreatedAt,
	}
}
