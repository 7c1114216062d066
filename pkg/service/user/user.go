// Package user provides account registration and lookup.
package user

import (
	"context"
	"log/slog"

	domain "github.com/fincore/bankapi/pkg/domain/user"
	"github.com/fincore/bankapi/pkg/dto"
	"github.com/fincore/bankapi/pkg/repository"
	"github.com/google/uuid"
)

// Service implements user registration and retrieval over a unit of work.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a user Service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// RegisterInput carries the fields of a registration request. Password is
// the plaintext credential; it is hashed before anything is stored.
type RegisterInput struct {
	FullName  string
	Email     string
	Password  string
	CPF       string
	BirthDate string
}

// Register creates a new account with a zero balance. CPF and email must be
// unique; violations surface as ErrCPFAlreadyRegistered and
// ErrEmailAlreadyRegistered.
func (s *Service) Register(ctx context.Context, in RegisterInput) (created *dto.UserRead, err error) {
	log := s.logger.With("context", "Register", "cpf", in.CPF)
	u, err := domain.New(in.FullName, in.Email, in.Password, in.CPF, in.BirthDate)
	if err != nil {
		log.Error("invalid registration", "error", err)
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users := uow.Users()
		taken, err := users.ExistsByCPF(ctx, u.CPF)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrCPFAlreadyRegistered
		}
		taken, err = users.ExistsByEmail(ctx, u.Email)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrEmailAlreadyRegistered
		}
		return users.Create(ctx, &dto.UserCreate{
			ID:        u.ID,
			FullName:  u.FullName,
			Email:     u.Email,
			Password:  u.Password,
			CPF:       u.CPF,
			BirthDate: u.BirthDate,
		})
	})
	if err != nil {
		log.Error("register failed", "error", err)
		return nil, err
	}
	log.Info("user registered", "userID", u.ID)
	return &dto.UserRead{
		ID:           u.ID,
		FullName:     u.FullName,
		Email:        u.Email,
		CPF:          u.CPF,
		BirthDate:    u.BirthDate,
		TotalBalance: u.TotalBalance,
		CreatedAt:    u.CreatedAt,
	}, nil
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (u *dto.UserRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		u, err = uow.Users().Get(ctx, id)
		return err
	})
	if err != nil {
		u = nil
		s.logger.With("context", "Get").Error("get user failed", "userID", id, "error", err)
	}
	return
}

// GetByCPF returns the user registered under the given CPF. The CPF is
// normalized before lookup.
func (s *Service) GetByCPF(ctx context.Context, cpf string) (u *dto.UserRead, err error) {
	cpf = domain.NormalizeCPF(cpf)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		u, err = uow.Users().GetByCPF(ctx, cpf)
		return err
	})
	if err != nil {
		u = nil
	}
	return
}
