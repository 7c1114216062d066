// Package auth provides CPF and password login and session token issuance.
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/fincore/bankapi/pkg/config"
	domain "github.com/fincore/bankapi/pkg/domain/user"
	"github.com/fincore/bankapi/pkg/dto"
	"github.com/fincore/bankapi/pkg/repository"
	"github.com/fincore/bankapi/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Service implements credential checking and JWT issuance.
type Service struct {
	uow    repository.UnitOfWork
	cfg    config.Jwt
	logger *slog.Logger
}

// New creates an auth Service.
func New(uow repository.UnitOfWork, cfg config.Jwt, logger *slog.Logger) *Service {
	return &Service{uow: uow, cfg: cfg, logger: logger}
}

// Login checks the CPF and password pair. An unknown CPF returns
// user.ErrUserNotFound; a wrong password returns user.ErrUserUnauthorized.
func (s *Service) Login(ctx context.Context, cpf, password string) (u *dto.UserRead, err error) {
	log := s.logger.With("context", "Login")
	cpf = domain.NormalizeCPF(cpf)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		u, err = uow.Users().GetByCPF(ctx, cpf)
		return err
	})
	if err != nil {
		log.Error("login failed", "error", err)
		return nil, err
	}
	if !utils.CheckPasswordHash(password, u.HashedPassword) {
		log.Warn("wrong password", "userID", u.ID)
		return nil, domain.ErrUserUnauthorized
	}
	log.Info("user logged in", "userID", u.ID)
	return u, nil
}

// GetCurrentUserID extracts the user id from a verified session token.
func (s *Service) GetCurrentUserID(token *jwt.Token) (uuid.UUID, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, domain.ErrUserUnauthorized
	}
	sub, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, domain.ErrUserUnauthorized
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, domain.ErrUserUnauthorized
	}
	return id, nil
}

// GenerateToken issues a signed session token for the user.
func (s *Service) GenerateToken(u *dto.UserRead) (string, error) {
	claims := jwt.MapClaims{
		"user_id": u.ID.String(),
		"cpf":     u.CPF,
		"exp":     time.Now().Add(s.cfg.Expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}
