// Package user defines the user entity and its invariants.
package user

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/fincore/bankapi/pkg/money"
	"github.com/fincore/bankapi/pkg/utils"
	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when a user cannot be found in the
	// repository.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserUnauthorized is returned when credentials do not match.
	ErrUserUnauthorized = errors.New("user unauthorized")
	// ErrCPFAlreadyRegistered is returned when registering a CPF that
	// already belongs to another user.
	ErrCPFAlreadyRegistered = errors.New("cpf already registered")
	// ErrEmailAlreadyRegistered is returned when registering an email that
	// already belongs to another user.
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrInvalidCPF is returned when a CPF does not have eleven digits.
	ErrInvalidCPF = errors.New("invalid cpf")
)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizeCPF strips punctuation from a CPF so lookups are stable
// regardless of how the client formats it.
func NormalizeCPF(cpf string) string {
	return nonDigits.ReplaceAllString(cpf, "")
}

// User represents an account holder. TotalBalance is the cached signed sum
// of all transactions touching the user, in centavos, and is mutated only by
// the ledger service.
type User struct {
	ID           uuid.UUID    `json:"id"`
	FullName     string       `json:"fullName"`
	Email        string       `json:"email"`
	Password     string       `json:"-"`
	CPF          string       `json:"cpf"`
	BirthDate    string       `json:"birthDate"`
	TotalBalance money.Amount `json:"totalBalance"`
	CreatedAt    time.Time    `json:"created"`
	UpdatedAt    time.Time    `json:"updated"`
}

// New creates a User with a hashed password, a normalized CPF and a zero
// balance.
func New(fullName, email, password, cpf, birthDate string) (*User, error) {
	if strings.TrimSpace(fullName) == "" {
		return nil, errors.New("full name cannot be empty")
	}
	if !utils.IsEmail(email) {
		return nil, errors.New("invalid email address")
	}
	cpf = NormalizeCPF(cpf)
	if len(cpf) != 11 {
		return nil, ErrInvalidCPF
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		FullName:     fullName,
		Email:        email,
		Password:     hashed,
		CPF:          cpf,
		BirthDate:    birthDate,
		TotalBalance: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
