// Package dto defines the data transfer objects exchanged between services
// and repositories, separating persistence shapes from domain entities.
package dto

import (
	"time"

	"github.com/fincore/bankapi/pkg/money"
	"github.com/google/uuid"
)

// UserCreate carries the fields needed to insert a new user record.
// Password is already hashed by the domain layer.
type UserCreate struct {
	ID        uuid.UUID
	FullName  string
	Email     string
	Password  string
	CPF       string
	BirthDate string
}

// UserRead is the read-optimized projection of a user record.
type UserRead struct {
	ID             uuid.UUID    `json:"id"`
	FullName       string       `json:"fullName"`
	Email          string       `json:"email"`
	CPF            string       `json:"cpf"`
	BirthDate      string       `json:"birthDate"`
	TotalBalance   money.Amount `json:"totalBalance"`
	HashedPassword string       `json:"-"`
	CreatedAt      time.Time    `json:"createdAt"`
}
