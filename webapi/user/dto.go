package user

import (
	"time"

	"github.com/fincore/bankapi/pkg/dto"
	"github.com/fincore/bankapi/pkg/money"
)

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	FullName  string `json:"fullName" validate:"required,min=2,max=120"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	CPF       string `json:"cpf" validate:"required"`
	BirthDate string `json:"birthDate" validate:"required"`
}

// UserResponse is the account shape returned by the API. The balance is in
// decimal reais.
type UserResponse struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	CPF          string    `json:"cpf"`
	BirthDate    string    `json:"birthDate"`
	TotalBalance float64   `json:"totalBalance"`
	CreatedAt    time.Time `json:"createdAt"`
}

func newUserResponse(u *dto.UserRead) UserResponse {
	return UserResponse{
		ID:           u.ID.String(),
		FullName:     u.FullName,
		Email:        u.Email,
		CPF:          u.CPF,
		BirthDate:    u.BirthDate,
		TotalBalance: money.ToReais(u.TotalBalance),
		CreatedAt:    u.CreatedAt,
	}
}
