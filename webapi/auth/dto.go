package auth

// LoginRequest is the login payload. CPF may be formatted or digits only.
type LoginRequest struct {
	CPF      string `json:"cpf" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the session token plus the fields the client needs
// to render the account header without a second request.
type LoginResponse struct {
	UserID       string  `json:"userId"`
	FullName     string  `json:"fullName"`
	CPF          string  `json:"cpf"`
	TotalBalance float64 `json:"totalBalance"`
	Token        string  `json:"token"`
}
