package model

import "github.com/shopspring/decimal"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`

	// Wallet is required, nil means the client did not send it.
	Wallet *decimal.Decimal `json:"wallet"`
	Role   string           `json:"role"`
}
