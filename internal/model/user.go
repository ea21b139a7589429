package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are sent to clients as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type User struct {
	ID        int64           `json:"user_id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Role      string          `json:"role"`
	Wallet    decimal.Decimal `json:"wallet"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	SessionInfo *SessionInfo `json:"sessionInfo,omitempty"`
}

// UserPresence is broadcast when an authenticated user joins or leaves.
type UserPresence struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
