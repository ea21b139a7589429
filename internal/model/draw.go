package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DrawPrizesRequest struct {
	PoolType string            `json:"poolType"`
	Rewards  []decimal.Decimal `json:"rewards"`
}

type DrawResult struct {
	ID        string      `json:"id"`
	PoolType  string      `json:"poolType"`
	CreatedAt time.Time   `json:"createdAt"`
	Prizes    []DrawPrize `json:"prizes"`
}

type DrawPrize struct {
	Tier int `json:"tier"`

	// TicketID holds the winning ticket number, it is what clients display.
	TicketID string          `json:"ticketId"`
	Amount   decimal.Decimal `json:"amount"`
	Claimed  bool            `json:"claimed"`
}
