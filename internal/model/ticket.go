package model

import "github.com/shopspring/decimal"

type Ticket struct {
	ID      int64           `json:"id"`
	Number  string          `json:"number"`
	Price   decimal.Decimal `json:"price"`
	Status  string          `json:"status"`
	OwnerID *int64          `json:"owner_id"`
}

type GetUserTicketsRequest struct {
	UserID int64 `json:"userId"`
}

type SelectTicketRequest struct {
	TicketID int64 `json:"ticketId"`
}

type PurchaseTicketsRequest struct {
	TicketIDs []int64 `json:"ticketIds"`
}

// FundsShortfall is attached to an insufficient funds error.
type FundsShortfall struct {
	Required  decimal.Decimal `json:"required"`
	Available decimal.Decimal `json:"available"`
}
