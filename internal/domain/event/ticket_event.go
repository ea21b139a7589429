package event

import (
	"github.com/lotto-lab/backend/internal/model"

	"github.com/shopspring/decimal"
)

type TicketListEvent []model.Ticket

func (TicketListEvent) Op() string {
	return "tickets:list"
}

type UserTicketListEvent []model.Ticket

func (UserTicketListEvent) Op() string {
	return "tickets:user-list"
}

type TicketSelectedEvent struct {
	TicketID        int64   `json:"ticketId"`
	SelectedTickets []int64 `json:"selectedTickets"`
}

func (TicketSelectedEvent) Op() string {
	return "tickets:selected"
}

type TicketDeselectedEvent struct {
	TicketID        int64   `json:"ticketId"`
	SelectedTickets []int64 `json:"selectedTickets"`
}

func (TicketDeselectedEvent) Op() string {
	return "tickets:deselected"
}

type PurchaseSuccessEvent struct {
	PurchasedTickets []int64        `json:"purchasedTickets"`
	TotalCost        decimal.Decimal `json:"totalCost"`
	RemainingWallet  decimal.Decimal `json:"remainingWallet"`
	Message          string          `json:"message"`
}

func (PurchaseSuccessEvent) Op() string {
	return "purchase:success"
}

// TicketsUpdatedEvent is broadcast after a purchase, with the sold tickets,
// or after the pool is recreated, with the number of new tickets.
type TicketsUpdatedEvent struct {
	TicketIDs      []int64 `json:"ticketIds,omitempty"`
	Status         string  `json:"status,omitempty"`
	Owner          int64   `json:"owner,omitempty"`
	TicketsCreated int     `json:"ticketsCreated,omitempty"`
	Message        string  `json:"message,omitempty"`
}

func (TicketsUpdatedEvent) Op() string {
	return "tickets:updated"
}
