package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionInfo is a point in time copy of a connection session. Identity
// fields are nil while the session is anonymous.
type SessionInfo struct {
	SocketID           string           `json:"socketId"`
	UserID             *int64           `json:"userId"`
	Username           *string          `json:"username"`
	Role               *string          `json:"role"`
	Wallet             *decimal.Decimal `json:"wallet"`
	IsAuthenticated    bool             `json:"isAuthenticated"`
	SelectedTickets    []int64          `json:"selectedTickets"`
	LastActivity       time.Time        `json:"lastActivity"`
	ConnectionTime     time.Time        `json:"connectionTime"`
	ConnectionDuration int64            `json:"connectionDuration"`
}

type AdminStats struct {
	TotalMembers       int64           `json:"totalMembers"`
	TicketsSold        int64           `json:"ticketsSold"`
	TicketsLeft        int64           `json:"ticketsLeft"`
	TotalValue         decimal.Decimal `json:"totalValue"`
	ActiveConnections  int             `json:"activeConnections"`
	AuthenticatedUsers int             `json:"authenticatedUsers"`
}
