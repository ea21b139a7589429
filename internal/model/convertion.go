package model

import (
	"github.com/lotto-lab/backend/internal/entity"
)

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      string(user.Role),
		Wallet:    user.Wallet,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func ConvertTicket(ticket *entity.Ticket) Ticket {
	if ticket == nil {
		return Ticket{}
	}

	return Ticket{
		ID:      ticket.ID,
		Number:  ticket.Number,
		Price:   ticket.Price,
		Status:  string(ticket.Status),
		OwnerID: ticket.OwnerID,
	}
}

func ConvertTickets(tickets []entity.Ticket) []Ticket {
	result := []Ticket{}
	for i := range tickets {
		result = append(result, ConvertTicket(&tickets[i]))
	}

	return result
}

// ConvertDrawResult builds the result of one draw from its prizes. It returns
// nil when prizes is empty.
func ConvertDrawResult(prizes []entity.Prize) *DrawResult {
	if len(prizes) == 0 {
		return nil
	}

	result := &DrawResult{
		ID:        prizes[0].DrawID,
		PoolType:  string(prizes[0].PoolType),
		CreatedAt: prizes[0].CreatedAt,
		Prizes:    []DrawPrize{},
	}

	for _, p := range prizes {
		result.Prizes = append(result.Prizes, DrawPrize{
			Tier:     p.Rank,
			TicketID: p.TicketNumber,
			Amount:   p.Amount,
		})
	}

	return result
}
