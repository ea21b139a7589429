package domain

import (
	"context"

	"github.com/lotto-lab/backend/internal/domain/broadcast"
	"github.com/lotto-lab/backend/internal/domain/event"
	"github.com/lotto-lab/backend/pkg/errorx"
	"github.com/lotto-lab/backend/pkg/xcontext"

	"github.com/shopspring/decimal"
)

// reply sends ev to the connection which issued the request of ctx.
func reply(ctx context.Context, bus broadcast.Bus, ev event.Event) {
	bus.Send(ctx, xcontext.ConnectionID(ctx), ev)
}

// normalizeTicketIDs rejects an empty list, non positive ids and repeated ids.
func normalizeTicketIDs(ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Please select tickets to purchase")
	}

	seen := map[int64]bool{}
	result := []int64{}
	for _, id := range ids {
		if id <= 0 {
			return nil, errorx.New(errorx.BadRequest, "Invalid ticket id %d", id)
		}

		if seen[id] {
			return nil, errorx.New(errorx.BadRequest, "Ticket %d is selected more than once", id)
		}

		seen[id] = true
		result = append(result, id)
	}

	return result, nil
}

// money rounds an amount to the precision stored in database.
func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
