package gateway

import (
	"context"

	"github.com/lotto-lab/backend/internal/domain"
	"github.com/lotto-lab/backend/internal/domain/event"
)

// route handles one inbound event. Failures are reported with failureOp
// unless the error maps to an authentication op.
type route struct {
	failureOp string
	handle    func(ctx context.Context, data any) error
}

func withRequest[Request, Response any](
	failureOp string, fn func(context.Context, *Request) (Response, error),
) route {
	return route{
		failureOp: failureOp,
		handle: func(ctx context.Context, data any) error {
			req := new(Request)
			if err := decodeData(data, req); err != nil {
				return err
			}

			_, err := fn(ctx, req)
			return err
		},
	}
}

func withoutRequest[Response any](failureOp string, fn func(context.Context) (Response, error)) route {
	return route{
		failureOp: failureOp,
		handle: func(ctx context.Context, _ any) error {
			_, err := fn(ctx)
			return err
		},
	}
}

type Domains struct {
	Connection domain.ConnectionDomain
	Auth       domain.AuthDomain
	Ticket     domain.TicketDomain
	Purchase   domain.PurchaseDomain
	Draw       domain.DrawDomain
	Admin      domain.AdminDomain
}

func newRoutes(d Domains) map[string]route {
	login := withRequest(event.AuthErrorOp, d.Auth.Login)
	register := withRequest(event.AuthErrorOp, d.Auth.Register)

	return map[string]route{
		"login":         login,
		"auth:login":    login,
		"register":      register,
		"auth:register": register,

		"tickets:get-all":  withoutRequest(event.ErrorOp, d.Ticket.GetAll),
		"tickets:get-user": withRequest(event.ErrorOp, d.Ticket.GetUserTickets),
		"tickets:select":   withRequest(event.ErrorOp, d.Ticket.Select),
		"tickets:deselect": withRequest(event.ErrorOp, d.Ticket.Deselect),
		"tickets:purchase": withRequest(event.PurchaseErrorOp, d.Purchase.Purchase),

		"admin:get-stats":      withoutRequest(event.ErrorOp, d.Admin.GetStats),
		"admin:create-tickets": withoutRequest(event.ErrorOp, d.Admin.CreateTickets),
		"admin:draw-prizes":    withRequest(event.DrawErrorOp, d.Draw.Draw),
		"draw:get-latest":      withoutRequest(event.ErrorOp, d.Draw.GetLatest),
		"admin:reset":          withoutRequest(event.ErrorOp, d.Admin.Reset),

		"session:get-info": withoutRequest(event.ErrorOp, d.Connection.GetInfo),
		"session:get-all":  withoutRequest(event.ErrorOp, d.Connection.GetAll),
	}
}
