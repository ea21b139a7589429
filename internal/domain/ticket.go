package domain

import (
	"context"

	"github.com/lotto-lab/backend/internal/common"
	"github.com/lotto-lab/backend/internal/domain/broadcast"
	"github.com/lotto-lab/backend/internal/domain/event"
	"github.com/lotto-lab/backend/internal/domain/session"
	"github.com/lotto-lab/backend/internal/model"
	"github.com/lotto-lab/backend/internal/repository"
	"github.com/lotto-lab/backend/pkg/errorx"
	"github.com/lotto-lab/backend/pkg/xcontext"
)

type TicketDomain interface {
	GetAll(context.Context) (event.TicketListEvent, error)
	GetUserTickets(context.Context, *model.GetUserTicketsRequest) (event.UserTicketListEvent, error)
	Select(context.Context, *model.SelectTicketRequest) (*event.TicketSelectedEvent, error)
	Deselect(context.Context, *model.SelectTicketRequest) (*event.TicketDeselectedEvent, error)
}

type ticketDomain struct {
	ticketRepo repository.TicketRepository
	registry   session.Registry
	bus        broadcast.Bus
	verifier   *common.SessionVerifier
}

func NewTicketDomain(
	ticketRepo repository.TicketRepository,
	registry session.Registry,
	bus broadcast.Bus,
	verifier *common.SessionVerifier,
) *ticketDomain {
	return &ticketDomain{
		ticketRepo: ticketRepo,
		registry:   registry,
		bus:        bus,
		verifier:   verifier,
	}
}

func (d *ticketDomain) GetAll(ctx context.Context) (event.TicketListEvent, error) {
	tickets, err := d.ticketRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get all tickets: %v", err)
		return nil, errorx.Unknown
	}

	resp := event.TicketListEvent(model.ConvertTickets(tickets))
	reply(ctx, d.bus, resp)
	return resp, nil
}

func (d *ticketDomain) GetUserTickets(
	ctx context.Context, req *model.GetUserTicketsRequest,
) (event.UserTicketListEvent, error) {
	s, err := d.verifier.Authenticated(ctx)
	if err != nil {
		return nil, err
	}

	userID := req.UserID
	if userID == 0 {
		userID = s.UserID()
	}

	resp, err := userTicketList(ctx, d.ticketRepo, userID)
	if err != nil {
		return nil, err
	}

	reply(ctx, d.bus, resp)
	return resp, nil
}

func (d *ticketDomain) Select(
	ctx context.Context, req *model.SelectTicketRequest,
) (*event.TicketSelectedEvent, error) {
	selected, err := d.registry.Select(xcontext.ConnectionID(ctx), req.TicketID)
	if err != nil {
		return nil, err
	}

	resp := &event.TicketSelectedEvent{TicketID: req.TicketID, SelectedTickets: selected}
	reply(ctx, d.bus, resp)
	return resp, nil
}

func (d *ticketDomain) Deselect(
	ctx context.Context, req *model.SelectTicketRequest,
) (*event.TicketDeselectedEvent, error) {
	selected, err := d.registry.Deselect(xcontext.ConnectionID(ctx), req.TicketID)
	if err != nil {
		return nil, err
	}

	resp := &event.TicketDeselectedEvent{TicketID: req.TicketID, SelectedTickets: selected}
	reply(ctx, d.bus, resp)
	return resp, nil
}

func userTicketList(
	ctx context.Context, ticketRepo repository.TicketRepository, userID int64,
) (event.UserTicketListEvent, error) {
	tickets, err := ticketRepo.GetByOwnerID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tickets of user %d: %v", userID, err)
		return nil, errorx.Unknown
	}

	return event.UserTicketListEvent(model.ConvertTickets(tickets)), nil
}
