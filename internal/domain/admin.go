package domain

import (
	"context"
	"fmt"

	"github.com/lotto-lab/backend/internal/common"
	"github.com/lotto-lab/backend/internal/domain/broadcast"
	"github.com/lotto-lab/backend/internal/domain/event"
	"github.com/lotto-lab/backend/internal/domain/session"
	"github.com/lotto-lab/backend/internal/entity"
	"github.com/lotto-lab/backend/internal/repository"
	"github.com/lotto-lab/backend/pkg/errorx"
	"github.com/lotto-lab/backend/pkg/sampling"
	"github.com/lotto-lab/backend/pkg/xcontext"
	"github.com/lotto-lab/backend/pkg/xredis"

	"github.com/shopspring/decimal"
)

// ticketNumberSpace is the number of distinct six-digit ticket numbers.
const ticketNumberSpace = 1000000

type AdminDomain interface {
	GetStats(context.Context) (*event.AdminStatsEvent, error)
	CreateTickets(context.Context) (*event.TicketsCreatedEvent, error)
	Reset(context.Context) (*event.ResetSuccessEvent, error)
	EnsureTickets(context.Context) (int, error)
}

type adminDomain struct {
	userRepo     repository.UserRepository
	ticketRepo   repository.TicketRepository
	purchaseRepo repository.PurchaseRepository
	prizeRepo    repository.PrizeRepository
	registry     session.Registry
	bus          broadcast.Bus
	verifier     *common.SessionVerifier
	redisClient  xredis.Client
	source       sampling.Source
}

func NewAdminDomain(
	userRepo repository.UserRepository,
	ticketRepo repository.TicketRepository,
	purchaseRepo repository.PurchaseRepository,
	prizeRepo repository.PrizeRepository,
	registry session.Registry,
	bus broadcast.Bus,
	verifier *common.SessionVerifier,
	redisClient xredis.Client,
	source sampling.Source,
) *adminDomain {
	return &adminDomain{
		userRepo:     userRepo,
		ticketRepo:   ticketRepo,
		purchaseRepo: purchaseRepo,
		prizeRepo:    prizeRepo,
		registry:     registry,
		bus:          bus,
		verifier:     verifier,
		redisClient:  redisClient,
		source:       source,
	}
}

func (d *adminDomain) GetStats(ctx context.Context) (*event.AdminStatsEvent, error) {
	if _, err := d.verifier.Verify(ctx, entity.AdminRoles...); err != nil {
		return nil, err
	}

	members, err := d.userRepo.CountByRole(ctx, entity.MemberRole)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count members: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.ticketRepo.Count(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count tickets: %v", err)
		return nil, errorx.Unknown
	}

	sold, err := d.ticketRepo.CountByStatus(ctx, entity.TicketSold)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count sold tickets: %v", err)
		return nil, errorx.Unknown
	}

	value, err := d.ticketRepo.SumPriceByStatus(ctx, entity.TicketSold)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sum sold tickets: %v", err)
		return nil, errorx.Unknown
	}

	resp := &event.AdminStatsEvent{
		TotalMembers:       members,
		TicketsSold:        sold,
		TicketsLeft:        total - sold,
		TotalValue:         money(value),
		ActiveConnections:  d.registry.Len(),
		AuthenticatedUsers: d.registry.AuthenticatedLen(),
	}

	reply(ctx, d.bus, resp)
	return resp, nil
}

// CreateTickets replaces the whole ticket pool with a freshly generated one.
func (d *adminDomain) CreateTickets(ctx context.Context) (*event.TicketsCreatedEvent, error) {
	if _, err := d.verifier.Verify(ctx, entity.AdminRoles...); err != nil {
		return nil, err
	}

	n, err := d.recreateTickets(ctx)
	if err != nil {
		return nil, err
	}

	resp := &event.TicketsCreatedEvent{
		Success:        true,
		Message:        fmt.Sprintf("Created %d new tickets", n),
		TicketsCreated: n,
	}
	reply(ctx, d.bus, resp)

	d.bus.Broadcast(ctx, event.TicketsUpdatedEvent{
		TicketsCreated: n,
		Message:        "The ticket pool has been recreated",
	})

	return resp, nil
}

func (d *adminDomain) recreateTickets(ctx context.Context) (int, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.ticketRepo.DeleteAll(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete tickets: %v", err)
		return 0, errorx.Unknown
	}

	n, err := d.seedTickets(ctx)
	if err != nil {
		return 0, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit tickets: %v", err)
		return 0, errorx.Unknown
	}

	return n, nil
}

// EnsureTickets seeds the ticket pool if it is empty and returns the number
// of created tickets.
func (d *adminDomain) EnsureTickets(ctx context.Context) (int, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	count, err := d.ticketRepo.Count(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count tickets: %v", err)
		return 0, errorx.Unknown
	}

	if count > 0 {
		return 0, nil
	}

	n, err := d.seedTickets(ctx)
	if err != nil {
		return 0, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit tickets: %v", err)
		return 0, errorx.Unknown
	}

	return n, nil
}

func (d *adminDomain) seedTickets(ctx context.Context) (int, error) {
	cfg := xcontext.Configs(ctx).Ticket
	numbers := generateTicketNumbers(d.source, cfg.PoolSize)

	price := money(decimal.NewFromFloat(cfg.Price))
	tickets := make([]entity.Ticket, 0, len(numbers))
	for _, number := range numbers {
		tickets = append(tickets, entity.Ticket{
			Number: number,
			Price:  price,
			Status: entity.TicketAvailable,
		})
	}

	if err := d.ticketRepo.CreateBatch(ctx, tickets, cfg.BatchSize); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create tickets: %v", err)
		return 0, errorx.Unknown
	}

	return len(tickets), nil
}

// generateTicketNumbers returns n distinct zero padded six-digit numbers.
// n must not exceed ticketNumberSpace.
func generateTicketNumbers(src sampling.Source, n int) []string {
	seen := make(map[int]bool, n)
	result := make([]string, 0, n)
	for len(result) < n {
		v := src.Intn(ticketNumberSpace)
		if seen[v] {
			continue
		}

		seen[v] = true
		result = append(result, fmt.Sprintf("%06d", v))
	}

	return result
}

// Reset removes every ticket, purchase, prize and member account. Admin and
// owner accounts are kept.
func (d *adminDomain) Reset(ctx context.Context) (*event.ResetSuccessEvent, error) {
	if _, err := d.verifier.Verify(ctx, entity.AdminRoles...); err != nil {
		return nil, err
	}

	if err := d.reset(ctx); err != nil {
		return nil, err
	}

	if n := d.registry.LogoutRole(entity.MemberRole); n > 0 {
		xcontext.Logger(ctx).Infof("Logged out %d member sessions after reset", n)
	}

	if d.redisClient != nil {
		if err := d.redisClient.Del(ctx, common.RedisKeyLatestDraw()); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot clear latest draw cache: %v", err)
		}
	}

	d.bus.Broadcast(ctx, event.ResetSuccessEvent{Message: "The system has been reset"})

	resp := &event.ResetSuccessEvent{
		Success: true,
		Message: "The system has been reset, new tickets can be created from the admin page",
	}
	reply(ctx, d.bus, resp)

	return resp, nil
}

func (d *adminDomain) reset(ctx context.Context) error {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"prizes", d.prizeRepo.DeleteAll},
		{"purchases", d.purchaseRepo.DeleteAll},
		{"tickets", d.ticketRepo.DeleteAll},
		{"members", func(ctx context.Context) error {
			return d.userRepo.DeleteByRole(ctx, entity.MemberRole)
		}},
	}

	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete %s: %v", step.name, err)
			return errorx.Unknown
		}
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit reset: %v", err)
		return errorx.Unknown
	}

	return nil
}
