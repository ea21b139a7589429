package domain

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/lotto-lab/backend/internal/common"
	"github.com/lotto-lab/backend/internal/domain/broadcast"
	"github.com/lotto-lab/backend/internal/domain/event"
	"github.com/lotto-lab/backend/internal/domain/session"
	"github.com/lotto-lab/backend/internal/entity"
	"github.com/lotto-lab/backend/internal/model"
	"github.com/lotto-lab/backend/internal/repository"
	"github.com/lotto-lab/backend/pkg/errorx"
	"github.com/lotto-lab/backend/pkg/xcontext"

	"github.com/puzpuzpuz/xsync"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseDomain interface {
	Purchase(context.Context, *model.PurchaseTicketsRequest) (*event.PurchaseSuccessEvent, error)
}

type purchaseDomain struct {
	ticketRepo   repository.TicketRepository
	userRepo     repository.UserRepository
	purchaseRepo repository.PurchaseRepository
	registry     session.Registry
	bus          broadcast.Bus
	verifier     *common.SessionVerifier

	// walletLocks serializes the purchases of a user, purchases of different
	// users never wait for each other.
	walletLocks *xsync.MapOf[string, *sync.Mutex]
}

func NewPurchaseDomain(
	ticketRepo repository.TicketRepository,
	userRepo repository.UserRepository,
	purchaseRepo repository.PurchaseRepository,
	registry session.Registry,
	bus broadcast.Bus,
	verifier *common.SessionVerifier,
) *purchaseDomain {
	return &purchaseDomain{
		ticketRepo:   ticketRepo,
		userRepo:     userRepo,
		purchaseRepo: purchaseRepo,
		registry:     registry,
		bus:          bus,
		verifier:     verifier,
		walletLocks:  xsync.NewMapOf[*sync.Mutex](),
	}
}

// Purchase buys every requested ticket or none of them. The wallet debit, the
// purchase record and the ticket claims are committed in one transaction.
func (d *purchaseDomain) Purchase(
	ctx context.Context, req *model.PurchaseTicketsRequest,
) (*event.PurchaseSuccessEvent, error) {
	s, err := d.verifier.Authenticated(ctx)
	if err != nil {
		return nil, err
	}

	ticketIDs, err := normalizeTicketIDs(req.TicketIDs)
	if err != nil {
		return nil, err
	}

	userID := s.UserID()
	lock, _ := d.walletLocks.LoadOrStore(strconv.FormatInt(userID, 10), &sync.Mutex{})
	lock.Lock()
	defer lock.Unlock()

	remaining, total, err := d.commit(ctx, s, ticketIDs)
	if err != nil {
		return nil, err
	}

	d.registry.UpdateWallet(userID, remaining)
	d.registry.ClearSelection(s.ID())

	resp := &event.PurchaseSuccessEvent{
		PurchasedTickets: ticketIDs,
		TotalCost:        total,
		RemainingWallet:  remaining,
		Message:          "Purchased successfully",
	}
	reply(ctx, d.bus, resp)

	d.bus.Broadcast(ctx, event.TicketsUpdatedEvent{
		TicketIDs: ticketIDs,
		Status:    string(entity.TicketSold),
		Owner:     userID,
	})

	if tickets, err := userTicketList(ctx, d.ticketRepo, userID); err == nil {
		reply(ctx, d.bus, tickets)
	}

	return resp, nil
}

// commit runs the purchase transaction and returns the remaining wallet and
// the total price.
func (d *purchaseDomain) commit(
	ctx context.Context, s *session.Session, ticketIDs []int64,
) (decimal.Decimal, decimal.Decimal, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	tickets, err := d.ticketRepo.GetAvailableByIDs(ctx, ticketIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tickets: %v", err)
		return decimal.Zero, decimal.Zero, errorx.Unknown
	}

	if len(tickets) != len(ticketIDs) {
		return decimal.Zero, decimal.Zero, errorx.New(errorx.InventoryConflict, "Some tickets are not available")
	}

	total := decimal.Zero
	for _, t := range tickets {
		total = total.Add(t.Price)
	}
	total = money(total)

	user, err := d.userRepo.GetByID(ctx, s.UserID())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, decimal.Zero, errorx.New(errorx.Unauthenticated, "Please log in again")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return decimal.Zero, decimal.Zero, errorx.Unknown
	}

	// The id of a deleted account may be handed out again.
	if user.Username != s.Username() || user.Role != s.Role() {
		return decimal.Zero, decimal.Zero, errorx.New(errorx.Unauthenticated, "Please log in again")
	}

	available := decimal.Min(s.Wallet(), user.Wallet)
	if available.LessThan(total) {
		return decimal.Zero, decimal.Zero, insufficientFunds(total, available)
	}

	if err := d.userRepo.DebitWallet(ctx, user.ID, total); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, decimal.Zero, insufficientFunds(total, user.Wallet)
		}

		xcontext.Logger(ctx).Errorf("Cannot debit wallet: %v", err)
		return decimal.Zero, decimal.Zero, errorx.Unknown
	}

	purchase := &entity.Purchase{
		UserID:     user.ID,
		Date:       time.Now(),
		TotalPrice: total,
	}
	if err := d.purchaseRepo.Create(ctx, purchase); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create purchase: %v", err)
		return decimal.Zero, decimal.Zero, errorx.Unknown
	}

	if err := d.ticketRepo.ClaimIfAvailable(ctx, ticketIDs, user.ID, purchase.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, decimal.Zero, errorx.New(errorx.InventoryConflict, "Some tickets are not available")
		}

		xcontext.Logger(ctx).Errorf("Cannot claim tickets: %v", err)
		return decimal.Zero, decimal.Zero, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit purchase: %v", err)
		return decimal.Zero, decimal.Zero, errorx.Unknown
	}

	return user.Wallet.Sub(total), total, nil
}

func insufficientFunds(required, available decimal.Decimal) error {
	return errorx.New(errorx.InsufficientFunds, "Insufficient wallet balance").
		WithData(model.FundsShortfall{Required: required, Available: available})
}
