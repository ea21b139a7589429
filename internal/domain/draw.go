package domain

import (
	"context"
	"errors"

	"github.com/lotto-lab/backend/internal/common"
	"github.com/lotto-lab/backend/internal/domain/broadcast"
	"github.com/lotto-lab/backend/internal/domain/event"
	"github.com/lotto-lab/backend/internal/entity"
	"github.com/lotto-lab/backend/internal/model"
	"github.com/lotto-lab/backend/internal/repository"
	"github.com/lotto-lab/backend/pkg/enum"
	"github.com/lotto-lab/backend/pkg/errorx"
	"github.com/lotto-lab/backend/pkg/sampling"
	"github.com/lotto-lab/backend/pkg/xcontext"
	"github.com/lotto-lab/backend/pkg/xredis"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type DrawDomain interface {
	Draw(context.Context, *model.DrawPrizesRequest) (*event.DrawSuccessEvent, error)
	GetLatest(context.Context) (*event.LatestDrawResultEvent, error)
}

type drawDomain struct {
	ticketRepo  repository.TicketRepository
	prizeRepo   repository.PrizeRepository
	bus         broadcast.Bus
	verifier    *common.SessionVerifier
	redisClient xredis.Client
	source      sampling.Source
	node        *snowflake.Node
}

// NewDrawDomain returns the draw engine. redisClient may be nil, the latest
// result is then always read from database.
func NewDrawDomain(
	ticketRepo repository.TicketRepository,
	prizeRepo repository.PrizeRepository,
	bus broadcast.Bus,
	verifier *common.SessionVerifier,
	redisClient xredis.Client,
	source sampling.Source,
	node *snowflake.Node,
) *drawDomain {
	return &drawDomain{
		ticketRepo:  ticketRepo,
		prizeRepo:   prizeRepo,
		bus:         bus,
		verifier:    verifier,
		redisClient: redisClient,
		source:      source,
		node:        node,
	}
}

func (d *drawDomain) Draw(ctx context.Context, req *model.DrawPrizesRequest) (*event.DrawSuccessEvent, error) {
	if _, err := d.verifier.Verify(ctx, entity.AdminRoles...); err != nil {
		return nil, err
	}

	poolType, err := enum.ToEnum[entity.PoolType](req.PoolType)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid pool type %s", req.PoolType)
	}

	if len(req.Rewards) != entity.PrizesPerDraw {
		return nil, errorx.New(errorx.BadRequest, "Exactly %d rewards are required", entity.PrizesPerDraw)
	}

	for i, r := range req.Rewards {
		if !r.IsPositive() {
			return nil, errorx.New(errorx.BadRequest, "Reward %d must be a positive amount", i+1)
		}

		if !r.Equal(money(r)) {
			return nil, errorx.New(errorx.BadRequest, "Reward %d must not have more than 2 decimal places", i+1)
		}
	}

	prizes, err := d.draw(ctx, poolType, req.Rewards)
	if err != nil {
		return nil, err
	}

	result := model.ConvertDrawResult(prizes)
	d.cache(ctx, result)

	resp := &event.DrawSuccessEvent{
		Success:    true,
		DrawResult: *result,
		Message:    "Prizes drawn successfully",
	}
	reply(ctx, d.bus, resp)

	d.bus.Broadcast(ctx, event.NewDrawResultEvent{
		DrawResult: *result,
		Message:    "A new draw result is available",
	})

	return resp, nil
}

// draw selects the winners from a consistent view of the pool and stores the
// prizes. Nothing is written when the pool is too small.
func (d *drawDomain) draw(
	ctx context.Context, poolType entity.PoolType, rewards []decimal.Decimal,
) ([]entity.Prize, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	pool, err := d.ticketRepo.GetPool(ctx, poolType)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get ticket pool: %v", err)
		return nil, errorx.Unknown
	}

	if poolType == entity.PoolSold && len(pool) == 0 {
		return nil, errorx.New(errorx.NoSoldTickets, "There is no sold ticket")
	}

	if len(pool) < entity.PrizesPerDraw {
		if poolType == entity.PoolSold {
			return nil, errorx.New(errorx.InsufficientSoldTickets,
				"Only %d sold tickets, at least %d are required", len(pool), entity.PrizesPerDraw)
		}

		return nil, errorx.New(errorx.InsufficientTickets,
			"Only %d tickets, at least %d are required", len(pool), entity.PrizesPerDraw)
	}

	winners, err := sampling.Sample(d.source, pool, entity.PrizesPerDraw)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sample winners: %v", err)
		return nil, errorx.Unknown
	}

	drawID := d.node.Generate().String()
	prizes := make([]entity.Prize, 0, len(winners))
	for i, ticket := range winners {
		prizes = append(prizes, entity.Prize{
			DrawID:       drawID,
			PoolType:     poolType,
			Rank:         i + 1,
			Amount:       money(rewards[i]),
			TicketID:     ticket.ID,
			TicketNumber: ticket.Number,
		})
	}

	if err := d.prizeRepo.CreateBatch(ctx, prizes); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create prizes: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit draw: %v", err)
		return nil, errorx.Unknown
	}

	return prizes, nil
}

func (d *drawDomain) GetLatest(ctx context.Context) (*event.LatestDrawResultEvent, error) {
	resp := &event.LatestDrawResultEvent{}

	if d.redisClient != nil {
		var cached model.DrawResult
		err := d.redisClient.GetObj(ctx, common.RedisKeyLatestDraw(), &cached)
		if err == nil {
			resp.DrawResult = &cached
			reply(ctx, d.bus, resp)
			return resp, nil
		}

		if !errors.Is(err, xredis.ErrNotFound) {
			xcontext.Logger(ctx).Warnf("Cannot get latest draw from cache: %v", err)
		}
	}

	prizes, err := d.prizeRepo.GetLatestDraw(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get latest draw: %v", err)
		return nil, errorx.Unknown
	}

	resp.DrawResult = model.ConvertDrawResult(prizes)
	d.cache(ctx, resp.DrawResult)

	reply(ctx, d.bus, resp)
	return resp, nil
}

func (d *drawDomain) cache(ctx context.Context, result *model.DrawResult) {
	if d.redisClient == nil || result == nil {
		return
	}

	ttl := xcontext.Configs(ctx).Draw.CacheTTL
	if err := d.redisClient.SetObj(ctx, common.RedisKeyLatestDraw(), result, ttl); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache latest draw: %v", err)
	}
}
