package repository

import (
	"testing"

	"github.com/lotto-lab/backend/internal/entity"
	"github.com/lotto-lab/backend/pkg/testutil"
	"github.com/lotto-lab/backend/pkg/xcontext"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_ticketRepository_ClaimIfAvailable(t *testing.T) {
	ctx := testutil.CreateFixtureDb()
	repo := NewTicketRepository()

	require.NoError(t, repo.ClaimIfAvailable(ctx, []int64{1, 2}, testutil.Member1.ID, 0))

	// Ticket 2 is already sold, nothing of this claim must stay.
	txCtx := xcontext.WithDBTransaction(ctx)
	err := repo.ClaimIfAvailable(txCtx, []int64{2, 3}, testutil.Member2.ID, 0)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	xcontext.WithRollbackDBTransaction(txCtx)

	available, err := repo.GetAvailableByIDs(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, available, 1)
	require.Equal(t, int64(3), available[0].ID)

	owned, err := repo.GetByOwnerID(ctx, testutil.Member1.ID)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	require.Equal(t, int64(2), owned[0].ID)
	require.Equal(t, entity.TicketSold, owned[0].Status)

	owned, err = repo.GetByOwnerID(ctx, testutil.Member2.ID)
	require.NoError(t, err)
	require.Empty(t, owned)
}

func Test_ticketRepository_GetPool(t *testing.T) {
	ctx := testutil.CreateFixtureDb()
	repo := NewTicketRepository()

	sold, err := repo.GetPool(ctx, entity.PoolSold)
	require.NoError(t, err)
	require.Empty(t, sold)

	require.NoError(t, repo.ClaimIfAvailable(ctx, []int64{5, 7}, testutil.Member1.ID, 0))

	sold, err = repo.GetPool(ctx, entity.PoolSold)
	require.NoError(t, err)
	require.Len(t, sold, 2)

	all, err := repo.GetPool(ctx, entity.PoolAll)
	require.NoError(t, err)
	require.Len(t, all, testutil.TicketCount)
}

func Test_ticketRepository_Stats(t *testing.T) {
	ctx := testutil.CreateFixtureDb()
	repo := NewTicketRepository()

	total, err := repo.SumPriceByStatus(ctx, entity.TicketSold)
	require.NoError(t, err)
	require.True(t, total.IsZero())

	require.NoError(t, repo.ClaimIfAvailable(ctx, []int64{1, 2, 3}, testutil.Member1.ID, 0))

	total, err = repo.SumPriceByStatus(ctx, entity.TicketSold)
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(240).Equal(total), "got %s", total)

	n, err := repo.CountByStatus(ctx, entity.TicketAvailable)
	require.NoError(t, err)
	require.Equal(t, int64(testutil.TicketCount-3), n)

	n, err = repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(testutil.TicketCount), n)
}

func Test_ticketRepository_RecreatePool(t *testing.T) {
	ctx := testutil.CreateFixtureDb()
	repo := NewTicketRepository()

	require.NoError(t, repo.DeleteAll(ctx))

	tickets := []entity.Ticket{}
	for _, number := range []string{"300000", "100000", "200000"} {
		tickets = append(tickets, entity.Ticket{
			Number: number,
			Price:  testutil.TicketPrice,
			Status: entity.TicketAvailable,
		})
	}
	require.NoError(t, repo.CreateBatch(ctx, tickets, 2))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "100000", all[0].Number)
	require.Equal(t, "300000", all[2].Number)
}
