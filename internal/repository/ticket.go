package repository

import (
	"context"

	"github.com/lotto-lab/backend/internal/entity"
	"github.com/lotto-lab/backend/pkg/xcontext"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TicketRepository interface {
	CreateBatch(ctx context.Context, tickets []entity.Ticket, batchSize int) error
	GetAll(ctx context.Context) ([]entity.Ticket, error)
	GetByOwnerID(ctx context.Context, ownerID int64) ([]entity.Ticket, error)
	GetAvailableByIDs(ctx context.Context, ids []int64) ([]entity.Ticket, error)
	GetPool(ctx context.Context, poolType entity.PoolType) ([]entity.Ticket, error)
	ClaimIfAvailable(ctx context.Context, ids []int64, ownerID, purchaseID int64) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status entity.TicketStatus) (int64, error)
	SumPriceByStatus(ctx context.Context, status entity.TicketStatus) (decimal.Decimal, error)
	DeleteAll(ctx context.Context) error
}

type ticketRepository struct{}

func NewTicketRepository() *ticketRepository {
	return &ticketRepository{}
}

func (r *ticketRepository) CreateBatch(ctx context.Context, tickets []entity.Ticket, batchSize int) error {
	if len(tickets) == 0 {
		return nil
	}

	if batchSize <= 0 {
		batchSize = len(tickets)
	}

	return xcontext.DB(ctx).CreateInBatches(tickets, batchSize).Error
}

func (r *ticketRepository) GetAll(ctx context.Context) ([]entity.Ticket, error) {
	var result []entity.Ticket
	if err := xcontext.DB(ctx).Order("number ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ticketRepository) GetByOwnerID(ctx context.Context, ownerID int64) ([]entity.Ticket, error) {
	var result []entity.Ticket
	err := xcontext.DB(ctx).Where("owner_id=?", ownerID).Order("id DESC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ticketRepository) GetAvailableByIDs(ctx context.Context, ids []int64) ([]entity.Ticket, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var result []entity.Ticket
	err := xcontext.DB(ctx).
		Where("id IN (?) AND status=?", ids, entity.TicketAvailable).
		Order("id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetPool returns the tickets eligible for a draw of poolType, ordered by id.
func (r *ticketRepository) GetPool(ctx context.Context, poolType entity.PoolType) ([]entity.Ticket, error) {
	tx := xcontext.DB(ctx).Order("id ASC")
	if poolType == entity.PoolSold {
		tx = tx.Where("status=?", entity.TicketSold)
	}

	var result []entity.Ticket
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// ClaimIfAvailable marks every ticket of ids as sold to ownerID. It returns
// gorm.ErrRecordNotFound when at least one of them was not available anymore,
// in which case the caller must roll back the partial update.
func (r *ticketRepository) ClaimIfAvailable(ctx context.Context, ids []int64, ownerID, purchaseID int64) error {
	tx := xcontext.DB(ctx).Model(&entity.Ticket{}).
		Where("id IN (?) AND status=?", ids, entity.TicketAvailable).
		Updates(map[string]any{
			"status":      entity.TicketSold,
			"owner_id":    ownerID,
			"purchase_id": purchaseID,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected != int64(len(ids)) {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *ticketRepository) Count(ctx context.Context) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Ticket{}).Count(&result).Error
	return result, err
}

func (r *ticketRepository) CountByStatus(ctx context.Context, status entity.TicketStatus) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Ticket{}).Where("status=?", status).Count(&result).Error
	return result, err
}

func (r *ticketRepository) SumPriceByStatus(ctx context.Context, status entity.TicketStatus) (decimal.Decimal, error) {
	var result decimal.NullDecimal
	err := xcontext.DB(ctx).Model(&entity.Ticket{}).
		Select("SUM(price)").
		Where("status=?", status).
		Row().Scan(&result)
	if err != nil {
		return decimal.Zero, err
	}

	if !result.Valid {
		return decimal.Zero, nil
	}

	return result.Decimal, nil
}

func (r *ticketRepository) DeleteAll(ctx context.Context) error {
	return xcontext.DB(ctx).Where("1=1").Delete(&entity.Ticket{}).Error
}
