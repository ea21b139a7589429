package repository

import (
	"context"

	"github.com/lotto-lab/backend/internal/entity"
	"github.com/lotto-lab/backend/pkg/xcontext"
)

type PurchaseRepository interface {
	Create(ctx context.Context, data *entity.Purchase) error
	GetByUserID(ctx context.Context, userID int64) ([]entity.Purchase, error)
	DeleteAll(ctx context.Context) error
}

type purchaseRepository struct{}

func NewPurchaseRepository() *purchaseRepository {
	return &purchaseRepository{}
}

func (r *purchaseRepository) Create(ctx context.Context, data *entity.Purchase) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *purchaseRepository) GetByUserID(ctx context.Context, userID int64) ([]entity.Purchase, error) {
	var result []entity.Purchase
	err := xcontext.DB(ctx).Where("user_id=?", userID).Order("id DESC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *purchaseRepository) DeleteAll(ctx context.Context) error {
	return xcontext.DB(ctx).Where("1=1").Delete(&entity.Purchase{}).Error
}
