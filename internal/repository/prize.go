package repository

import (
	"context"

	"github.com/lotto-lab/backend/internal/entity"
	"github.com/lotto-lab/backend/pkg/xcontext"
)

type PrizeRepository interface {
	CreateBatch(ctx context.Context, prizes []entity.Prize) error
	GetLatestDraw(ctx context.Context) ([]entity.Prize, error)
	DeleteAll(ctx context.Context) error
}

type prizeRepository struct{}

func NewPrizeRepository() *prizeRepository {
	return &prizeRepository{}
}

func (r *prizeRepository) CreateBatch(ctx context.Context, prizes []entity.Prize) error {
	if len(prizes) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Create(&prizes).Error
}

// GetLatestDraw returns the prizes of the most recent draw ordered by rank,
// or an empty slice when no draw has happened.
func (r *prizeRepository) GetLatestDraw(ctx context.Context) ([]entity.Prize, error) {
	var last entity.Prize
	err := xcontext.DB(ctx).Order("id DESC").Limit(1).Find(&last).Error
	if err != nil {
		return nil, err
	}

	if last.ID == 0 {
		return nil, nil
	}

	var result []entity.Prize
	err = xcontext.DB(ctx).Where("draw_id=?", last.DrawID).Order("`rank` ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *prizeRepository) DeleteAll(ctx context.Context) error {
	return xcontext.DB(ctx).Where("1=1").Delete(&entity.Prize{}).Error
}
