package repository

import (
	"context"

	"github.com/lotto-lab/backend/internal/entity"
	"github.com/lotto-lab/backend/pkg/xcontext"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByIdentity(ctx context.Context, username, email, phone string) ([]entity.User, error)
	CountByRole(ctx context.Context, role entity.Role) (int64, error)
	DebitWallet(ctx context.Context, id int64, amount decimal.Decimal) error
	DeleteByRole(ctx context.Context, role entity.Role) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Take(&record, "username=?", username).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

// GetByIdentity returns every user sharing the username, email or phone,
// ignoring case.
func (r *userRepository) GetByIdentity(ctx context.Context, username, email, phone string) ([]entity.User, error) {
	var result []entity.User
	err := xcontext.DB(ctx).
		Where("LOWER(username)=LOWER(?) OR LOWER(email)=LOWER(?) OR phone=?", username, email, phone).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) CountByRole(ctx context.Context, role entity.Role) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.User{}).Where("role=?", role).Count(&result).Error
	return result, err
}

// DebitWallet subtracts amount from the wallet of the user only if the
// balance covers it. It returns gorm.ErrRecordNotFound otherwise.
func (r *userRepository) DebitWallet(ctx context.Context, id int64, amount decimal.Decimal) error {
	tx := xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=? AND wallet >= ?", id, amount).
		Update("wallet", gorm.Expr("wallet-?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) DeleteByRole(ctx context.Context, role entity.Role) error {
	return xcontext.DB(ctx).Where("role=?", role).Delete(&entity.User{}).Error
}
