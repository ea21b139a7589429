package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Purchase struct {
	Base

	UserID int64
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	Date       time.Time
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}
