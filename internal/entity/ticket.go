package entity

import (
	"github.com/lotto-lab/backend/pkg/enum"

	"github.com/shopspring/decimal"
)

type TicketStatus string

var (
	TicketAvailable = enum.New(TicketStatus("available"))
	TicketSold      = enum.New(TicketStatus("sold"))
)

type Ticket struct {
	Base

	Number string          `gorm:"uniqueIndex;size:6;not null"`
	Price  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status TicketStatus    `gorm:"size:16;not null;default:available;index"`

	OwnerID *int64 `gorm:"index"`
	Owner   *User  `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL"`

	PurchaseID *int64
	Purchase   *Purchase `gorm:"foreignKey:PurchaseID;constraint:OnDelete:SET NULL"`
}
