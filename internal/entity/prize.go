package entity

import (
	"github.com/lotto-lab/backend/pkg/enum"

	"github.com/shopspring/decimal"
)

type PoolType string

var (
	PoolAll  = enum.New(PoolType("all"))
	PoolSold = enum.New(PoolType("sold"))
)

// PrizesPerDraw is the number of ranked prizes every draw produces.
const PrizesPerDraw = 5

// Prize is one ranked reward of a draw. The five prizes of a draw share the
// same DrawID and are inserted in a single batch.
type Prize struct {
	Base

	DrawID   string          `gorm:"size:32;not null;index"`
	PoolType PoolType        `gorm:"size:8;not null"`
	Rank     int             `gorm:"not null;index"`
	Amount   decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	// The winning ticket is denormalized because tickets are deleted by a
	// recreate or reset while prize history is kept.
	TicketID     int64
	TicketNumber string `gorm:"size:6;not null"`
}
