package entity

import (
	"github.com/lotto-lab/backend/pkg/enum"

	"github.com/shopspring/decimal"
)

type Role string

var (
	MemberRole = enum.New(Role("member"))
	AdminRole  = enum.New(Role("admin"))
	OwnerRole  = enum.New(Role("owner"))
)

// AdminRoles may run administrative operations such as draws and resets.
var AdminRoles = []Role{AdminRole, OwnerRole}

type User struct {
	Base

	Username     string          `gorm:"uniqueIndex;size:64;not null"`
	Email        string          `gorm:"uniqueIndex;size:128;not null"`
	Phone        string          `gorm:"uniqueIndex;size:32;not null"`
	Role         Role            `gorm:"size:16;not null;default:member"`
	PasswordHash string          `gorm:"not null"`
	Wallet       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
}
