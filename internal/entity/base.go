package entity

import (
	"time"

	"gorm.io/gorm"
)

type Base struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MigrateTable creates or updates every table of the service.
func MigrateTable(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Purchase{},
		&Ticket{},
		&Prize{},
	)
}
