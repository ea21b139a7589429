package testutil

import (
	"context"

	"github.com/lotto-lab/backend/config"
	"github.com/lotto-lab/backend/internal/entity"
	"github.com/lotto-lab/backend/pkg/logger"
	"github.com/lotto-lab/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MockConfigs returns the configs used by tests. Bcrypt runs at its minimum
// cost to keep tests fast.
func MockConfigs() config.Configs {
	cfg := config.Default()
	cfg.Env = "test"
	cfg.Database.Driver = "sqlite"
	cfg.Database.File = ":memory:"
	cfg.Draw.RandomSource = "math"
	cfg.Auth.BcryptCost = 4
	cfg.Session.SendBuffer = 64
	return cfg
}

// MockContext returns a context carrying an empty in-memory database with
// every table migrated.
func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// Every connection to ":memory:" opens its own database, so all callers
	// must share a single one.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := entity.MigrateTable(db); err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, MockConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)
	return ctx
}
