package main

import (
	"fmt"

	"github.com/lotto-lab/backend/internal/domain/broadcast"
	"github.com/lotto-lab/backend/internal/entity"
	"github.com/lotto-lab/backend/pkg/credential"
	"github.com/lotto-lab/backend/pkg/enum"
	"github.com/lotto-lab/backend/pkg/xcontext"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/slices"
)

func (s *srv) startMigrate(*cli.Context) error {
	if err := s.loadDatabase(); err != nil {
		return err
	}

	if err := entity.MigrateTable(xcontext.DB(s.ctx)); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Migrated database")
	return nil
}

func (s *srv) startSeed(cctx *cli.Context) error {
	if err := s.startMigrate(cctx); err != nil {
		return err
	}

	// Seeding broadcasts nothing, the bus is only needed by the domains.
	s.loadRepos()
	s.bus = broadcast.NewBus()
	if err := s.loadDomains(); err != nil {
		return err
	}

	n, err := s.admin.EnsureTickets(s.ctx)
	if err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Seeded %d tickets", n)
	return nil
}

func (s *srv) createAdmin(cctx *cli.Context) error {
	if err := s.startMigrate(cctx); err != nil {
		return err
	}

	role, err := enum.ToEnum[entity.Role](cctx.String("role"))
	if err != nil || !slices.Contains(entity.AdminRoles, role) {
		return fmt.Errorf("invalid role %s", cctx.String("role"))
	}

	cfg := xcontext.Configs(s.ctx)
	hash, err := credential.NewBcryptVerifier(cfg.Auth.BcryptCost).Hash(cctx.String("password"))
	if err != nil {
		return err
	}

	s.loadRepos()
	user := &entity.User{
		Username:     cctx.String("username"),
		Email:        cctx.String("email"),
		Phone:        cctx.String("phone"),
		Role:         role,
		PasswordHash: hash,
		Wallet:       decimal.Zero,
	}

	if err := s.userRepo.Create(s.ctx, user); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Created %s account %s", role, user.Username)
	return nil
}
