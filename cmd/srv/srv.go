package main

import (
	"context"
	"fmt"

	"github.com/lotto-lab/backend/config"
	"github.com/lotto-lab/backend/internal/common"
	"github.com/lotto-lab/backend/internal/domain"
	"github.com/lotto-lab/backend/internal/domain/broadcast"
	"github.com/lotto-lab/backend/internal/domain/gateway"
	"github.com/lotto-lab/backend/internal/domain/session"
	"github.com/lotto-lab/backend/internal/repository"
	"github.com/lotto-lab/backend/pkg/credential"
	"github.com/lotto-lab/backend/pkg/kafka"
	"github.com/lotto-lab/backend/pkg/logger"
	"github.com/lotto-lab/backend/pkg/sampling"
	"github.com/lotto-lab/backend/pkg/xcontext"
	"github.com/lotto-lab/backend/pkg/xredis"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	// instanceID tells apart the service instances sharing a kafka topic.
	instanceID string

	userRepo     repository.UserRepository
	ticketRepo   repository.TicketRepository
	purchaseRepo repository.PurchaseRepository
	prizeRepo    repository.PrizeRepository

	registry    session.Registry
	bus         broadcast.Bus
	redisClient xredis.Client
	publisher   *kafka.Publisher
	subscriber  *kafka.Subscriber

	domains gateway.Domains
	admin   domain.AdminDomain
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithConfigs(context.Background(), cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(cfg.LogLevel)))
	s.instanceID = uuid.NewString()
	return nil
}

func (s *srv) newDatabase() (*gorm.DB, error) {
	cfg := xcontext.Configs(s.ctx).Database

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.New(mysql.Config{
			DSN:                       cfg.ConnectionString(),
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		})
	case "sqlite":
		dialector = sqlite.Open(cfg.File)
	default:
		return nil, fmt.Errorf("unsupported database driver %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if cfg.Driver == "sqlite" {
		// sqlite allows a single writer.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func (s *srv) loadDatabase() error {
	db, err := s.newDatabase()
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
	return nil
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.ticketRepo = repository.NewTicketRepository()
	s.purchaseRepo = repository.NewPurchaseRepository()
	s.prizeRepo = repository.NewPrizeRepository()
}

// loadRedis connects the latest draw cache. The service runs without a cache
// when no address is configured.
func (s *srv) loadRedis() error {
	addr := xcontext.Configs(s.ctx).Redis.Addr
	if addr == "" {
		return nil
	}

	client, err := xredis.NewClient(s.ctx, addr)
	if err != nil {
		return err
	}

	s.redisClient = client
	return nil
}

// loadBus creates the broadcast bus. When kafka is configured, broadcasts are
// also relayed through it to the other instances.
func (s *srv) loadBus() error {
	cfg := xcontext.Configs(s.ctx).Kafka
	bus := broadcast.NewBus()
	s.bus = bus
	if len(cfg.Addrs) == 0 {
		return nil
	}

	publisher, err := kafka.NewPublisher(s.instanceID, cfg.Addrs)
	if err != nil {
		return err
	}

	groupID := fmt.Sprintf("%s-%s", cfg.GroupPrefix, s.instanceID)
	subscriber, err := kafka.NewSubscriber(groupID, cfg.Addrs, []string{cfg.BroadcastTopic}, bus.Relay)
	if err != nil {
		return err
	}

	bus.WithRelay(s.instanceID, cfg.BroadcastTopic, publisher)
	s.publisher = publisher
	s.subscriber = subscriber
	return nil
}

func (s *srv) loadDomains() error {
	cfg := xcontext.Configs(s.ctx)

	source, err := sampling.NewSource(cfg.Draw.RandomSource)
	if err != nil {
		return err
	}

	node, err := snowflake.NewNode(cfg.Draw.NodeID)
	if err != nil {
		return err
	}

	s.registry = session.NewRegistry()
	verifier := common.NewSessionVerifier(s.registry)

	s.admin = domain.NewAdminDomain(s.userRepo, s.ticketRepo, s.purchaseRepo, s.prizeRepo,
		s.registry, s.bus, verifier, s.redisClient, source)

	s.domains = gateway.Domains{
		Connection: domain.NewConnectionDomain(s.registry, s.bus, verifier),
		Auth: domain.NewAuthDomain(s.userRepo, s.registry, s.bus,
			credential.NewBcryptVerifier(cfg.Auth.BcryptCost)),
		Ticket: domain.NewTicketDomain(s.ticketRepo, s.registry, s.bus, verifier),
		Purchase: domain.NewPurchaseDomain(s.ticketRepo, s.userRepo, s.purchaseRepo,
			s.registry, s.bus, verifier),
		Draw: domain.NewDrawDomain(s.ticketRepo, s.prizeRepo, s.bus, verifier,
			s.redisClient, source, node),
		Admin: s.admin,
	}

	return nil
}
