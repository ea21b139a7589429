package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/lotto-lab/backend/internal/domain/gateway"
	"github.com/lotto-lab/backend/internal/entity"
	"github.com/lotto-lab/backend/pkg/pubsub"
	"github.com/lotto-lab/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

// waitReady blocks until sub is ready, ctx is done or timeout passes. It
// reports whether sub became ready.
func waitReady(ctx context.Context, sub pubsub.Subscriber, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-sub.Ready():
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

func (s *srv) startServer(*cli.Context) error {
	if err := s.loadDatabase(); err != nil {
		return err
	}

	if err := entity.MigrateTable(xcontext.DB(s.ctx)); err != nil {
		return err
	}

	s.loadRepos()
	if err := s.loadRedis(); err != nil {
		return err
	}

	if err := s.loadBus(); err != nil {
		return err
	}

	if err := s.loadDomains(); err != nil {
		return err
	}

	n, err := s.admin.EnsureTickets(s.ctx)
	if err != nil {
		return err
	}

	if n > 0 {
		xcontext.Logger(s.ctx).Infof("Seeded %d tickets", n)
	}

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if s.subscriber != nil {
		s.subscriber.Subscribe(ctx)
		defer s.subscriber.Stop(context.Background())
		defer s.publisher.Stop(context.Background())

		timeout := xcontext.Configs(s.ctx).Kafka.ReadyTimeout
		if !waitReady(ctx, s.subscriber, timeout) {
			xcontext.Logger(s.ctx).Warnf(
				"Kafka consumer is not ready after %s, broadcasts of other instances are delayed", timeout)
		}
	}

	cfg := xcontext.Configs(s.ctx).WsServer
	g := gateway.New(s.registry, s.bus, s.domains)
	httpSrv := &http.Server{
		Addr:    cfg.Address(),
		Handler: g.Router(s.ctx).Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		xcontext.Logger(s.ctx).Infof("Starting server on %s", cfg.Address())
		if cfg.Cert != "" && cfg.Key != "" {
			errCh <- httpSrv.ListenAndServeTLS(cfg.Cert, cfg.Key)
		} else {
			errCh <- httpSrv.ListenAndServe()
		}
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	}

	xcontext.Logger(s.ctx).Infof("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return httpSrv.Shutdown(shutdownCtx)
}
