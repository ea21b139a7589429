package xcontext

import (
	"context"

	"github.com/lotto-lab/backend/config"
	"github.com/lotto-lab/backend/pkg/logger"
)

type (
	configsKey       struct{}
	loggerKey        struct{}
	dbKey            struct{}
	dbTransactionKey struct{}
	connectionIDKey  struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		return config.Default()
	}

	return cfg
}

func WithLogger(ctx context.Context, logger logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		return logger.NewLogger(logger.SILENCE)
	}

	return l
}

func WithConnectionID(ctx context.Context, connID string) context.Context {
	return context.WithValue(ctx, connectionIDKey{}, connID)
}

func ConnectionID(ctx context.Context) string {
	id, _ := ctx.Value(connectionIDKey{}).(string)
	return id
}

// Detach returns a context that carries every value of ctx but is never
// cancelled. Operations that must finish their commit even when the client
// goes away run on it.
func Detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
