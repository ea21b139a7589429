package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Load reads the defaults, then the TOML file at path (skipped when path is
// empty), then the environment variables. Later sources win.
func Load(path string) (Configs, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Configs{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Configs{}, err
	}

	return cfg, nil
}

func (c Configs) validate() error {
	if c.Ticket.PoolSize <= 0 || c.Ticket.PoolSize > 1000000 {
		return fmt.Errorf("ticket pool size must be in (0, 1000000], got %d", c.Ticket.PoolSize)
	}

	if c.Ticket.Price <= 0 {
		return fmt.Errorf("ticket price must be positive, got %v", c.Ticket.Price)
	}

	if c.Ticket.BatchSize <= 0 {
		return fmt.Errorf("ticket batch size must be positive, got %d", c.Ticket.BatchSize)
	}

	switch c.Draw.RandomSource {
	case "crypto", "math":
	default:
		return fmt.Errorf("unknown draw random source %q", c.Draw.RandomSource)
	}

	if c.Draw.NodeID < 0 || c.Draw.NodeID > 1023 {
		return fmt.Errorf("draw node id must be in [0, 1023], got %d", c.Draw.NodeID)
	}

	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	return nil
}
