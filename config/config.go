package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env      string `toml:"env" env:"LOTTO_ENV"`
	LogLevel string `toml:"log_level" env:"LOTTO_LOG_LEVEL"`

	Database DatabaseConfigs `toml:"database"`
	WsServer ServerConfigs   `toml:"ws_server"`
	Redis    RedisConfigs    `toml:"redis"`
	Kafka    KafkaConfigs    `toml:"kafka"`
	Ticket   TicketConfigs   `toml:"ticket"`
	Draw     DrawConfigs     `toml:"draw"`
	Auth     AuthConfigs     `toml:"auth"`
	Session  SessionConfigs  `toml:"session"`
}

type DatabaseConfigs struct {
	// Driver is either "mysql" or "sqlite".
	Driver   string `toml:"driver" env:"DB_DRIVER"`
	Host     string `toml:"host" env:"DB_HOST"`
	Port     string `toml:"port" env:"DB_PORT"`
	Database string `toml:"database" env:"DB_NAME"`
	User     string `toml:"user" env:"DB_USER"`
	Password string `toml:"password" env:"DB_PASS"`

	// File is the sqlite database file, ":memory:" is allowed.
	File string `toml:"file" env:"DB_FILE"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string `toml:"host" env:"HOST"`
	Port string `toml:"port" env:"PORT"`
	Cert string `toml:"cert"`
	Key  string `toml:"key"`
}

func (c ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type RedisConfigs struct {
	// Addr is empty when the service runs without a cache.
	Addr string `toml:"addr" env:"REDIS_ADDR"`
}

type KafkaConfigs struct {
	// Addrs is empty when the service runs as a single instance.
	Addrs          []string `toml:"addrs" env:"KAFKA_ADDRS" envSeparator:","`
	BroadcastTopic string   `toml:"broadcast_topic" env:"KAFKA_BROADCAST_TOPIC"`
	GroupPrefix    string   `toml:"group_prefix" env:"KAFKA_GROUP_PREFIX"`

	// ReadyTimeout bounds how long startup waits for the consumer group. The
	// server starts anyway once it passes and the consumer keeps retrying.
	ReadyTimeout time.Duration `toml:"ready_timeout" env:"KAFKA_READY_TIMEOUT"`
}

type TicketConfigs struct {
	PoolSize  int     `toml:"pool_size" env:"TICKET_POOL_SIZE"`
	Price     float64 `toml:"price" env:"TICKET_PRICE"`
	BatchSize int     `toml:"batch_size" env:"TICKET_BATCH_SIZE"`
}

type DrawConfigs struct {
	// RandomSource is "crypto" or "math".
	RandomSource string        `toml:"random_source" env:"DRAW_RANDOM_SOURCE"`
	CacheTTL     time.Duration `toml:"cache_ttl" env:"DRAW_CACHE_TTL"`

	// NodeID must differ between instances sharing a database, it is part of
	// every draw id.
	NodeID int64 `toml:"node_id" env:"DRAW_NODE_ID"`
}

type AuthConfigs struct {
	BcryptCost        int `toml:"bcrypt_cost" env:"AUTH_BCRYPT_COST"`
	MinPasswordLength int `toml:"min_password_length" env:"AUTH_MIN_PASSWORD_LENGTH"`
}

type SessionConfigs struct {
	SendBuffer int `toml:"send_buffer" env:"SESSION_SEND_BUFFER"`
}

// Default returns the configuration used when neither the config file nor the
// environment set a value.
func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Database: DatabaseConfigs{
			Driver: "mysql",
			Host:   "localhost",
			Port:   "3306",
			File:   "lotto.db",
		},
		WsServer: ServerConfigs{
			Port: "3000",
		},
		Kafka: KafkaConfigs{
			BroadcastTopic: "lotto.broadcast",
			GroupPrefix:    "lotto",
			ReadyTimeout:   10 * time.Second,
		},
		Ticket: TicketConfigs{
			PoolSize:  120,
			Price:     80,
			BatchSize: 50,
		},
		Draw: DrawConfigs{
			RandomSource: "crypto",
			CacheTTL:     24 * time.Hour,
			NodeID:       1,
		},
		Auth: AuthConfigs{
			BcryptCost:        10,
			MinPasswordLength: 1,
		},
		Session: SessionConfigs{
			SendBuffer: 128,
		},
	}
}
