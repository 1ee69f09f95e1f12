package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
	Stream   string `env:"REDIS_STREAM, default=timed_request_fires"`
}

func NewRedisConfigFromEnv() (*RedisConfig, error) {
	return NewRedisConfig(context.Background(), nil)
}

func NewRedisConfig(ctx context.Context, lookuper envconfig.Lookuper) (*RedisConfig, error) {
	var cfg RedisConfig
	if err := process(ctx, &cfg, lookuper); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Enabled reports whether fire records should be published to Redis.
func (c *RedisConfig) Enabled() bool {
	return c.Addr != ""
}
