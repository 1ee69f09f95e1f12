package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// RequestConfig controls the outbound request every target fires.
type RequestConfig struct {
	Endpoint  string        `env:"TIMED_ENDPOINT, default=http://ifconfig.co"`
	Timeout   time.Duration `env:"TIMED_REQUEST_TIMEOUT, default=20s"`
	ProxyURL  string        `env:"TIMED_PROXY_URL"`
	UserAgent string        `env:"TIMED_USER_AGENT, default=timed-requests/1.0"`
}

func NewRequestConfigFromEnv() (*RequestConfig, error) {
	return NewRequestConfig(context.Background(), nil)
}

func NewRequestConfig(ctx context.Context, lookuper envconfig.Lookuper) (*RequestConfig, error) {
	var cfg RequestConfig
	if err := process(ctx, &cfg, lookuper); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("TIMED_REQUEST_TIMEOUT must be positive, got %s", cfg.Timeout)
	}
	return &cfg, nil
}
