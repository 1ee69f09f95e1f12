package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type MinioConfig struct {
	Endpoint string `env:"MINIO_ENDPOINT"`
	Username string `env:"MINIO_USERNAME"`
	Password string `env:"MINIO_PASSWORD"`
	Bucket   string `env:"MINIO_BUCKET, default=timed-requests"`
	Secure   bool   `env:"MINIO_SECURE, default=false"`
}

func NewMinioConfigFromEnv() (*MinioConfig, error) {
	return NewMinioConfig(context.Background(), nil)
}

func NewMinioConfig(ctx context.Context, lookuper envconfig.Lookuper) (*MinioConfig, error) {
	var cfg MinioConfig
	if err := process(ctx, &cfg, lookuper); err != nil {
		return nil, err
	}
	if cfg.Enabled() && (cfg.Username == "" || cfg.Password == "") {
		return nil, fmt.Errorf("MINIO_USERNAME and MINIO_PASSWORD are required when MINIO_ENDPOINT is set")
	}
	return &cfg, nil
}

// Enabled reports whether run reports should be uploaded.
func (c *MinioConfig) Enabled() bool {
	return c.Endpoint != ""
}
