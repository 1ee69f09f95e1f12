package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type DiscordConfig struct {
	Token     string `env:"DISCORD_TOKEN"`
	ChannelID string `env:"DISCORD_CHANNEL_ID"`
}

func NewDiscordConfigFromEnv() (*DiscordConfig, error) {
	return NewDiscordConfig(context.Background(), nil)
}

func NewDiscordConfig(ctx context.Context, lookuper envconfig.Lookuper) (*DiscordConfig, error) {
	var cfg DiscordConfig
	if err := process(ctx, &cfg, lookuper); err != nil {
		return nil, err
	}
	if cfg.Enabled() && cfg.ChannelID == "" {
		return nil, fmt.Errorf("refusing to notify Discord without DISCORD_CHANNEL_ID")
	}
	return &cfg, nil
}

// Enabled reports whether run summaries should be posted to Discord.
func (c *DiscordConfig) Enabled() bool {
	return c.Token != ""
}
