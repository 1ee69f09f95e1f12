// Package notify posts run summaries to chat channels.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/glizzus/timed-requests/internal/presenters"
	"github.com/glizzus/timed-requests/internal/report"
)

type Notifier interface {
	Notify(ctx context.Context, run report.Run) error
}

// ChannelSender is the slice of *discordgo.Session the notifier needs.
type ChannelSender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type DiscordNotifier struct {
	sender    ChannelSender
	channelID string
	logger    *slog.Logger
}

func NewDiscordNotifier(sender ChannelSender, channelID string, logger *slog.Logger) *DiscordNotifier {
	return &DiscordNotifier{
		sender:    sender,
		channelID: channelID,
		logger:    logger,
	}
}

// NewDiscordSession creates a REST-only bot session. No gateway connection is opened.
func NewDiscordSession(token string) (*discordgo.Session, error) {
	return discordgo.New("Bot " + token)
}

func (n *DiscordNotifier) Notify(ctx context.Context, run report.Run) error {
	msg := presenters.BuildRunMessage(run)
	sent, err := n.sender.ChannelMessageSendComplex(n.channelID, msg, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to post run %s to discord: %w", run.ID, err)
	}
	n.logger.DebugContext(ctx, "posted run summary", "channelID", n.channelID, "messageID", sent.ID)
	return nil
}

var _ Notifier = (*DiscordNotifier)(nil)
