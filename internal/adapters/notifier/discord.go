package notifier

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/okian/eventreg/internal/domain/model"
)

// channelSender is the part of *discordgo.Session the notifier needs.
type channelSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Discord posts notices to a Discord channel.
type Discord struct {
	session   channelSender
	channelID string
}

// NewDiscord creates a bot session for token and posts to channelID.
// Sending a channel message goes through the REST API, so no gateway
// connection is opened.
func NewDiscord(token, channelID string) (*Discord, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if channelID == "" {
		return nil, ErrMissingChannel
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	return newDiscord(session, channelID), nil
}

func newDiscord(session channelSender, channelID string) *Discord {
	return &Discord{session: session, channelID: channelID}
}

// Notify sends the rendered notice to the configured channel.
func (d *Discord) Notify(ctx context.Context, n model.Notice) error { //nolint:gocritic // hugeParam: notices are small value types
	if d.session == nil {
		return fmt.Errorf("discord session is nil")
	}

	if _, err := d.session.ChannelMessageSend(d.channelID, Message(n), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send discord message: %w", err)
	}
	return nil
}
