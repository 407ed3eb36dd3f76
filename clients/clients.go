package clients

import (
	"context"

	"github.com/samber/mo"

	"krowbot/models"
)

// DiscordClient defines the Discord operations the bot relies on
type DiscordClient interface {
	// GetBotUserID returns the bot's own user ID once the gateway is ready
	GetBotUserID() string
	// GetChannel resolves a channel, returning None when it does not exist or is not visible to the bot
	GetChannel(ctx context.Context, channelID string) (mo.Option[models.DiscordChannel], error)
	SendEmbed(ctx context.Context, channelID string, embed models.DiscordEmbed) error
	// OverwriteGuildCommands replaces the guild's whole command set with the given definitions
	OverwriteGuildCommands(ctx context.Context, appID, guildID string, definitions []models.CommandDefinition) (int, error)
	RespondToInteraction(ctx context.Context, interaction models.InteractionRef, reply models.CommandReply) error
	SetActivity(name string) error
}
