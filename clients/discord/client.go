package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/mo"

	"krowbot/clients"
	"krowbot/models"
)

// NewSession creates a discordgo session with the intents the bot subscribes to
func NewSession(botToken string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages

	return session, nil
}

// DiscordClient implements the clients.DiscordClient interface on top of discordgo
type DiscordClient struct {
	session *discordgo.Session
}

func NewDiscordClient(session *discordgo.Session) clients.DiscordClient {
	return &DiscordClient{session: session}
}

func (c *DiscordClient) GetBotUserID() string {
	if c.session.State == nil || c.session.State.User == nil {
		return ""
	}
	return c.session.State.User.ID
}

// GetChannel looks the channel up in the gateway state cache first and falls back to the REST API
func (c *DiscordClient) GetChannel(ctx context.Context, channelID string) (mo.Option[models.DiscordChannel], error) {
	if channelID == "" {
		return mo.None[models.DiscordChannel](), nil
	}

	if c.session.State != nil {
		if channel, err := c.session.State.Channel(channelID); err == nil {
			return mo.Some(toChannel(channel)), nil
		}
	}

	channel, err := c.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Response != nil &&
			(restErr.Response.StatusCode == http.StatusNotFound || restErr.Response.StatusCode == http.StatusForbidden) {
			return mo.None[models.DiscordChannel](), nil
		}
		return mo.None[models.DiscordChannel](), fmt.Errorf("failed to fetch channel %s: %w", channelID, err)
	}

	return mo.Some(toChannel(channel)), nil
}

func (c *DiscordClient) SendEmbed(ctx context.Context, channelID string, embed models.DiscordEmbed) error {
	_, err := c.session.ChannelMessageSendEmbed(channelID, toMessageEmbed(embed), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send embed to channel %s: %w", channelID, err)
	}
	return nil
}

func (c *DiscordClient) OverwriteGuildCommands(
	ctx context.Context,
	appID, guildID string,
	definitions []models.CommandDefinition,
) (int, error) {
	commands := make([]*discordgo.ApplicationCommand, 0, len(definitions))
	for _, definition := range definitions {
		command, err := toApplicationCommand(definition)
		if err != nil {
			return 0, err
		}
		commands = append(commands, command)
	}

	registered, err := c.session.ApplicationCommandBulkOverwrite(appID, guildID, commands, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to overwrite guild commands: %w", err)
	}
	return len(registered), nil
}

func (c *DiscordClient) RespondToInteraction(
	ctx context.Context,
	interaction models.InteractionRef,
	reply models.CommandReply,
) error {
	err := c.session.InteractionRespond(
		&discordgo.Interaction{ID: interaction.ID, AppID: interaction.AppID, Token: interaction.Token},
		toInteractionResponse(reply),
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to respond to interaction %s: %w", interaction.ID, err)
	}
	return nil
}

func (c *DiscordClient) SetActivity(name string) error {
	if err := c.session.UpdateGameStatus(0, name); err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	return nil
}
