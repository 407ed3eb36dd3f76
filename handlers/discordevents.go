package handlers

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"krowbot/clients"
	"krowbot/middleware"
	"krowbot/models"
	"krowbot/usecases"
)

const botActivity = "In The Skies"

type DiscordEventsHandler struct {
	discordSDKClient   *discordgo.Session
	discordClient      clients.DiscordClient
	membershipNotifier usecases.MembershipNotifierInterface
	commandDispatcher  usecases.CommandDispatcherInterface
}

func NewDiscordEventsHandler(
	session *discordgo.Session,
	discordClient clients.DiscordClient,
	membershipNotifier usecases.MembershipNotifierInterface,
	commandDispatcher usecases.CommandDispatcherInterface,
	alertMiddleware *middleware.ErrorAlertMiddleware,
) *DiscordEventsHandler {
	handler := &DiscordEventsHandler{
		discordSDKClient:   session,
		discordClient:      discordClient,
		membershipNotifier: membershipNotifier,
		commandDispatcher:  commandDispatcher,
	}

	session.AddHandler(middleware.WrapDiscordHandler(alertMiddleware, "ready", handler.handleReadyEvent))
	session.AddHandler(middleware.WrapDiscordHandler(alertMiddleware, "guildCreate", handler.handleGuildCreateEvent))
	session.AddHandler(middleware.WrapDiscordHandler(alertMiddleware, "guildMemberAdd", handler.handleMemberAddedEvent))
	session.AddHandler(middleware.WrapDiscordHandler(alertMiddleware, "guildMemberRemove", handler.handleMemberRemovedEvent))
	session.AddHandler(middleware.WrapDiscordHandler(alertMiddleware, "interactionCreate", handler.handleInteractionCreatedEvent))

	return handler
}

// StartBot opens the Discord connection and starts listening for events
func (h *DiscordEventsHandler) StartBot() error {
	if err := h.discordSDKClient.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	log.Info().Msg("🤖 Discord bot is now running and listening for events")
	return nil
}

// StopBot gracefully closes the Discord connection
func (h *DiscordEventsHandler) StopBot() {
	if err := h.discordSDKClient.Close(); err != nil {
		log.Error().Err(err).Msg("❌ Failed to close Discord session")
	}
}

func (h *DiscordEventsHandler) handleReadyEvent(_ *discordgo.Session, r *discordgo.Ready) {
	username := ""
	if r.User != nil {
		username = r.User.Username
	}
	log.Info().Str("user", username).Int("guilds", len(r.Guilds)).Msg("🤖 Discord bot is ready")

	if err := h.discordClient.SetActivity(botActivity); err != nil {
		log.Error().Err(err).Msg("❌ Failed to set bot presence")
	}
}

func (h *DiscordEventsHandler) handleGuildCreateEvent(_ *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Guild == nil {
		return
	}
	log.Info().Str("guild_id", g.ID).Str("guild_name", g.Name).Msg("🏠 Joined guild")
}

func (h *DiscordEventsHandler) handleMemberAddedEvent(_ *discordgo.Session, m *discordgo.GuildMemberAdd) {
	event, ok := mapToMemberEvent(m.Member)
	if !ok {
		log.Warn().Msg("⚠️ Ignoring member join without user data")
		return
	}

	log.Info().Str("guild_id", event.GuildID).Str("user_id", event.UserID).Msg("📥 Member joined")
	if err := h.membershipNotifier.NotifyMemberJoined(context.Background(), event); err != nil {
		log.Error().Err(err).Str("user_id", event.UserID).Msg("❌ Failed to send welcome message")
	}
}

func (h *DiscordEventsHandler) handleMemberRemovedEvent(_ *discordgo.Session, m *discordgo.GuildMemberRemove) {
	event, ok := mapToMemberEvent(m.Member)
	if !ok {
		log.Warn().Msg("⚠️ Ignoring member leave without user data")
		return
	}

	log.Info().Str("guild_id", event.GuildID).Str("user_id", event.UserID).Msg("📤 Member left")
	if err := h.membershipNotifier.NotifyMemberLeft(context.Background(), event); err != nil {
		log.Error().Err(err).Str("user_id", event.UserID).Msg("❌ Failed to send farewell message")
	}
}

func (h *DiscordEventsHandler) handleInteractionCreatedEvent(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Interaction == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	invocation := mapToCommandInvocation(i.Interaction)
	log.Info().
		Str("command", invocation.CommandName).
		Str("user_id", invocation.UserID).
		Str("channel_id", invocation.ChannelID).
		Msg("⚡ Slash command received")

	h.commandDispatcher.Dispatch(context.Background(), invocation)
}

func mapToMemberEvent(member *discordgo.Member) (models.MemberEvent, bool) {
	if member == nil || member.User == nil {
		return models.MemberEvent{}, false
	}
	return models.MemberEvent{
		GuildID:  member.GuildID,
		UserID:   member.User.ID,
		Username: member.User.Username,
		IsBot:    member.User.Bot,
	}, true
}

func mapToCommandInvocation(i *discordgo.Interaction) models.CommandInvocation {
	data := i.ApplicationCommandData()

	options := make(map[string]any, len(data.Options))
	for _, option := range data.Options {
		options[option.Name] = option.Value
	}

	// Guild interactions carry the user on the member, DMs carry it directly
	user := i.User
	if i.Member != nil && i.Member.User != nil {
		user = i.Member.User
	}

	invocation := models.CommandInvocation{
		Interaction: models.InteractionRef{
			ID:    i.ID,
			AppID: i.AppID,
			Token: i.Token,
		},
		CommandName: data.Name,
		Options:     options,
		GuildID:     i.GuildID,
		ChannelID:   i.ChannelID,
	}
	if user != nil {
		invocation.UserID = user.ID
		invocation.Username = user.Username
	}
	return invocation
}
