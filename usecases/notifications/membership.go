package notifications

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"krowbot/clients"
	"krowbot/metrics"
	"krowbot/models"
)

const (
	colorWelcome  = 0x206694
	colorFarewell = 0xE74C3C

	embedDivider          = "**-=========================-**"
	unknownChannelMention = "#unknown-channel"

	memberEventJoin  = "join"
	memberEventLeave = "leave"
)

type MembershipChannels struct {
	WelcomeChannelID string
	InfoChannelID    string
	RulesChannelID   string
}

type MembershipNotifier struct {
	discordClient clients.DiscordClient
	channels      MembershipChannels
}

func NewMembershipNotifier(discordClient clients.DiscordClient, channels MembershipChannels) *MembershipNotifier {
	return &MembershipNotifier{
		discordClient: discordClient,
		channels:      channels,
	}
}

func (n *MembershipNotifier) NotifyMemberJoined(ctx context.Context, event models.MemberEvent) error {
	if n.isSelf(event) {
		return nil
	}

	welcome, ok := n.resolveGuildChannel(ctx, event.GuildID, n.channels.WelcomeChannelID)
	if !ok {
		log.Warn().
			Str("guild_id", event.GuildID).
			Str("channel_id", n.channels.WelcomeChannelID).
			Msg("⚠️ Cannot find or access the welcome channel - skipping welcome message")
		metrics.MemberNotifications.WithLabelValues(memberEventJoin, metrics.ResultSkipped).Inc()
		return nil
	}

	// Info and rules references are best effort; the welcome goes out either way.
	rules := n.channelMention(ctx, event.GuildID, n.channels.RulesChannelID)
	info := n.channelMention(ctx, event.GuildID, n.channels.InfoChannelID)

	embed := models.DiscordEmbed{
		Title: "**==[** Welcome to the Nest! **]==**",
		Color: colorWelcome,
		Description: fmt.Sprintf(
			"%s \n\n :wave: Welcome %s! \n\n %s \n\n :book: For our rules, check %s \n\n:mega: Keep up-to-date by checking out %s \n\n %s",
			embedDivider, event.Mention(), embedDivider, rules, info, embedDivider,
		),
	}

	if err := n.discordClient.SendEmbed(ctx, welcome.ID, embed); err != nil {
		metrics.MemberNotifications.WithLabelValues(memberEventJoin, metrics.ResultFailed).Inc()
		return fmt.Errorf("failed to send welcome message for %s: %w", event.UserID, err)
	}

	metrics.MemberNotifications.WithLabelValues(memberEventJoin, metrics.ResultSent).Inc()
	log.Info().Str("guild_id", event.GuildID).Str("user_id", event.UserID).Msg("👋 Welcome message sent")
	return nil
}

func (n *MembershipNotifier) NotifyMemberLeft(ctx context.Context, event models.MemberEvent) error {
	if n.isSelf(event) {
		return nil
	}

	welcome, ok := n.resolveGuildChannel(ctx, event.GuildID, n.channels.WelcomeChannelID)
	if !ok {
		log.Warn().
			Str("guild_id", event.GuildID).
			Str("channel_id", n.channels.WelcomeChannelID).
			Msg("⚠️ Cannot find the welcome channel - skipping farewell message")
		metrics.MemberNotifications.WithLabelValues(memberEventLeave, metrics.ResultSkipped).Inc()
		return nil
	}

	embed := models.DiscordEmbed{
		Title: "**==[** Safe Travels, Friendo! **]==**",
		Color: colorFarewell,
		Description: fmt.Sprintf(
			"%s \n\n :wave: Take Care, %s! \n\n %s",
			embedDivider, event.Username, embedDivider,
		),
	}

	if err := n.discordClient.SendEmbed(ctx, welcome.ID, embed); err != nil {
		metrics.MemberNotifications.WithLabelValues(memberEventLeave, metrics.ResultFailed).Inc()
		return fmt.Errorf("failed to send farewell message for %s: %w", event.UserID, err)
	}

	metrics.MemberNotifications.WithLabelValues(memberEventLeave, metrics.ResultSent).Inc()
	log.Info().Str("guild_id", event.GuildID).Str("user_id", event.UserID).Msg("👋 Farewell message sent")
	return nil
}

func (n *MembershipNotifier) isSelf(event models.MemberEvent) bool {
	botUserID := n.discordClient.GetBotUserID()
	return botUserID != "" && event.UserID == botUserID
}

// resolveGuildChannel only accepts channels that belong to the member's guild
func (n *MembershipNotifier) resolveGuildChannel(
	ctx context.Context,
	guildID, channelID string,
) (models.DiscordChannel, bool) {
	maybeChannel, err := n.discordClient.GetChannel(ctx, channelID)
	if err != nil {
		log.Warn().Err(err).Str("channel_id", channelID).Msg("⚠️ Failed to resolve channel")
		return models.DiscordChannel{}, false
	}
	if !maybeChannel.IsPresent() {
		return models.DiscordChannel{}, false
	}

	channel := maybeChannel.MustGet()
	if channel.GuildID != guildID {
		return models.DiscordChannel{}, false
	}
	return channel, true
}

func (n *MembershipNotifier) channelMention(ctx context.Context, guildID, channelID string) string {
	channel, ok := n.resolveGuildChannel(ctx, guildID, channelID)
	if !ok {
		return unknownChannelMention
	}
	return channel.Mention()
}
