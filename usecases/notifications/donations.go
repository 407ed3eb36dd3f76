package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"krowbot/clients"
	"krowbot/metrics"
	"krowbot/models"
)

const (
	colorSubscription = 0xE74C3C
	colorDonation     = 0x3498DB

	noMessagePlaceholder = "[No Message]"
	privatePlaceholder   = "[Private]"

	kofiFooterText = "Krow's Ko-Fi Webhook"
	kofiLogoURL    = "https://uploads-ssl.webflow.com/5c14e387dab576fe667689cf/5cbee341ae2b8813ae072f5b_Ko-fi_logo_RGB_Outline.png"

	timestampLayout = "Jan 2, 2006\n03:04:05 PM"
)

var kindColors = map[models.DonationKind]int{
	models.DonationKindSubscription: colorSubscription,
	models.DonationKindDonation:     colorDonation,
}

type messageVisibility struct {
	hasMessage bool
	isPublic   bool
}

// Private donations never show their message, whatever it says.
var messageFieldRenderers = map[messageVisibility]func(message string) string{
	{hasMessage: false, isPublic: true}:  func(string) string { return noMessagePlaceholder },
	{hasMessage: true, isPublic: true}:   func(message string) string { return message },
	{hasMessage: false, isPublic: false}: func(string) string { return privatePlaceholder },
	{hasMessage: true, isPublic: false}:  func(string) string { return privatePlaceholder },
}

// MessageField renders the message field of a donation embed
func MessageField(message string, isPublic bool) string {
	render := messageFieldRenderers[messageVisibility{hasMessage: message != "", isPublic: isPublic}]
	return render(message)
}

type DonationNotifier struct {
	discordClient clients.DiscordClient
	channelID     string
	sourceURL     string
	location      *time.Location
	now           func() time.Time
}

func NewDonationNotifier(
	discordClient clients.DiscordClient,
	channelID string,
	sourceURL string,
	location *time.Location,
) *DonationNotifier {
	if location == nil {
		location = time.UTC
	}
	return &DonationNotifier{
		discordClient: discordClient,
		channelID:     channelID,
		sourceURL:     sourceURL,
		location:      location,
		now:           time.Now,
	}
}

// BuildEmbed renders the donation embed. The timestamp field shows when the
// notification is sent, not the timestamp carried by the payload.
func (n *DonationNotifier) BuildEmbed(event models.DonationEvent, sentAt time.Time) models.DiscordEmbed {
	color, ok := kindColors[event.Kind]
	if !ok {
		color = colorDonation
	}

	return models.DiscordEmbed{
		Color: color,
		Fields: []models.DiscordEmbedField{
			{Name: ":inbox_tray: __Sender Name__", Value: event.SenderName, Inline: true},
			{Name: ":moneybag: __Amount__", Value: "$" + event.Amount.StringFixed(2), Inline: true},
			{Name: ":notepad_spiral: __Message__", Value: MessageField(event.Message, event.IsPublic), Inline: true},
			{Name: ":timer: __Timestamp__", Value: sentAt.In(n.location).Format(timestampLayout), Inline: true},
			{Name: ":information_source: __Type__", Value: string(event.PaymentType), Inline: true},
			{Name: ":globe_with_meridians: __Source__", Value: fmt.Sprintf("[Ko-Fi](%s)", n.sourceURL), Inline: true},
		},
		Footer: &models.DiscordEmbedFooter{
			Text:    kofiFooterText,
			IconURL: kofiLogoURL,
		},
	}
}

// NotifyDonation posts exactly one embed for the event. An unresolvable
// destination channel drops the notification without an error.
func (n *DonationNotifier) NotifyDonation(ctx context.Context, event models.DonationEvent) error {
	kind := string(event.Kind)

	maybeChannel, err := n.discordClient.GetChannel(ctx, n.channelID)
	if err != nil {
		log.Debug().Err(err).Str("channel_id", n.channelID).Msg("🔍 Donation channel lookup failed - skipping notification")
		metrics.DonationNotifications.WithLabelValues(kind, metrics.ResultSkipped).Inc()
		return nil
	}
	if !maybeChannel.IsPresent() {
		log.Debug().Str("channel_id", n.channelID).Msg("🔍 Donation channel not found - skipping notification")
		metrics.DonationNotifications.WithLabelValues(kind, metrics.ResultSkipped).Inc()
		return nil
	}
	channel := maybeChannel.MustGet()

	embed := n.BuildEmbed(event, n.now())
	if err := n.discordClient.SendEmbed(ctx, channel.ID, embed); err != nil {
		metrics.DonationNotifications.WithLabelValues(kind, metrics.ResultFailed).Inc()
		return fmt.Errorf("failed to send donation notification for %s: %w", event.TransactionID, err)
	}

	metrics.DonationNotifications.WithLabelValues(kind, metrics.ResultSent).Inc()
	log.Info().
		Str("transaction_id", event.TransactionID).
		Str("kind", kind).
		Str("channel_id", channel.ID).
		Msg("💰 Donation notification sent")
	return nil
}
