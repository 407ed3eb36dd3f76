package commands

import (
	"context"
	"fmt"
	"strings"

	"krowbot/models"
	"krowbot/services"
	"krowbot/usecases/notifications"
)

const (
	defaultDonationsCount = 5
	minDonationsCount     = 1
	maxDonationsCount     = 10

	colorDonationsList = 0x3498DB
)

// BuiltinHandlers returns the handlers for the commands shipped with the bot
func BuiltinHandlers(donationsService services.DonationsService, kofiPageURL string) map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"ping":      handlePing,
		"kofi":      kofiHandler(kofiPageURL),
		"donations": donationsHandler(donationsService),
	}
}

func handlePing(_ context.Context, _ models.CommandInvocation) (models.CommandReply, error) {
	return models.CommandReply{Content: "Pong!"}, nil
}

func kofiHandler(pageURL string) HandlerFunc {
	return func(_ context.Context, _ models.CommandInvocation) (models.CommandReply, error) {
		return models.CommandReply{
			Content: fmt.Sprintf(":coffee: Support the nest on Ko-fi: %s", pageURL),
		}, nil
	}
}

func donationsHandler(donationsService services.DonationsService) HandlerFunc {
	return func(ctx context.Context, invocation models.CommandInvocation) (models.CommandReply, error) {
		count := min(max(invocation.IntOption("count", defaultDonationsCount), minDonationsCount), maxDonationsCount)

		donations, err := donationsService.ListRecentPublicDonations(ctx, count)
		if err != nil {
			return models.CommandReply{}, fmt.Errorf("failed to list recent donations: %w", err)
		}
		if len(donations) == 0 {
			return models.CommandReply{Content: "No public donations yet.", Ephemeral: true}, nil
		}

		lines := make([]string, 0, len(donations))
		for _, donation := range donations {
			line := fmt.Sprintf("**%s** - $%s", donation.SenderName, donation.Amount.StringFixed(2))
			message := notifications.MessageField(donation.Message.OrElse(""), donation.IsPublic)
			if donation.Message.IsPresent() {
				line += fmt.Sprintf(": %s", message)
			}
			lines = append(lines, line)
		}

		return models.CommandReply{
			Embeds: []models.DiscordEmbed{{
				Title:       fmt.Sprintf(":moneybag: Latest %d Ko-fi supporters", len(donations)),
				Description: strings.Join(lines, "\n"),
				Color:       colorDonationsList,
			}},
		}, nil
	}
}
