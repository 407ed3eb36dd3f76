package usecases

import (
	"context"

	"krowbot/models"
)

// DonationNotifierInterface renders and delivers donation events
type DonationNotifierInterface interface {
	NotifyDonation(ctx context.Context, event models.DonationEvent) error
}

// DonationPublisher hands accepted donations to the notifiers without blocking the caller
type DonationPublisher interface {
	Publish(event models.DonationEvent)
}

// MembershipNotifierInterface posts welcome and farewell messages
type MembershipNotifierInterface interface {
	NotifyMemberJoined(ctx context.Context, event models.MemberEvent) error
	NotifyMemberLeft(ctx context.Context, event models.MemberEvent) error
}

// CommandDispatcherInterface routes slash command invocations to their handlers
type CommandDispatcherInterface interface {
	Dispatch(ctx context.Context, invocation models.CommandInvocation)
}
