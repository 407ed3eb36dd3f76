package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Webhook delivery outcomes
const (
	OutcomeAccepted     = "accepted"
	OutcomeUnauthorized = "unauthorized"
	OutcomeBadRequest   = "bad_request"
	OutcomeDuplicate    = "duplicate"
	OutcomeFailed       = "failed"
)

// Send results
const (
	ResultSent    = "sent"
	ResultSkipped = "skipped"
	ResultFailed  = "failed"
)

var (
	WebhookDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "krowbot_webhook_deliveries_total",
		Help: "Ko-fi webhook deliveries by outcome",
	}, []string{"outcome"})

	DonationNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "krowbot_donation_notifications_total",
		Help: "Donation embeds by kind and result",
	}, []string{"kind", "result"})

	MemberNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "krowbot_member_notifications_total",
		Help: "Welcome and farewell messages by event and result",
	}, []string{"event", "result"})

	CommandInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "krowbot_command_invocations_total",
		Help: "Slash command dispatches by command and result",
	}, []string{"command", "result"})

	RecoveredPanics = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "krowbot_recovered_panics_total",
		Help: "Panics recovered at handler boundaries",
	}, []string{"boundary"})
)
