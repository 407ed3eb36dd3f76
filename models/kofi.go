package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"
	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentTypeDonation     PaymentType = "Donation"
	PaymentTypeSubscription PaymentType = "Subscription"
)

type DonationKind string

const (
	DonationKindDonation     DonationKind = "donation"
	DonationKindSubscription DonationKind = "subscription"
)

// FlexBool decodes JSON booleans as well as the "true"/"false" strings
// that arrive in form-encoded deliveries.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		*b = false
		return nil
	}

	raw = strings.Trim(raw, `"`)
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("invalid boolean value %s: %w", string(data), err)
	}
	*b = FlexBool(parsed)
	return nil
}

// KofiPayload is the body of a single Ko-fi webhook delivery
type KofiPayload struct {
	VerificationToken     string   `json:"verification_token"`
	MessageID             string   `json:"message_id"`
	Timestamp             string   `json:"timestamp"`
	Type                  string   `json:"type"`
	IsPublic              FlexBool `json:"is_public"`
	FromName              string   `json:"from_name"`
	Message               *string  `json:"message"`
	Amount                string   `json:"amount"`
	Currency              string   `json:"currency"`
	KofiTransactionID     string   `json:"kofi_transaction_id"`
	IsSubscriptionPayment FlexBool `json:"is_subscription_payment"`
}

// MessageText returns the donor message, or an empty string when none was sent
func (p KofiPayload) MessageText() string {
	if p.Message == nil {
		return ""
	}
	return *p.Message
}

// Kind classifies the payment: anything flagged as a subscription payment or typed
// "Subscription" is a subscription, everything else is a donation.
func (p KofiPayload) Kind() DonationKind {
	if bool(p.IsSubscriptionPayment) || PaymentType(p.Type) == PaymentTypeSubscription {
		return DonationKindSubscription
	}
	return DonationKindDonation
}

// KofiDonation is the persisted record of an accepted delivery
type KofiDonation struct {
	ID            string            `db:"id"`
	TransactionID string            `db:"transaction_id"`
	SenderName    string            `db:"sender_name"`
	Amount        decimal.Decimal   `db:"amount"`
	Currency      mo.Option[string] `db:"currency"`
	Message       mo.Option[string] `db:"message"`
	MessageID     string            `db:"message_id"`
	PaymentType   PaymentType       `db:"payment_type"`
	IsPublic      bool              `db:"is_public"`
	KofiTimestamp string            `db:"kofi_timestamp"`
	CreatedAt     time.Time         `db:"created_at"`
}

// DonationEvent is published once per accepted delivery and consumed by the notifiers
type DonationEvent struct {
	Kind                  DonationKind
	TransactionID         string
	MessageID             string
	SenderName            string
	Amount                decimal.Decimal
	Message               string
	IsPublic              bool
	PaymentType           PaymentType
	IsSubscriptionPayment bool
	Timestamp             string
}

// NewDonationEvent builds the event for a persisted donation and the payload it came from
func NewDonationEvent(donation *KofiDonation, payload KofiPayload) DonationEvent {
	return DonationEvent{
		Kind:                  payload.Kind(),
		TransactionID:         donation.TransactionID,
		MessageID:             donation.MessageID,
		SenderName:            donation.SenderName,
		Amount:                donation.Amount,
		Message:               donation.Message.OrEmpty(),
		IsPublic:              donation.IsPublic,
		PaymentType:           donation.PaymentType,
		IsSubscriptionPayment: bool(payload.IsSubscriptionPayment),
		Timestamp:             donation.KofiTimestamp,
	}
}

// DecodeKofiPayload decodes a JSON payload. Double-encoded bodies, where the real
// payload is carried as a JSON string in a "data" field, are unwrapped first.
func DecodeKofiPayload(raw []byte) (KofiPayload, error) {
	var envelope struct {
		Data *string `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return KofiPayload{}, fmt.Errorf("failed to decode payload: %w", err)
	}
	if envelope.Data != nil && *envelope.Data != "" {
		raw = []byte(*envelope.Data)
	}

	var payload KofiPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return KofiPayload{}, fmt.Errorf("failed to decode payload: %w", err)
	}
	return payload, nil
}
