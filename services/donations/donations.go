package donations

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"

	"krowbot/core"
	"krowbot/models"
	"krowbot/services"
)

const maxListLimit = 25

type DonationsService struct {
	donationsRepo services.DonationsRepository
}

func NewDonationsService(repo services.DonationsRepository) *DonationsService {
	return &DonationsService{donationsRepo: repo}
}

// RecordDonation validates a verified payload and persists it as a new donation record
func (s *DonationsService) RecordDonation(
	ctx context.Context,
	payload models.KofiPayload,
) (*models.KofiDonation, error) {
	log.Info().
		Str("transaction_id", payload.KofiTransactionID).
		Str("type", payload.Type).
		Msg("📋 Starting to record Ko-fi donation")

	if strings.TrimSpace(payload.KofiTransactionID) == "" {
		return nil, fmt.Errorf("kofi_transaction_id cannot be empty: %w", core.ErrInvalidInput)
	}
	if strings.TrimSpace(payload.FromName) == "" {
		return nil, fmt.Errorf("from_name cannot be empty: %w", core.ErrInvalidInput)
	}
	if strings.TrimSpace(payload.Amount) == "" {
		return nil, fmt.Errorf("amount cannot be empty: %w", core.ErrInvalidInput)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(payload.Amount))
	if err != nil {
		return nil, fmt.Errorf("amount %q is not a decimal: %w", payload.Amount, core.ErrInvalidInput)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("amount %q cannot be negative: %w", payload.Amount, core.ErrInvalidInput)
	}

	paymentType := models.PaymentType(payload.Type)
	if paymentType == "" {
		paymentType = models.PaymentTypeDonation
	}

	donation := &models.KofiDonation{
		ID:            core.NewID("kd"),
		TransactionID: payload.KofiTransactionID,
		SenderName:    payload.FromName,
		Amount:        amount,
		Currency:      optionalString(payload.Currency),
		Message:       optionalString(payload.MessageText()),
		MessageID:     payload.MessageID,
		PaymentType:   paymentType,
		IsPublic:      bool(payload.IsPublic),
		KofiTimestamp: payload.Timestamp,
	}

	if err := s.donationsRepo.CreateDonation(ctx, donation); err != nil {
		return nil, fmt.Errorf("failed to record donation: %w", err)
	}

	log.Info().
		Str("id", donation.ID).
		Str("transaction_id", donation.TransactionID).
		Msg("📋 Completed successfully - recorded Ko-fi donation")
	return donation, nil
}

func (s *DonationsService) GetDonationByTransactionID(
	ctx context.Context,
	transactionID string,
) (mo.Option[*models.KofiDonation], error) {
	if transactionID == "" {
		return mo.None[*models.KofiDonation](), fmt.Errorf("transaction ID cannot be empty: %w", core.ErrInvalidInput)
	}

	maybeDonation, err := s.donationsRepo.GetDonationByTransactionID(ctx, transactionID)
	if err != nil {
		return mo.None[*models.KofiDonation](), fmt.Errorf("failed to get donation: %w", err)
	}
	return maybeDonation, nil
}

// ListRecentPublicDonations returns the newest public donations, newest first
func (s *DonationsService) ListRecentPublicDonations(ctx context.Context, limit int) ([]*models.KofiDonation, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d: %w", limit, core.ErrInvalidInput)
	}
	limit = min(limit, maxListLimit)

	donations, err := s.donationsRepo.ListRecentDonations(ctx, limit, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	return donations, nil
}

func optionalString(value string) mo.Option[string] {
	if value == "" {
		return mo.None[string]()
	}
	return mo.Some(value)
}
