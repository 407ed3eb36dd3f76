package services

import (
	"context"

	"github.com/samber/mo"

	"krowbot/models"
)

// DonationsService defines the interface for Ko-fi donation operations
type DonationsService interface {
	RecordDonation(ctx context.Context, payload models.KofiPayload) (*models.KofiDonation, error)
	GetDonationByTransactionID(ctx context.Context, transactionID string) (mo.Option[*models.KofiDonation], error)
	ListRecentPublicDonations(ctx context.Context, limit int) ([]*models.KofiDonation, error)
}

// DonationsRepository is the persistence contract the donations service writes through
type DonationsRepository interface {
	CreateDonation(ctx context.Context, donation *models.KofiDonation) error
	GetDonationByTransactionID(ctx context.Context, transactionID string) (mo.Option[*models.KofiDonation], error)
	ListRecentDonations(ctx context.Context, limit int, publicOnly bool) ([]*models.KofiDonation, error)
}
