package donations

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"krowbot/models"
)

// MockDonationsService implements the services.DonationsService interface for testing
type MockDonationsService struct {
	mock.Mock
}

func (m *MockDonationsService) RecordDonation(
	ctx context.Context,
	payload models.KofiPayload,
) (*models.KofiDonation, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KofiDonation), args.Error(1)
}

func (m *MockDonationsService) GetDonationByTransactionID(
	ctx context.Context,
	transactionID string,
) (mo.Option[*models.KofiDonation], error) {
	args := m.Called(ctx, transactionID)
	return args.Get(0).(mo.Option[*models.KofiDonation]), args.Error(1)
}

func (m *MockDonationsService) ListRecentPublicDonations(ctx context.Context, limit int) ([]*models.KofiDonation, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.KofiDonation), args.Error(1)
}

// MockDonationsRepository implements the services.DonationsRepository interface for testing
type MockDonationsRepository struct {
	mock.Mock
}

func (m *MockDonationsRepository) CreateDonation(ctx context.Context, donation *models.KofiDonation) error {
	args := m.Called(ctx, donation)
	return args.Error(0)
}

func (m *MockDonationsRepository) GetDonationByTransactionID(
	ctx context.Context,
	transactionID string,
) (mo.Option[*models.KofiDonation], error) {
	args := m.Called(ctx, transactionID)
	return args.Get(0).(mo.Option[*models.KofiDonation]), args.Error(1)
}

func (m *MockDonationsRepository) ListRecentDonations(
	ctx context.Context,
	limit int,
	publicOnly bool,
) ([]*models.KofiDonation, error) {
	args := m.Called(ctx, limit, publicOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.KofiDonation), args.Error(1)
}
