package notifications

import (
	"context"

	"github.com/stretchr/testify/mock"

	"krowbot/models"
)

// MockDonationNotifier implements the usecases.DonationNotifierInterface for testing
type MockDonationNotifier struct {
	mock.Mock
}

func (m *MockDonationNotifier) NotifyDonation(ctx context.Context, event models.DonationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockDonationPublisher implements the usecases.DonationPublisher interface for testing
type MockDonationPublisher struct {
	mock.Mock
}

func (m *MockDonationPublisher) Publish(event models.DonationEvent) {
	m.Called(event)
}

// MockMembershipNotifier implements the usecases.MembershipNotifierInterface for testing
type MockMembershipNotifier struct {
	mock.Mock
}

func (m *MockMembershipNotifier) NotifyMemberJoined(ctx context.Context, event models.MemberEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockMembershipNotifier) NotifyMemberLeft(ctx context.Context, event models.MemberEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
