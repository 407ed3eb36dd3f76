package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krowbot/core"
	"krowbot/models"
)

func setupMockRepository(t *testing.T) (*PostgresDonationsRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return NewPostgresDonationsRepository(sqlx.NewDb(mockDB, "postgres")), mock
}

func testDonation() *models.KofiDonation {
	return &models.KofiDonation{
		ID:            core.NewID("kd"),
		TransactionID: "00000000-1111-2222-3333-444444444444",
		SenderName:    "Jo Example",
		Amount:        decimal.RequireFromString("3.00"),
		Message:       mo.Some("Good luck with the integration!"),
		MessageID:     "3a1fac0c-f960-4506-a60e-824979a74e74",
		PaymentType:   models.PaymentTypeDonation,
		IsPublic:      true,
		KofiTimestamp: "2026-10-15T09:03:00Z",
	}
}

var donationRowColumns = []string{
	"id", "transaction_id", "sender_name", "amount", "currency", "message",
	"message_id", "payment_type", "is_public", "kofi_timestamp", "created_at",
}

func TestPostgresDonationsRepository_CreateDonation(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo, mock := setupMockRepository(t)
		donation := testDonation()
		createdAt := time.Date(2026, 10, 15, 9, 3, 1, 0, time.UTC)

		mock.ExpectQuery("INSERT INTO kofi_donations").
			WithArgs(
				donation.ID,
				donation.TransactionID,
				donation.SenderName,
				sqlmock.AnyArg(),
				nil,
				"Good luck with the integration!",
				donation.MessageID,
				"Donation",
				true,
				donation.KofiTimestamp,
			).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))

		err := repo.CreateDonation(context.Background(), donation)
		require.NoError(t, err)
		assert.Equal(t, createdAt, donation.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateTransaction", func(t *testing.T) {
		repo, mock := setupMockRepository(t)
		donation := testDonation()

		mock.ExpectQuery("INSERT INTO kofi_donations").
			WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

		err := repo.CreateDonation(context.Background(), donation)
		require.Error(t, err)
		assert.True(t, core.IsDuplicateError(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DatabaseError", func(t *testing.T) {
		repo, mock := setupMockRepository(t)

		mock.ExpectQuery("INSERT INTO kofi_donations").
			WillReturnError(errors.New("connection reset"))

		err := repo.CreateDonation(context.Background(), testDonation())
		require.Error(t, err)
		assert.False(t, core.IsDuplicateError(err))
		assert.Contains(t, err.Error(), "failed to create donation")
	})
}

func TestPostgresDonationsRepository_GetDonationByTransactionID(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		repo, mock := setupMockRepository(t)
		createdAt := time.Date(2026, 10, 15, 9, 3, 1, 0, time.UTC)

		rows := sqlmock.NewRows(donationRowColumns).
			AddRow("kd_01G0EZ1XTM37C5X11SQTDNCTM1", "txn-1", "Jo", "3.50", "USD", nil,
				"msg-1", "Subscription", false, "2026-10-15T09:03:00Z", createdAt)
		mock.ExpectQuery("SELECT (.+) FROM kofi_donations WHERE transaction_id = \\$1").
			WithArgs("txn-1").
			WillReturnRows(rows)

		maybeDonation, err := repo.GetDonationByTransactionID(context.Background(), "txn-1")
		require.NoError(t, err)
		require.True(t, maybeDonation.IsPresent())

		donation := maybeDonation.MustGet()
		assert.Equal(t, "txn-1", donation.TransactionID)
		assert.True(t, donation.Amount.Equal(decimal.RequireFromString("3.5")))
		assert.Equal(t, mo.Some("USD"), donation.Currency)
		assert.False(t, donation.Message.IsPresent())
		assert.Equal(t, models.PaymentTypeSubscription, donation.PaymentType)
		assert.False(t, donation.IsPublic)
		assert.Equal(t, createdAt, donation.CreatedAt)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mock := setupMockRepository(t)

		mock.ExpectQuery("SELECT (.+) FROM kofi_donations").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(donationRowColumns))

		maybeDonation, err := repo.GetDonationByTransactionID(context.Background(), "missing")
		require.NoError(t, err)
		assert.False(t, maybeDonation.IsPresent())
	})

	t.Run("DatabaseError", func(t *testing.T) {
		repo, mock := setupMockRepository(t)

		mock.ExpectQuery("SELECT (.+) FROM kofi_donations").
			WillReturnError(errors.New("timeout"))

		_, err := repo.GetDonationByTransactionID(context.Background(), "txn-1")
		assert.Error(t, err)
	})
}

func TestPostgresDonationsRepository_ListRecentDonations(t *testing.T) {
	repo, mock := setupMockRepository(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(donationRowColumns).
		AddRow("kd_01G0EZ1XTM37C5X11SQTDNCTM2", "txn-2", "Sam", "10.00", nil, "Hi", "msg-2", "Donation", true, "", now).
		AddRow("kd_01G0EZ1XTM37C5X11SQTDNCTM1", "txn-1", "Jo", "3.00", nil, nil, "msg-1", "Donation", true, "", now.Add(-time.Hour))
	mock.ExpectQuery("SELECT (.+) FROM kofi_donations (.+) ORDER BY created_at DESC LIMIT \\$2").
		WithArgs(true, 5).
		WillReturnRows(rows)

	donations, err := repo.ListRecentDonations(context.Background(), 5, true)
	require.NoError(t, err)
	require.Len(t, donations, 2)
	assert.Equal(t, "txn-2", donations[0].TransactionID)
	assert.Equal(t, mo.Some("Hi"), donations[0].Message)
	assert.Equal(t, "txn-1", donations[1].TransactionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
