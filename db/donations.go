package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/mo"

	"krowbot/core"
	"krowbot/models"
)

type PostgresDonationsRepository struct {
	db *sqlx.DB
}

// Column names for kofi_donations table
var donationsColumns = []string{
	"id",
	"transaction_id",
	"sender_name",
	"amount",
	"currency",
	"message",
	"message_id",
	"payment_type",
	"is_public",
	"kofi_timestamp",
	"created_at",
}

func NewPostgresDonationsRepository(db *sqlx.DB) *PostgresDonationsRepository {
	return &PostgresDonationsRepository{db: db}
}

func (r *PostgresDonationsRepository) CreateDonation(ctx context.Context, donation *models.KofiDonation) error {
	insertColumns := []string{
		"id",
		"transaction_id",
		"sender_name",
		"amount",
		"currency",
		"message",
		"message_id",
		"payment_type",
		"is_public",
		"kofi_timestamp",
	}

	placeholders := make([]string, len(insertColumns))
	for i := range insertColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`
		INSERT INTO kofi_donations (%s, created_at)
		VALUES (%s, NOW())
		RETURNING created_at`,
		strings.Join(insertColumns, ", "),
		strings.Join(placeholders, ", "))

	err := r.db.QueryRowxContext(
		ctx,
		query,
		donation.ID,
		donation.TransactionID,
		donation.SenderName,
		donation.Amount,
		donation.Currency,
		donation.Message,
		donation.MessageID,
		string(donation.PaymentType),
		donation.IsPublic,
		donation.KofiTimestamp,
	).Scan(&donation.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique violation
			return fmt.Errorf("donation with transaction %s: %w", donation.TransactionID, core.ErrDuplicate)
		}
		return fmt.Errorf("failed to create donation: %w", err)
	}

	return nil
}

func (r *PostgresDonationsRepository) GetDonationByTransactionID(
	ctx context.Context,
	transactionID string,
) (mo.Option[*models.KofiDonation], error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM kofi_donations
		WHERE transaction_id = $1`,
		strings.Join(donationsColumns, ", "))

	var donation models.KofiDonation
	err := r.db.GetContext(ctx, &donation, query, transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.KofiDonation](), nil
		}
		return mo.None[*models.KofiDonation](), fmt.Errorf("failed to get donation: %w", err)
	}

	return mo.Some(&donation), nil
}

func (r *PostgresDonationsRepository) ListRecentDonations(
	ctx context.Context,
	limit int,
	publicOnly bool,
) ([]*models.KofiDonation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM kofi_donations
		WHERE ($1 = FALSE OR is_public = TRUE)
		ORDER BY created_at DESC
		LIMIT $2`,
		strings.Join(donationsColumns, ", "))

	var donations []models.KofiDonation
	if err := r.db.SelectContext(ctx, &donations, query, publicOnly, limit); err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}

	// Convert to slice of pointers
	result := make([]*models.KofiDonation, len(donations))
	for i := range donations {
		result[i] = &donations[i]
	}
	return result, nil
}
