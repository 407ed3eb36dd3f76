package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	contents, err := fs.ReadFile(migrationsFS, "migrations/00001_create_kofi_donations.sql")
	require.NoError(t, err)

	sql := string(contents)
	assert.Contains(t, sql, "-- +goose Up")
	assert.Contains(t, sql, "UNIQUE (transaction_id)")
	assert.True(t, strings.Contains(sql, "CREATE TABLE IF NOT EXISTS kofi_donations"))
}
