// Package testdb opens throwaway, fully migrated SQLite databases for tests.
package testdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-shop-go/pkg/database"
)

// Open returns a migrated database in the test's temp dir. It is closed when
// the test ends.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "shop_test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = database.Migrate(context.Background(), db)
	require.NoError(t, err)
	return db
}

// InsertUser adds a user row directly and returns its id.
func InsertUser(t testing.TB, db *sqlx.DB, username string, balanceCents int64) int64 {
	t.Helper()
	var id int64
	err := db.QueryRowx(`INSERT INTO users (username, password_hash, balance_cents) VALUES (?, 'x', ?) RETURNING id`, username, balanceCents).Scan(&id)
	require.NoError(t, err)
	return id
}

// InsertItem adds an unowned item listed by createdBy and returns its id.
func InsertItem(t testing.TB, db *sqlx.DB, title string, priceCents, createdBy int64) int64 {
	t.Helper()
	var id int64
	err := db.QueryRowx(`INSERT INTO items (title, description, price_cents, created_by) VALUES (?, ?, ?, ?) RETURNING id`, title, title+" description", priceCents, createdBy).Scan(&id)
	require.NoError(t, err)
	return id
}

// Balance reads a user's balance in cents.
func Balance(t testing.TB, db *sqlx.DB, userID int64) int64 {
	t.Helper()
	var cents int64
	require.NoError(t, db.Get(&cents, `SELECT balance_cents FROM users WHERE id = ?`, userID))
	return cents
}

// Owner reads an item's owner id, 0 when unowned.
func Owner(t testing.TB, db *sqlx.DB, itemID int64) int64 {
	t.Helper()
	var owner *int64
	require.NoError(t, db.Get(&owner, `SELECT owner_id FROM items WHERE id = ?`, itemID))
	if owner == nil {
		return 0
	}
	return *owner
}
