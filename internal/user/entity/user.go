package entity

import "github.com/ovaphlow/pitchfork/service-shop-go/pkg/money"

// User represents an account row in the `users` table.
type User struct {
	ID           int64       `db:"id"`
	Username     string      `db:"username"`
	PasswordHash string      `db:"password_hash"`
	Balance      money.Cents `db:"balance_cents"`
}

// Summary is the projection shown on the admin page.
type Summary struct {
	ID       int64       `db:"id"`
	Username string      `db:"username"`
	Balance  money.Cents `db:"balance_cents"`
}
