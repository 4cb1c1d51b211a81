package repo

import (
	"context"
	"database/sql"
	"math"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ovaphlow/pitchfork/service-shop-go/internal/common"
	"github.com/ovaphlow/pitchfork/service-shop-go/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-shop-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-shop-go/pkg/money"
)

// UserRepo provides data access for the users table. It runs against either
// the pool or an open transaction.
type UserRepo struct {
	db sqlx.ExtContext
}

func NewUserRepo(db sqlx.ExtContext) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user and returns its id. A taken username yields
// common.ErrDuplicateUsername.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash string, balance money.Cents) (int64, error) {
	q := r.db.Rebind(`INSERT INTO users (username, password_hash, balance_cents) VALUES (?, ?, ?) RETURNING id`)
	var id int64
	if err := r.db.QueryRowxContext(ctx, q, username, passwordHash, balance).Scan(&id); err != nil {
		if database.IsUniqueViolation(err) {
			return 0, common.ErrDuplicateUsername
		}
		return 0, errors.Wrap(err, "insert user")
	}
	return id, nil
}

// GetByUsername fetches a full user row or common.ErrUserNotFound.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	q := r.db.Rebind(`SELECT id, username, password_hash, balance_cents FROM users WHERE username = ?`)
	var u entity.User
	if err := sqlx.GetContext(ctx, r.db, &u, q, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "get user")
	}
	return &u, nil
}

// IDByUsername resolves a username to its id or common.ErrUserNotFound.
func (r *UserRepo) IDByUsername(ctx context.Context, username string) (int64, error) {
	q := r.db.Rebind(`SELECT id FROM users WHERE username = ?`)
	var id int64
	if err := sqlx.GetContext(ctx, r.db, &id, q, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrUserNotFound
		}
		return 0, errors.Wrap(err, "get user id")
	}
	return id, nil
}

// ListExcept returns every user but the named one, ordered by id.
func (r *UserRepo) ListExcept(ctx context.Context, username string) ([]entity.Summary, error) {
	q := r.db.Rebind(`SELECT id, username, balance_cents FROM users WHERE username <> ? ORDER BY id`)
	out := []entity.Summary{}
	if err := sqlx.SelectContext(ctx, r.db, &out, q, username); err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return out, nil
}

// Delete removes a user. Users still referenced by items or purchases yield
// common.ErrUserInUse.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return common.ErrUserInUse
		}
		return errors.Wrap(err, "delete user")
	}
	return affectedOrNotFound(res)
}

// AddBalance shifts a balance by delta, which may be negative. A shift that
// would leave the int64 range is refused with common.ErrMalformedInput and
// the row is left untouched.
func (r *UserRepo) AddBalance(ctx context.Context, id int64, delta money.Cents) error {
	lo, hi := int64(math.MinInt64), int64(math.MaxInt64)
	if delta > 0 {
		hi -= int64(delta)
	} else {
		lo -= int64(delta)
	}
	q := r.db.Rebind(`UPDATE users SET balance_cents = balance_cents + ? WHERE id = ? AND balance_cents BETWEEN ? AND ?`)
	res, err := r.db.ExecContext(ctx, q, delta, id, lo, hi)
	if err != nil {
		return errors.Wrap(err, "add balance")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "add balance")
	}
	if n == 1 {
		return nil
	}
	var one int
	if err := sqlx.GetContext(ctx, r.db, &one, r.db.Rebind(`SELECT 1 FROM users WHERE id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrUserNotFound
		}
		return errors.Wrap(err, "add balance")
	}
	return errors.Wrapf(common.ErrMalformedInput, "balance of user %d cannot move by %s", id, delta)
}

// DebitIfAffordable subtracts amount only when the balance covers it and
// reports whether it did.
func (r *UserRepo) DebitIfAffordable(ctx context.Context, id int64, amount money.Cents) (bool, error) {
	q := r.db.Rebind(`UPDATE users SET balance_cents = balance_cents - ? WHERE id = ? AND balance_cents >= ?`)
	res, err := r.db.ExecContext(ctx, q, amount, id, amount)
	if err != nil {
		return false, errors.Wrap(err, "debit balance")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "debit balance")
	}
	return n == 1, nil
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return common.ErrUserNotFound
	}
	return nil
}
