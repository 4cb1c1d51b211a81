package repo

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ovaphlow/pitchfork/service-shop-go/internal/common"
	"github.com/ovaphlow/pitchfork/service-shop-go/internal/item/entity"
	"github.com/ovaphlow/pitchfork/service-shop-go/pkg/money"
)

const selectItems = `SELECT i.id, i.title, i.description, i.theme, i.price_cents, i.created_by, i.owner_id,
	COALESCE(u.username, '') AS owner
  FROM items i LEFT JOIN users u ON u.id = i.owner_id`

// ItemRepo provides data access for the items table against the pool or a
// transaction.
type ItemRepo struct {
	db sqlx.ExtContext
}

func NewItemRepo(db sqlx.ExtContext) *ItemRepo { return &ItemRepo{db: db} }

// Create inserts an unowned item and returns its id.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) (int64, error) {
	q := r.db.Rebind(`INSERT INTO items (title, description, theme, price_cents, created_by) VALUES (?, ?, ?, ?, ?) RETURNING id`)
	if err := r.db.QueryRowxContext(ctx, q, it.Title, it.Description, it.Theme, it.Price, it.CreatedBy).Scan(&it.ID); err != nil {
		return 0, errors.Wrap(err, "insert item")
	}
	return it.ID, nil
}

// ListAll returns every item, cheapest first.
func (r *ItemRepo) ListAll(ctx context.Context) ([]entity.Item, error) {
	return r.list(ctx, selectItems+` ORDER BY i.price_cents, i.id`)
}

// ListOwnedBy returns the items userID bought, cheapest first.
func (r *ItemRepo) ListOwnedBy(ctx context.Context, userID int64) ([]entity.Item, error) {
	return r.list(ctx, selectItems+` WHERE i.owner_id = ? ORDER BY i.price_cents, i.id`, userID)
}

// ListCreatedBy returns the items userID listed, cheapest first.
func (r *ItemRepo) ListCreatedBy(ctx context.Context, userID int64) ([]entity.Item, error) {
	return r.list(ctx, selectItems+` WHERE i.created_by = ? ORDER BY i.price_cents, i.id`, userID)
}

func (r *ItemRepo) list(ctx context.Context, q string, args ...any) ([]entity.Item, error) {
	out := []entity.Item{}
	if err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "list items")
	}
	return out, nil
}

// PriceIfAvailable returns the price of an unowned item. Missing and already
// owned items are both common.ErrItemUnavailable.
func (r *ItemRepo) PriceIfAvailable(ctx context.Context, id int64) (money.Cents, error) {
	q := r.db.Rebind(`SELECT price_cents FROM items WHERE id = ? AND owner_id IS NULL`)
	var price money.Cents
	if err := sqlx.GetContext(ctx, r.db, &price, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrItemUnavailable
		}
		return 0, errors.Wrap(err, "get item price")
	}
	return price, nil
}

// ClaimOwnership sets the owner only while the item is unowned and reports
// whether this call won it.
func (r *ItemRepo) ClaimOwnership(ctx context.Context, id, ownerID int64) (bool, error) {
	q := r.db.Rebind(`UPDATE items SET owner_id = ? WHERE id = ? AND owner_id IS NULL`)
	res, err := r.db.ExecContext(ctx, q, ownerID, id)
	if err != nil {
		return false, errors.Wrap(err, "claim item")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "claim item")
	}
	return n == 1, nil
}
