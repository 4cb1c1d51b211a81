package repo

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ovaphlow/pitchfork/service-shop-go/internal/purchase/entity"
)

// LedgerRepo appends to and reads the purchases table.
type LedgerRepo struct {
	db sqlx.ExtContext
}

func NewLedgerRepo(db sqlx.ExtContext) *LedgerRepo { return &LedgerRepo{db: db} }

// Insert records a receipt.
func (r *LedgerRepo) Insert(ctx context.Context, rc *entity.Receipt) error {
	q := r.db.Rebind(`INSERT INTO purchases (id, item_id, buyer_id, price_cents) VALUES (?, ?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, q, rc.ID, rc.ItemID, rc.BuyerID, rc.Price); err != nil {
		return errors.Wrap(err, "insert purchase")
	}
	return nil
}

// ListByBuyer returns a buyer's receipts with the item title, newest first.
func (r *LedgerRepo) ListByBuyer(ctx context.Context, buyerID int64) ([]entity.Receipt, error) {
	q := r.db.Rebind(`SELECT p.id, p.item_id, p.buyer_id, p.price_cents, COALESCE(i.title, '') AS title
		FROM purchases p LEFT JOIN items i ON i.id = p.item_id
		WHERE p.buyer_id = ? ORDER BY p.id DESC`)
	out := []entity.Receipt{}
	if err := sqlx.SelectContext(ctx, r.db, &out, q, buyerID); err != nil {
		return nil, errors.Wrap(err, "list purchases")
	}
	return out, nil
}
