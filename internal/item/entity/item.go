package entity

import "github.com/ovaphlow/pitchfork/service-shop-go/pkg/money"

// Item is a listing in the shop. Owner is the buyer's username and empty
// while the item is still for sale.
type Item struct {
	ID          int64       `db:"id"`
	Title       string      `db:"title"`
	Description string      `db:"description"`
	Theme       string      `db:"theme"`
	Price       money.Cents `db:"price_cents"`
	CreatedBy   int64       `db:"created_by"`
	OwnerID     *int64      `db:"owner_id"`
	Owner       string      `db:"owner"`
}

// Available reports whether the item can still be bought.
func (i Item) Available() bool { return i.OwnerID == nil }
