package entity

import "github.com/ovaphlow/pitchfork/service-shop-go/pkg/money"

// Receipt records one completed purchase. ID is a snowflake. Title is only
// filled when receipts are read back from the ledger.
type Receipt struct {
	ID      int64       `db:"id"`
	ItemID  int64       `db:"item_id"`
	BuyerID int64       `db:"buyer_id"`
	Price   money.Cents `db:"price_cents"`
	Title   string      `db:"title"`
}
