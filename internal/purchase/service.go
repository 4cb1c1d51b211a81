// Package purchase moves an item to a buyer and debits the buyer in a single
// transaction. Either every write lands or none does.
package purchase

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ovaphlow/pitchfork/service-shop-go/internal/common"
	itemrepo "github.com/ovaphlow/pitchfork/service-shop-go/internal/item/repo"
	"github.com/ovaphlow/pitchfork/service-shop-go/internal/purchase/entity"
	purchaserepo "github.com/ovaphlow/pitchfork/service-shop-go/internal/purchase/repo"
	userrepo "github.com/ovaphlow/pitchfork/service-shop-go/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-shop-go/pkg/database"
)

// IDGenerator hands out receipt ids.
type IDGenerator interface {
	NextID() int64
}

type Service struct {
	db  *sqlx.DB
	ids IDGenerator
}

func NewService(db *sqlx.DB, ids IDGenerator) *Service {
	return &Service{db: db, ids: ids}
}

// Purchase transfers itemID to username at its current price.
//
// Errors: common.ErrItemUnavailable when the item is missing or already
// owned (including losing a race for it), common.ErrUserNotFound for an
// unknown buyer, common.ErrInsufficientFunds when the balance does not cover
// the price. On any error nothing is written.
func (s *Service) Purchase(ctx context.Context, username string, itemID int64) (*entity.Receipt, error) {
	var receipt *entity.Receipt
	err := database.WithTx(ctx, s.db, nil, func(ctx context.Context, tx *sqlx.Tx) error {
		items := itemrepo.NewItemRepo(tx)
		users := userrepo.NewUserRepo(tx)

		price, err := items.PriceIfAvailable(ctx, itemID)
		if err != nil {
			return err
		}
		buyer, err := users.IDByUsername(ctx, username)
		if err != nil {
			return err
		}
		debited, err := users.DebitIfAffordable(ctx, buyer, price)
		if err != nil {
			return err
		}
		if !debited {
			return common.ErrInsufficientFunds
		}
		claimed, err := items.ClaimOwnership(ctx, itemID, buyer)
		if err != nil {
			return err
		}
		if !claimed {
			return common.ErrItemUnavailable
		}

		rc := &entity.Receipt{ID: s.ids.NextID(), ItemID: itemID, BuyerID: buyer, Price: price}
		if err := purchaserepo.NewLedgerRepo(tx).Insert(ctx, rc); err != nil {
			if database.IsUniqueViolation(err) {
				return common.ErrItemUnavailable
			}
			return err
		}
		receipt = rc
		return nil
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "purchase item %d", itemID)
	}
	return receipt, nil
}

// History lists the receipts of username, newest first.
func (s *Service) History(ctx context.Context, username string) ([]entity.Receipt, error) {
	buyer, err := userrepo.NewUserRepo(s.db).IDByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return purchaserepo.NewLedgerRepo(s.db).ListByBuyer(ctx, buyer)
}
