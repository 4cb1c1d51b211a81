package item

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ovaphlow/pitchfork/service-shop-go/internal/common"
	"github.com/ovaphlow/pitchfork/service-shop-go/internal/item/entity"
	itemrepo "github.com/ovaphlow/pitchfork/service-shop-go/internal/item/repo"
	"github.com/ovaphlow/pitchfork/service-shop-go/pkg/money"
)

// Accounts resolves usernames to user ids.
type Accounts interface {
	IDByUsername(ctx context.Context, username string) (int64, error)
}

// NewItem is the input for listing an item.
type NewItem struct {
	Title       string
	Description string
	Theme       string
	Price       money.Cents
}

// Validate will run validation rules
func (n NewItem) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&n.Description, validation.Required, validation.Length(1, 2000)),
		validation.Field(&n.Theme, validation.Length(0, 100)),
		validation.Field(&n.Price, validation.Min(0)),
	)
}

// Service is the shop catalog.
type Service struct {
	repo     *itemrepo.ItemRepo
	accounts Accounts
}

func NewService(db *sqlx.DB, accounts Accounts) *Service {
	return &Service{repo: itemrepo.NewItemRepo(db), accounts: accounts}
}

func (s *Service) ListAll(ctx context.Context) ([]entity.Item, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) ListOwnedBy(ctx context.Context, userID int64) ([]entity.Item, error) {
	return s.repo.ListOwnedBy(ctx, userID)
}

func (s *Service) ListCreatedBy(ctx context.Context, userID int64) ([]entity.Item, error) {
	return s.repo.ListCreatedBy(ctx, userID)
}

// Create lists a new item on behalf of username.
func (s *Service) Create(ctx context.Context, username string, in NewItem) (*entity.Item, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Theme = strings.TrimSpace(in.Theme)
	if err := in.Validate(); err != nil {
		return nil, errors.Wrap(common.ErrMalformedInput, err.Error())
	}
	creator, err := s.accounts.IDByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	it := &entity.Item{
		Title:       in.Title,
		Description: in.Description,
		Theme:       in.Theme,
		Price:       in.Price,
		CreatedBy:   creator,
	}
	if _, err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}
