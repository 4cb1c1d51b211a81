package user

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-shop-go/internal/common"
	itementity "github.com/ovaphlow/pitchfork/service-shop-go/internal/item/entity"
	"github.com/ovaphlow/pitchfork/service-shop-go/internal/session"
	"github.com/ovaphlow/pitchfork/service-shop-go/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-shop-go/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-shop-go/pkg/money"
)

const (
	// DefaultStartingBalance is credited to every new account (100.00).
	DefaultStartingBalance money.Cents = 10000
	// MaxAdjustment bounds a single admin balance adjustment (1,000,000.00).
	MaxAdjustment money.Cents = 100_000_000
)

// PasswordHasher defines minimal hashing interface.
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", errors.Wrap(common.ErrMalformedInput, "password too long")
		}
		return "", err
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// UserService is the credential store plus the account operations built on it.
type UserService struct {
	repo   *userrepo.UserRepo
	hasher PasswordHasher
	// configuration knobs
	AdminUsername   string
	StartingBalance money.Cents
}

func NewUserService(db *sqlx.DB, r *userrepo.UserRepo, hasher PasswordHasher) *UserService {
	if r == nil {
		r = userrepo.NewUserRepo(db)
	}
	if hasher == nil {
		hasher = BcryptHasher{Cost: 12}
	}
	return &UserService{repo: r, hasher: hasher, AdminUsername: "admin", StartingBalance: DefaultStartingBalance}
}

// Register creates an account with the starting balance. Empty fields or a
// confirmation that differs yield common.ErrMalformedInput and a taken name
// common.ErrDuplicateUsername. The administrator name is always taken.
func (s *UserService) Register(ctx context.Context, username, password, confirm string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || password != confirm {
		return 0, common.ErrMalformedInput
	}
	if username == s.AdminUsername {
		return 0, common.ErrDuplicateUsername
	}
	return s.create(ctx, username, password)
}

func (s *UserService) create(ctx context.Context, username, password string) (int64, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, username, hash, s.StartingBalance)
}

// Authenticate verifies a username/password pair and returns the claims to
// put in the session token. Unknown users and wrong passwords are the same
// common.ErrBadCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (session.Claims, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, common.ErrBadCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, common.ErrBadCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return nil, common.ErrBadCredentials
	}
	return s.ClaimsFor(u.Username), nil
}

// ClaimsFor builds the session claims for username.
func (s *UserService) ClaimsFor(username string) session.Claims {
	role := session.RoleUser
	if username == s.AdminUsername {
		role = session.RoleAdmin
	}
	return session.Claims{session.ClaimUsername: username, session.ClaimRole: role}
}

// Get returns the account for username or common.ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, username string) (*entity.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// Profile is the account page: balance plus the items bought and listed.
type Profile struct {
	Username string
	Balance  money.Cents
	Bought   []itementity.Item
	Created  []itementity.Item
}

// Inventory lists items by owner and by creator, both ordered by price.
type Inventory interface {
	ListOwnedBy(ctx context.Context, userID int64) ([]itementity.Item, error)
	ListCreatedBy(ctx context.Context, userID int64) ([]itementity.Item, error)
}

// Profile loads the account page for username.
func (s *UserService) Profile(ctx context.Context, username string, inv Inventory) (*Profile, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	bought, err := inv.ListOwnedBy(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	created, err := inv.ListCreatedBy(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &Profile{Username: u.Username, Balance: u.Balance, Bought: bought, Created: created}, nil
}

// ListUsers lists every account except the administrator's.
func (s *UserService) ListUsers(ctx context.Context) ([]entity.Summary, error) {
	return s.repo.ListExcept(ctx, s.AdminUsername)
}

// DeleteUser removes an account. Accounts that listed or bought items yield
// common.ErrUserInUse.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// AdjustBalance credits (or, with a negative delta, debits) an account.
// Deltas beyond MaxAdjustment, and shifts the balance column cannot hold,
// yield common.ErrMalformedInput.
func (s *UserService) AdjustBalance(ctx context.Context, id int64, delta money.Cents) error {
	if delta > MaxAdjustment || delta < -MaxAdjustment {
		return errors.Wrapf(common.ErrMalformedInput, "adjustment %s exceeds %s", delta, MaxAdjustment)
	}
	return s.repo.AddBalance(ctx, id, delta)
}

// EnsureAdmin creates the administrator account when it does not exist yet.
// It reports whether the account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, password string) (bool, error) {
	if _, err := s.repo.GetByUsername(ctx, s.AdminUsername); err == nil {
		return false, nil
	} else if !errors.Is(err, common.ErrUserNotFound) {
		return false, err
	}
	if password == "" {
		return false, errors.Wrap(common.ErrMalformedInput, "admin password required to create the admin account")
	}
	if _, err := s.create(ctx, s.AdminUsername, password); err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
