package user

import (
	"context"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-shop-go/internal/common"
	purchaseentity "github.com/ovaphlow/pitchfork/service-shop-go/internal/purchase/entity"
	"github.com/ovaphlow/pitchfork/service-shop-go/internal/session"
	"github.com/ovaphlow/pitchfork/service-shop-go/internal/view"
	"github.com/ovaphlow/pitchfork/service-shop-go/pkg/money"
)

// Receipts reads a buyer's purchase ledger, newest first.
type Receipts interface {
	History(ctx context.Context, username string) ([]purchaseentity.Receipt, error)
}

// Handler exposes the account pages: login, register, logout, profile and
// the admin user list.
type Handler struct {
	svc      *UserService
	items    Inventory
	receipts Receipts
	codec    *session.Codec
	cookies  session.Cookies
	view     *view.Renderer
	logger   *zap.SugaredLogger
}

func NewHandler(svc *UserService, items Inventory, receipts Receipts, codec *session.Codec, cookies session.Cookies, renderer *view.Renderer, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, items: items, receipts: receipts, codec: codec, cookies: cookies, view: renderer, logger: logger}
}

type profilePage struct {
	*Profile
	Receipts []purchaseentity.Receipt
}

// LoginRequest login form.
type LoginRequest struct {
	Username string
	Password string
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// RegisterRequest registration form.
type RegisterRequest struct {
	Username        string
	Password        string
	PasswordConfirm string
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 72)),
		validation.Field(&r.PasswordConfirm, validation.Required),
	)
}

// BalanceRequest admin balance adjustment form.
type BalanceRequest struct {
	UserID string
	Amount string
}

// Validate will run validation rules
func (r BalanceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required, validation.By(isID)),
		validation.Field(&r.Amount, validation.Required, validation.By(isAmount)),
	)
}

func isID(v interface{}) error {
	s, _ := v.(string)
	if _, err := strconv.ParseInt(s, 10, 64); err != nil {
		return errors.New("must be an integer id")
	}
	return nil
}

func isAmount(v interface{}) error {
	s, _ := v.(string)
	c, err := money.ParseCents(s)
	if err != nil {
		return errors.New("must be an amount with at most two decimals")
	}
	if c > MaxAdjustment || c < -MaxAdjustment {
		return errors.Errorf("must be at most %s either way", MaxAdjustment)
	}
	return nil
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login", "Login", nil)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req := LoginRequest{Username: r.PostFormValue("username"), Password: r.PostFormValue("password")}
	if err := req.Validate(); err != nil {
		view.RedirectError(w, r, "/login", "Username and password are required.")
		return
	}
	claims, err := h.svc.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrBadCredentials) {
			h.logger.Debugw("login failed", "username", req.Username)
			view.RedirectError(w, r, "/login", "Invalid username or password.")
			return
		}
		h.internalError(w, "login", err)
		return
	}
	token, err := h.codec.Encode(claims)
	if err != nil {
		h.internalError(w, "encode session", err)
		return
	}
	h.cookies.Set(w, token)
	view.RedirectInfo(w, r, "/shop", "Login successful!")
}

func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register", "Register", nil)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	req := RegisterRequest{
		Username:        r.PostFormValue("username"),
		Password:        r.PostFormValue("password"),
		PasswordConfirm: r.PostFormValue("password_confirm"),
	}
	if err := req.Validate(); err != nil {
		view.RedirectError(w, r, "/register", "Username and password are required.")
		return
	}
	if req.Password != req.PasswordConfirm {
		view.RedirectError(w, r, "/register", "Passwords do not match!")
		return
	}
	if _, err := h.svc.Register(r.Context(), req.Username, req.Password, req.PasswordConfirm); err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicateUsername):
			view.RedirectError(w, r, "/register", "Username already exists!")
		case errors.Is(err, common.ErrMalformedInput):
			view.RedirectError(w, r, "/register", "Username and password are required.")
		default:
			h.internalError(w, "register", err)
		}
		return
	}
	h.logger.Infow("user registered", "username", req.Username)
	view.RedirectInfo(w, r, "/login", "Account created. You can log in now.")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Profile(r.Context(), session.Username(r.Context()), h.items)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			// token outlived its account
			h.cookies.Clear(w)
			view.RedirectError(w, r, "/login", "Account no longer exists.")
			return
		}
		h.internalError(w, "profile", err)
		return
	}
	receipts, err := h.receipts.History(r.Context(), p.Username)
	if err != nil {
		h.internalError(w, "purchase history", err)
		return
	}
	h.render(w, r, "user", p.Username, profilePage{Profile: p, Receipts: receipts})
}

func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		h.internalError(w, "list users", err)
		return
	}
	h.render(w, r, "admin", "Admin", users)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PostFormValue("user_id"), 10, 64)
	if err != nil {
		view.RedirectError(w, r, "/admin", "Invalid user id.")
		return
	}
	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, common.ErrUserInUse):
			view.RedirectError(w, r, "/admin", "User still owns or listed items and cannot be deleted.")
		case errors.Is(err, common.ErrUserNotFound):
			view.RedirectError(w, r, "/admin", "User not found.")
		default:
			h.internalError(w, "delete user", err)
		}
		return
	}
	h.logger.Infow("user deleted", "user_id", id, "by", session.Username(r.Context()))
	view.RedirectInfo(w, r, "/admin", "User deleted.")
}

func (h *Handler) AddBalance(w http.ResponseWriter, r *http.Request) {
	req := BalanceRequest{UserID: r.PostFormValue("user_id"), Amount: r.PostFormValue("add_balance")}
	if err := req.Validate(); err != nil {
		view.RedirectError(w, r, "/admin", "Invalid user or amount.")
		return
	}
	id, _ := strconv.ParseInt(req.UserID, 10, 64)
	delta, _ := money.ParseCents(req.Amount)
	if err := h.svc.AdjustBalance(r.Context(), id, delta); err != nil {
		switch {
		case errors.Is(err, common.ErrUserNotFound):
			view.RedirectError(w, r, "/admin", "User not found.")
		case errors.Is(err, common.ErrMalformedInput):
			h.logger.Warnw("balance adjustment refused", "user_id", id, "delta", delta.String(), "err", err)
			view.RedirectError(w, r, "/admin", "Balance out of range.")
		default:
			h.internalError(w, "adjust balance", err)
		}
		return
	}
	h.logger.Infow("balance adjusted", "user_id", id, "delta", delta.String(), "by", session.Username(r.Context()))
	view.RedirectInfo(w, r, "/admin", "Balance updated.")
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page, title string, data any) {
	if err := h.view.Render(w, r, page, title, data); err != nil {
		h.internalError(w, "render "+page, err)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, op string, err error) {
	h.logger.Errorw(op+" failed", "err", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
