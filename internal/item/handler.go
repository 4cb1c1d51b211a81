package item

import (
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-shop-go/internal/common"
	"github.com/ovaphlow/pitchfork/service-shop-go/internal/session"
	"github.com/ovaphlow/pitchfork/service-shop-go/internal/view"
	"github.com/ovaphlow/pitchfork/service-shop-go/pkg/money"
)

// Handler serves the shop page and item listing.
type Handler struct {
	svc    *Service
	view   *view.Renderer
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, renderer *view.Renderer, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, view: renderer, logger: logger}
}

func (h *Handler) Shop(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListAll(r.Context())
	if err != nil {
		h.logger.Errorw("list items failed", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if err := h.view.Render(w, r, "shop", "Shop", items); err != nil {
		h.logger.Errorw("render shop failed", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	price, err := money.ParseCents(r.PostFormValue("price"))
	if err != nil {
		view.RedirectError(w, r, "/shop", "Title, description and a valid price are required.")
		return
	}
	in := NewItem{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Theme:       r.PostFormValue("theme"),
		Price:       price,
	}
	username := session.Username(r.Context())
	it, err := h.svc.Create(r.Context(), username, in)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrMalformedInput):
			view.RedirectError(w, r, "/shop", "Title, description and a valid price are required.")
		case errors.Is(err, common.ErrUserNotFound):
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		default:
			h.logger.Errorw("create item failed", "err", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}
	h.logger.Infow("item created", "item_id", it.ID, "by", username, "price", it.Price.String())
	view.RedirectInfo(w, r, "/shop", it.Title+" was listed!")
}
