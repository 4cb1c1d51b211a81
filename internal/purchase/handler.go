package purchase

import (
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-shop-go/internal/common"
	"github.com/ovaphlow/pitchfork/service-shop-go/internal/session"
	"github.com/ovaphlow/pitchfork/service-shop-go/internal/view"
)

type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Buy handles POST /buy with the item id in form field "id".
func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	if err != nil {
		view.RedirectError(w, r, "/shop", "Invalid item.")
		return
	}
	username := session.Username(r.Context())
	receipt, err := h.svc.Purchase(r.Context(), username, id)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrItemUnavailable):
			view.RedirectError(w, r, "/shop", "This item is no longer available.")
		case errors.Is(err, common.ErrInsufficientFunds):
			view.RedirectError(w, r, "/shop", "Your savings are not enough for this item.")
		case errors.Is(err, common.ErrUserNotFound):
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		default:
			h.logger.Errorw("purchase failed", "item_id", id, "username", username, "err", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}
	h.logger.Infow("item purchased", "receipt", receipt.ID, "item_id", receipt.ItemID, "buyer_id", receipt.BuyerID, "price", receipt.Price.String())
	view.RedirectInfo(w, r, "/shop", "Purchase successful!")
}
