package session

import (
	"context"
	"net/http"

	"github.com/ovaphlow/pitchfork/service-shop-go/internal/common"
)

// Guard admits a request when it carries an identity and every required
// claim matches exactly. Rejected requests are redirected to the login page
// and the wrapped handler never runs.
type Guard struct {
	loginPath string
	required  Claims
}

// NewGuard builds a guard redirecting to loginPath. required may be nil.
func NewGuard(loginPath string, required Claims) Guard {
	return Guard{loginPath: loginPath, required: required.Clone()}
}

// Check reports common.ErrUnauthorized unless ctx carries an identity that
// satisfies the guard.
func (g Guard) Check(ctx context.Context) error {
	claims, ok := FromContext(ctx)
	return Admit(claims, ok, g.required)
}

// Admit is the guard predicate: identity present, then every required
// key mapped to exactly its value.
func Admit(claims Claims, present bool, required Claims) error {
	if !present {
		return common.ErrUnauthorized
	}
	for k, want := range required {
		got, ok := claims.Get(k)
		if !ok || got != want {
			return common.ErrUnauthorized
		}
	}
	return nil
}

// Wrap gates next behind the guard.
func (g Guard) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := g.Check(r.Context()); err != nil {
			http.Redirect(w, r, g.loginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WrapFunc is Wrap for handler functions.
func (g Guard) WrapFunc(next http.HandlerFunc) http.Handler {
	return g.Wrap(next)
}
