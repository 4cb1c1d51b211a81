package session

import (
	"net/http"

	"go.uber.org/zap"
)

// Resolver returns a middleware that decodes the session cookie once per
// request and stores the claims on the request context. A missing cookie and
// an invalid token both leave the request without identity; neither is an
// error for the client.
func Resolver(codec *Codec, cookies Cookies, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookies.Name())
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := codec.Decode(cookie.Value)
			if err != nil {
				if logger != nil {
					logger.Debugw("session token rejected", "path", r.URL.Path, "err", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}
