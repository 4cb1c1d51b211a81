package session

import "context"

type contextKey struct {
	name string
}

var claimsCtxKey = &contextKey{"session-claims"}

// WithClaims returns a copy of ctx carrying the resolved claims.
func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// FromContext returns the claims resolved for this request. ok is false when
// the request carries no identity.
func FromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsCtxKey).(Claims)
	if !ok || claims.Username() == "" {
		return nil, false
	}
	return claims, true
}

// Username is shorthand for the resolved username ("" without identity).
func Username(ctx context.Context) string {
	claims, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return claims.Username()
}
