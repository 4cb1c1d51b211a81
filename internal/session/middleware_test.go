package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-shop-go/internal/common"
)

func TestAdmit(t *testing.T) {
	t.Parallel()

	alice := Claims{ClaimUsername: "alice", ClaimRole: RoleUser}
	admin := Claims{ClaimUsername: "admin", ClaimRole: RoleAdmin}

	tests := []struct {
		name     string
		claims   Claims
		present  bool
		required Claims
		admit    bool
	}{
		{"no identity, no constraints", nil, false, nil, false},
		{"no identity, admin constraint", nil, false, Claims{ClaimRole: RoleAdmin}, false},
		{"identity, no constraints", alice, true, nil, true},
		{"identity, empty constraints", alice, true, Claims{}, true},
		{"identity, matching constraint", admin, true, Claims{ClaimRole: RoleAdmin}, true},
		{"identity, mismatching constraint", alice, true, Claims{ClaimRole: RoleAdmin}, false},
		{"identity, constraint key absent", Claims{ClaimUsername: "carol"}, true, Claims{ClaimRole: RoleUser}, false},
		{"identity, all of several constraints", admin, true, Claims{ClaimRole: RoleAdmin, ClaimUsername: "admin"}, true},
		{"identity, one of several constraints fails", admin, true, Claims{ClaimRole: RoleAdmin, ClaimUsername: "root"}, false},
		{"identity, empty-string constraint vs absent key", Claims{ClaimUsername: "dave"}, true, Claims{"team": ""}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Admit(tc.claims, tc.present, tc.required)
			if tc.admit {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, common.ErrUnauthorized)
			}
		})
	}
}

func TestClaims_Get(t *testing.T) {
	t.Parallel()

	c := Claims{ClaimUsername: "alice", "team": ""}
	v, ok := c.Get(ClaimUsername)
	assert.True(t, ok)
	assert.Equal(t, "alice", v)

	v, ok = c.Get("team")
	assert.True(t, ok)
	assert.Empty(t, v)

	_, ok = c.Get(ClaimRole)
	assert.False(t, ok)

	_, ok = Claims(nil).Get(ClaimUsername)
	assert.False(t, ok)
}

func TestGuard_Wrap(t *testing.T) {
	t.Parallel()

	guard := NewGuard("/login", Claims{ClaimRole: RoleAdmin})

	run := func(ctx context.Context) (*httptest.ResponseRecorder, bool) {
		called := false
		h := guard.WrapFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusNoContent)
		})
		req := httptest.NewRequest(http.MethodPost, "/admin/delete_user", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec, called
	}

	rec, called := run(context.Background())
	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec, called = run(WithClaims(context.Background(), Claims{ClaimUsername: "alice", ClaimRole: RoleUser}))
	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec, called = run(WithClaims(context.Background(), Claims{ClaimUsername: "admin", ClaimRole: RoleAdmin}))
	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGuard_RequiredIsCopied(t *testing.T) {
	t.Parallel()

	required := Claims{ClaimRole: RoleAdmin}
	guard := NewGuard("/login", required)
	required[ClaimRole] = RoleUser

	ctx := WithClaims(context.Background(), Claims{ClaimUsername: "bob", ClaimRole: RoleUser})
	assert.ErrorIs(t, guard.Check(ctx), common.ErrUnauthorized)
}

func TestResolver(t *testing.T) {
	t.Parallel()

	codec := NewCodec(testSecret(t))
	cookies := NewCookies(Config{})
	valid, err := codec.Encode(Claims{ClaimUsername: "alice", ClaimRole: RoleUser})
	require.NoError(t, err)

	tests := []struct {
		name     string
		cookie   *http.Cookie
		wantUser string
	}{
		{"no cookie", nil, ""},
		{"empty cookie", &http.Cookie{Name: DefaultCookieName, Value: ""}, ""},
		{"valid cookie", &http.Cookie{Name: DefaultCookieName, Value: valid}, "alice"},
		{"tampered cookie", &http.Cookie{Name: DefaultCookieName, Value: valid + "x"}, ""},
		{"garbage cookie", &http.Cookie{Name: DefaultCookieName, Value: "garbage"}, ""},
		{"other cookie name", &http.Cookie{Name: "Session", Value: valid}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotUser string
			var gotOK bool
			h := Resolver(codec, cookies, zap.NewNop().Sugar())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var claims Claims
				claims, gotOK = FromContext(r.Context())
				gotUser = claims.Username()
				w.WriteHeader(http.StatusOK)
			}))
			req := httptest.NewRequest(http.MethodGet, "/shop", nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code, "invalid tokens must not surface as errors")
			assert.Equal(t, tc.wantUser, gotUser)
			assert.Equal(t, tc.wantUser != "", gotOK)
		})
	}
}

func TestFromContext_RequiresUsername(t *testing.T) {
	t.Parallel()

	_, ok := FromContext(WithClaims(context.Background(), Claims{ClaimRole: RoleAdmin}))
	assert.False(t, ok)
	assert.Equal(t, "", Username(context.Background()))
	assert.Equal(t, "eve", Username(WithClaims(context.Background(), Claims{ClaimUsername: "eve"})))
}

func TestCookies(t *testing.T) {
	t.Parallel()

	c := NewCookies(Config{Secure: true})
	rec := httptest.NewRecorder()
	c.Set(rec, "tok")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCookieName, cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	rec = httptest.NewRecorder()
	c.Clear(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
