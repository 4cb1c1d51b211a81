// Package session implements cookie-carried signed sessions: the token codec,
// the per-request resolver that turns the cookie into claims on the request
// context, and the guards that gate handlers on those claims.
package session

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/ovaphlow/pitchfork/service-shop-go/internal/common"
)

// Codec encodes claims into HS256-signed JWTs and decodes them back.
// Tokens carry no expiry; they stay valid until the secret changes.
type Codec struct {
	secret Secret
	parser *jwt.Parser
}

// NewCodec returns a codec signing with secret. The secret is kept by reference.
func NewCodec(secret Secret) *Codec {
	return &Codec{
		secret: secret,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithStrictDecoding(),
			jwt.WithoutClaimsValidation(),
		),
	}
}

// Encode signs the claims and returns the compact token.
func (c *Codec) Encode(claims Claims) (string, error) {
	if len(c.secret) == 0 {
		return "", errors.New("session: empty signing secret")
	}
	mc := make(jwt.MapClaims, len(claims))
	for k, v := range claims {
		mc[k] = v
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString([]byte(c.secret))
	if err != nil {
		return "", errors.Wrap(err, "sign session token")
	}
	return signed, nil
}

// Decode verifies the token signature and algorithm and returns the embedded
// claims. Any failure is reported as common.ErrInvalidToken.
func (c *Codec) Decode(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	tok, err := c.parser.ParseWithClaims(token, mc, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(c.secret), nil
	})
	if err != nil {
		return nil, errors.Wrap(common.ErrInvalidToken, err.Error())
	}
	if !tok.Valid {
		return nil, common.ErrInvalidToken
	}

	out := make(Claims, len(mc))
	for k, v := range mc {
		s, ok := v.(string)
		if !ok {
			return nil, errors.Wrapf(common.ErrInvalidToken, "claim %q is not a string", k)
		}
		out[k] = s
	}
	return out, nil
}
