package session

import (
	"crypto/rand"
	"encoding/hex"
	"io"

	"github.com/pkg/errors"
)

// SecretSize is the length in bytes of generated signing secrets.
const SecretSize = 32

// Secret is the HMAC key tokens are signed with. It is created once at process
// start and handed to the Codec; a new secret invalidates every issued token.
type Secret []byte

// GenerateSecret reads SecretSize random bytes from r (crypto/rand when nil).
func GenerateSecret(r io.Reader) (Secret, error) {
	if r == nil {
		r = rand.Reader
	}
	b := make([]byte, SecretSize)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, errors.Wrap(err, "generate secret")
	}
	return Secret(b), nil
}

// SecretFromHex decodes a hex-encoded secret of at least 16 bytes.
func SecretFromHex(s string) (Secret, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "decode secret")
	}
	if len(b) < 16 {
		return nil, errors.Errorf("secret too short: %d bytes", len(b))
	}
	return Secret(b), nil
}

// LoadSecret decodes cfg.SecretHex when set and otherwise generates a fresh
// random secret. The boolean reports whether the secret was generated.
func LoadSecret(cfg Config) (Secret, bool, error) {
	if cfg.SecretHex != "" {
		s, err := SecretFromHex(cfg.SecretHex)
		return s, false, err
	}
	s, err := GenerateSecret(nil)
	return s, true, err
}
