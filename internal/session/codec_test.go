package session

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-shop-go/internal/common"
)

func testSecret(t *testing.T) Secret {
	t.Helper()
	s, err := GenerateSecret(nil)
	require.NoError(t, err)
	return s
}

func randomString(r *rand.Rand, alphabet []rune, max int) string {
	n := r.Intn(max + 1)
	out := make([]rune, n)
	for i := range out {
		out[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(out)
}

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()
	codec := NewCodec(testSecret(t))

	cases := []Claims{
		{},
		{ClaimUsername: "alice"},
		{ClaimUsername: "admin", ClaimRole: RoleAdmin},
		{ClaimUsername: "bob", "exp": "not-a-number", "sub": "x", "note": "ünïcødé ✓"},
		{"": "", "quote": `"\`, "multi\nline": "a\tb"},
	}
	for _, want := range cases {
		tok, err := codec.Encode(want)
		require.NoError(t, err)
		got, err := codec.Decode(tok)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestCodec_RoundTripRandom(t *testing.T) {
	t.Parallel()
	codec := NewCodec(testSecret(t))
	r := rand.New(rand.NewSource(42))
	alphabet := []rune("abcXYZ019 _-.:/\"\\äß漢🙂")

	for i := 0; i < 200; i++ {
		want := Claims{}
		for j := r.Intn(6); j > 0; j-- {
			want[randomString(r, alphabet, 12)] = randomString(r, alphabet, 24)
		}
		tok, err := codec.Encode(want)
		require.NoError(t, err)
		got, err := codec.Decode(tok)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestCodec_RejectsTamperedTokens(t *testing.T) {
	t.Parallel()
	codec := NewCodec(testSecret(t))

	tok, err := codec.Encode(Claims{ClaimUsername: "alice", ClaimRole: RoleUser})
	require.NoError(t, err)

	for i := 0; i < len(tok); i++ {
		b := []byte(tok)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		_, err := codec.Decode(string(b))
		require.Error(t, err, "flipped byte %d accepted", i)
		require.True(t, errors.Is(err, common.ErrInvalidToken), "byte %d: %v", i, err)
	}
}

func TestCodec_RejectsForeignSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewCodec(testSecret(t)).Encode(Claims{ClaimUsername: "alice"})
	require.NoError(t, err)

	_, err = NewCodec(testSecret(t)).Decode(tok)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestCodec_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()
	secret := testSecret(t)
	codec := NewCodec(secret)
	claims := jwt.MapClaims{ClaimUsername: "mallory", ClaimRole: RoleAdmin}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = codec.Decode(hs512)
	require.ErrorIs(t, err, common.ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = codec.Decode(none)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestCodec_RejectsNonStringClaims(t *testing.T) {
	t.Parallel()
	secret := testSecret(t)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{ClaimUsername: "alice", "admin": true}).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewCodec(secret).Decode(tok)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestCodec_RejectsMalformed(t *testing.T) {
	t.Parallel()
	codec := NewCodec(testSecret(t))

	for _, tok := range []string{"", "not.a.jwt", "a.b", "....", "eyJhbGciOiJIUzI1NiJ9..sig"} {
		_, err := codec.Decode(tok)
		require.ErrorIs(t, err, common.ErrInvalidToken, tok)
	}
}

func TestCodec_EmptySecret(t *testing.T) {
	t.Parallel()
	_, err := NewCodec(nil).Encode(Claims{ClaimUsername: "alice"})
	require.Error(t, err)
}

func TestSecret(t *testing.T) {
	t.Parallel()

	s, err := GenerateSecret(bytes.NewReader(bytes.Repeat([]byte{7}, SecretSize)))
	require.NoError(t, err)
	assert.Equal(t, Secret(bytes.Repeat([]byte{7}, SecretSize)), s)

	_, err = GenerateSecret(bytes.NewReader([]byte{1, 2, 3}))
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "generate secret")

	h, err := SecretFromHex("000102030405060708090a0b0c0d0e0f")
	require.NoError(t, err)
	assert.Len(t, h, 16)

	_, err = SecretFromHex("0001")
	require.EqualError(t, err, "secret too short: 2 bytes")
	_, err = SecretFromHex("zz")
	require.Error(t, err)
	var invalid hex.InvalidByteError
	assert.True(t, errors.As(err, &invalid))
	assert.Contains(t, err.Error(), "decode secret")

	loaded, generated, err := LoadSecret(Config{})
	require.NoError(t, err)
	assert.True(t, generated)
	assert.Len(t, loaded, SecretSize)

	loaded, generated, err = LoadSecret(Config{SecretHex: "000102030405060708090a0b0c0d0e0f"})
	require.NoError(t, err)
	assert.False(t, generated)
	assert.Equal(t, h, loaded)
}
