package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hexDigest(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerify_RoundTrip(t *testing.T) {
	bodies := [][]byte{
		[]byte(`{"message_id":"m1","from":"+919876543210"}`),
		[]byte(""),
		[]byte("not json at all"),
		{0x00, 0xff, 0x10},
	}
	secrets := [][]byte{[]byte("testsecret"), []byte("another-secret"), []byte("s")}

	for _, secret := range secrets {
		v := NewVerifier(secret)
		for _, body := range bodies {
			assert.True(t, v.Verify(body, hexDigest(secret, body)))
		}
	}
}

func TestVerify_SingleByteMutationFails(t *testing.T) {
	secret := []byte("testsecret")
	v := NewVerifier(secret)

	body := []byte(`{"message_id":"m1","from":"+919876543210","to":"+14155550100","ts":"2025-01-15T10:00:00Z"}`)
	sig := hexDigest(secret, body)
	require.True(t, v.Verify(body, sig))

	for i := range body {
		mutated := make([]byte, len(body))
		copy(mutated, body)
		mutated[i] ^= 0x01
		assert.False(t, v.Verify(mutated, sig), "mutation at byte %d must not verify", i)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	body := []byte(`{"message_id":"m1"}`)
	sig := hexDigest([]byte("secret-a"), body)

	assert.False(t, NewVerifier([]byte("secret-b")).Verify(body, sig))
}

func TestVerify_MalformedSignatures(t *testing.T) {
	v := NewVerifier([]byte("testsecret"))
	body := []byte(`{"message_id":"m1"}`)

	cases := map[string]string{
		"empty":          "",
		"not hex":        "invalid123",
		"too short":      "abcd",
		"truncated":      hexDigest([]byte("testsecret"), body)[:32],
		"trailing bytes": hexDigest([]byte("testsecret"), body) + "00",
		"non hex runes":  "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz",
		"uppercase digest": func() string {
			s := hexDigest([]byte("testsecret"), body)
			out := make([]byte, len(s))
			for i := 0; i < len(s); i++ {
				c := s[i]
				if c >= 'a' && c <= 'f' {
					c -= 'a' - 'A'
				}
				out[i] = c
			}
			return string(out)
		}(),
	}

	for name, sig := range cases {
		assert.False(t, v.Verify(body, sig), "case %q must not verify", name)
	}
}

func TestSign_MatchesVerify(t *testing.T) {
	v := NewVerifier([]byte("testsecret"))
	body := []byte(`{"message_id":"m1"}`)

	assert.True(t, v.Verify(body, v.Sign(body)))
	assert.Equal(t, hexDigest([]byte("testsecret"), body), v.Sign(body))
}
