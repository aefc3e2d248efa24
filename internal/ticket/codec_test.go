package ticket

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-ticket-secret"

func TestCodec_RoundTrip(t *testing.T) {
	c := NewCodec(testSecret)

	issued := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	expires := issued.Add(24 * time.Hour)
	regID := "3f2a6f64-9f0b-4f7e-a1c2-5d8e4b7a9c01"

	token := c.Encode(regID, issued, expires)
	require.NotEmpty(t, token)

	claims, err := c.Decode(token)
	require.NoError(t, err)
	require.Equal(t, regID, claims.RegistrationID)
	require.Equal(t, issued.UnixMilli(), claims.IssuedAt.UnixMilli())
	require.Equal(t, expires.UnixMilli(), claims.ExpiresAt.UnixMilli())
}

func TestCodec_SignDeterministic(t *testing.T) {
	c := NewCodec(testSecret)

	sig1 := c.Sign("reg-1:100:200")
	sig2 := c.Sign("reg-1:100:200")
	sig3 := c.Sign("reg-2:100:200")

	require.Equal(t, sig1, sig2, "signature must be deterministic")
	require.NotEqual(t, sig1, sig3, "different payloads must sign differently")

	// HMAC-SHA256 is 32 bytes, 44 chars in padded base64.
	require.Len(t, sig1, 44)
}

func TestCodec_Decode_Malformed(t *testing.T) {
	c := NewCodec(testSecret)

	sign := func(payload string) string { return c.Sign(payload) }
	b64 := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"too few fields", b64("reg-1:100:" + sign("reg-1:100"))},
		{"too many fields", b64("reg-1:100:200:300:" + sign("reg-1:100:200:300"))},
		{"signature not base64", b64("reg-1:100:200:%%%%")},
		{"garbage signature", b64("reg-1:100:200:" + b64("short"))},
		// Correctly signed but structurally broken timestamps must fail
		// just like a bad signature does.
		{"bad issued timestamp", b64("reg-1:abc:200:" + sign("reg-1:abc:200"))},
		{"bad expiry timestamp", b64("reg-1:100:xyz:" + sign("reg-1:100:xyz"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decode(tt.token)
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestCodec_Decode_WrongKey(t *testing.T) {
	issuer := NewCodec(testSecret)
	verifier := NewCodec("a-different-secret")

	token := issuer.Encode("reg-1", time.Now(), time.Now().Add(time.Hour))

	_, err := issuer.Decode(token)
	require.NoError(t, err)

	_, err = verifier.Decode(token)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestCodec_Decode_TamperAnyByte(t *testing.T) {
	c := NewCodec(testSecret)

	issued := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	token := c.Encode("5b1f0c3e-2d4a-4e6f-8a9b-0c1d2e3f4a5b", issued, issued.Add(time.Hour))
	raw, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)

	for i := range raw {
		tampered := make([]byte, len(raw))
		copy(tampered, raw)
		tampered[i] ^= 0x01

		_, err := c.Decode(base64.StdEncoding.EncodeToString(tampered))
		require.Error(t, err, "byte %d: tampered token must not decode", i)
	}
}

func TestCodec_Decode_SubstituteAnyChar(t *testing.T) {
	c := NewCodec(testSecret)

	issued := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	token := c.Encode("5b1f0c3e-2d4a-4e6f-8a9b-0c1d2e3f4a5b", issued, issued.Add(time.Hour))

	// Every single-character substitution over the full base64 alphabet
	// must be rejected. Lenient decoding would accept some of these: a
	// character before '=' carries discarded padding bits, so several
	// substitutions there decode to the very same bytes.
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/="
	for i := 0; i < len(token); i++ {
		for _, sub := range alphabet {
			if byte(sub) == token[i] {
				continue
			}
			mutated := token[:i] + string(sub) + token[i+1:]

			_, err := c.Decode(mutated)
			require.Errorf(t, err, "pos %d: %q -> %q must not decode", i, token[i], sub)
		}
	}
}

func TestCodec_Decode_SwappedRegistrationID(t *testing.T) {
	c := NewCodec(testSecret)

	regA := "aaaaaaaa-0000-0000-0000-000000000001"
	regB := "bbbbbbbb-0000-0000-0000-000000000002"

	token := c.Encode(regA, time.Now(), time.Now().Add(time.Hour))
	raw, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)

	// Splice registration B's id into A's token without re-signing.
	swapped := strings.Replace(string(raw), regA, regB, 1)
	_, err = c.Decode(base64.StdEncoding.EncodeToString([]byte(swapped)))
	require.ErrorIs(t, err, ErrInvalid)
}

func TestClaims_Expired(t *testing.T) {
	c := NewCodec(testSecret)

	now := time.Now()
	token := c.Encode("reg-1", now.Add(-25*time.Hour), now.Add(-time.Hour))

	// An expired token still carries a valid signature; expiry is the
	// caller's separate check.
	claims, err := c.Decode(token)
	require.NoError(t, err)
	require.True(t, claims.Expired(now))
	require.False(t, claims.Expired(now.Add(-2*time.Hour)))
}
