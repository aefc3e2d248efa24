// Package ticket implements the signed QR ticket token: an opaque,
// self-contained credential binding a registration id to an issuance and
// expiry time under an HMAC-SHA256 signature.
//
// Wire format: base64( "<registrationID>:<issuedMillis>:<expiresMillis>:<base64Signature>" ).
// The format is a compatibility contract with already-issued tickets and
// must not change without a reissue step.
package ticket

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrInvalid covers malformed structure and signature mismatch alike, so
// callers cannot tell a forged token from a garbled one.
var ErrInvalid = errors.New("invalid ticket token")

// Decoding is strict so every token has exactly one accepted encoding.
// Lenient base64 discards the trailing padding bits, which would let some
// single-character mutations of a valid token still decode to the same
// bytes and pass signature verification.
var strictB64 = base64.StdEncoding.Strict()

const fieldCount = 4

// Claims are the fields recovered from a verified token. Expiry is not
// checked during Decode; callers test it separately so that an expired
// token can surface as its own outcome.
type Claims struct {
	RegistrationID string
	IssuedAt       time.Time
	ExpiresAt      time.Time
}

// Expired reports whether the token's expiry has passed at the given time.
func (c Claims) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Codec signs and verifies ticket tokens with a server-held secret. The
// secret is injected at construction so tests can pin a fixed key.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Sign computes the HMAC-SHA256 of the payload and returns it base64
// encoded. Deterministic for a given (secret, payload).
func (c *Codec) Sign(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Encode builds the opaque token for a registration. Timestamps are carried
// as Unix milliseconds.
func (c *Codec) Encode(registrationID string, issuedAt, expiresAt time.Time) string {
	payload := registrationID +
		":" + strconv.FormatInt(issuedAt.UnixMilli(), 10) +
		":" + strconv.FormatInt(expiresAt.UnixMilli(), 10)
	return base64.StdEncoding.EncodeToString([]byte(payload + ":" + c.Sign(payload)))
}

// Decode parses and verifies a token. Any structural defect or signature
// mismatch returns ErrInvalid; the two are deliberately indistinguishable.
// Signature comparison is constant-time.
func (c *Codec) Decode(token string) (Claims, error) {
	raw, err := strictB64.DecodeString(token)
	if err != nil {
		return Claims{}, ErrInvalid
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != fieldCount {
		return Claims{}, ErrInvalid
	}

	payload := strings.Join(parts[:3], ":")
	provided, err := strictB64.DecodeString(parts[3])
	if err != nil {
		return Claims{}, ErrInvalid
	}

	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	if !hmac.Equal(provided, mac.Sum(nil)) {
		return Claims{}, ErrInvalid
	}

	issuedMs, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Claims{}, ErrInvalid
	}
	expiresMs, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Claims{}, ErrInvalid
	}

	return Claims{
		RegistrationID: parts[0],
		IssuedAt:       time.UnixMilli(issuedMs),
		ExpiresAt:      time.UnixMilli(expiresMs),
	}, nil
}
