package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidToken  = errors.New("invalid or expired session token")
	ErrMissingSecret = errors.New("session secret is not configured")
)

// Signer mints and verifies compact HMAC session tokens. The payload carries
// an absolute expiry plus random bytes; the payload doubles as the Redis
// session key, so a forged cookie fails verification before any store access.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner returns a signer whose tokens expire after ttl.
func NewSigner(secret []byte, ttl time.Duration) *Signer {
	return &Signer{
		secret: secret,
		ttl:    ttl,
	}
}

// Issue mints a fresh session token and returns it along with the session id
// (the encoded payload) used as the store key.
func (s *Signer) Issue() (token, id string, err error) {
	if len(s.secret) == 0 {
		return "", "", ErrMissingSecret
	}

	payload := make([]byte, 20) // 4 bytes expiry + 16 random bytes
	expires := uint32(time.Now().Add(s.ttl).Unix())
	binary.BigEndian.PutUint32(payload[:4], expires)
	if _, err := rand.Read(payload[4:]); err != nil {
		return "", "", err
	}

	id = base64.RawURLEncoding.EncodeToString(payload)
	signature := s.sign(payload)
	sigEnc := base64.RawURLEncoding.EncodeToString(signature[:16])
	return fmt.Sprintf("%s.%s", id, sigEnc), id, nil
}

// Validate checks signature integrity and TTL, returning the session id.
func (s *Signer) Validate(token string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrMissingSecret
	}

	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return "", ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", ErrInvalidToken
	}

	sigProvided, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", ErrInvalidToken
	}
	if len(sigProvided) != 16 {
		return "", ErrInvalidToken
	}

	expected := s.sign(payload)
	if !hmac.Equal(sigProvided, expected[:16]) {
		return "", ErrInvalidToken
	}

	if len(payload) < 4 {
		return "", ErrInvalidToken
	}
	expires := binary.BigEndian.Uint32(payload[:4])
	if time.Now().Unix() > int64(expires) {
		return "", ErrInvalidToken
	}

	return parts[0], nil
}

func (s *Signer) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}
