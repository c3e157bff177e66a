package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julienvb/portfolio-api/internal/app/model"
	"github.com/redis/go-redis/v9"
)

// CookieName is the session cookie set on login.
const CookieName = "session_id"

const keyPrefix = "session:"

// ErrNoSession signals a missing or expired session.
var ErrNoSession = errors.New("no active session")

// Session is the authenticated caller identity stored in Redis.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Manager issues, resolves and destroys admin sessions. Tokens are
// HMAC-signed; session state lives in Redis with a sliding TTL capped by the
// absolute expiry baked into the token.
type Manager struct {
	rdb    *redis.Client
	signer *Signer
	ttl    time.Duration
}

// NewManager builds a session manager.
func NewManager(rdb *redis.Client, secret []byte, ttl time.Duration) *Manager {
	return &Manager{
		rdb:    rdb,
		signer: NewSigner(secret, ttl),
		ttl:    ttl,
	}
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create opens a session for the user and returns the cookie token.
func (m *Manager) Create(ctx context.Context, user *model.User) (string, error) {
	token, id, err := m.signer.Issue()
	if err != nil {
		return "", fmt.Errorf("session: issue token: %w", err)
	}

	data, err := json.Marshal(Session{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return "", fmt.Errorf("session: marshal: %w", err)
	}

	if err := m.rdb.Set(ctx, keyPrefix+id, data, m.ttl).Err(); err != nil {
		return "", fmt.Errorf("session: store: %w", err)
	}

	return token, nil
}

// Get resolves a cookie token to its session and refreshes the TTL.
func (m *Manager) Get(ctx context.Context, token string) (*Session, error) {
	id, err := m.signer.Validate(token)
	if err != nil {
		return nil, ErrNoSession
	}

	data, err := m.rdb.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("session: load: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("session: unmarshal: %w", err)
	}

	// Sliding expiry; the signed token still enforces the absolute cap.
	m.rdb.Expire(ctx, keyPrefix+id, m.ttl)

	return &sess, nil
}

// Destroy removes the session. Unknown or invalid tokens are a no-op.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	id, err := m.signer.Validate(token)
	if err != nil {
		return nil
	}
	return m.rdb.Del(ctx, keyPrefix+id).Err()
}
