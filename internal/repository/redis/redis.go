package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found or expired")

type SessionData struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionRepository is the allowlist of live session tokens. A token that is
// not present here is treated as logged out.
type SessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{
		client: client,
	}
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:token:%s", token)
}

func (r *SessionRepository) StoreSession(ctx context.Context, token, userID, role string, expiresAt time.Time) error {
	data := SessionData{
		UserID:    userID,
		Role:      role,
		IssuedAt:  time.Now(),
		ExpiresAt: expiresAt,
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(token), jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in Redis: %w", err)
	}

	return nil
}

// ValidateToken returns the user id the token was issued to.
func (r *SessionRepository) ValidateToken(ctx context.Context, token string) (string, error) {
	val, err := r.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("failed to validate session: %w", err)
	}

	var data SessionData
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return "", fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return data.UserID, nil
}

func (r *SessionRepository) RevokeToken(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}
