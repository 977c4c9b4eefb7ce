package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/EstateHub/marketplace-backend/internal/apperr"
)

// Session maps an opaque token to the user that owns it.
type Session struct {
	Token     string    `gorm:"primaryKey;size:128" json:"-"`
	UserID    string    `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

func (Session) TableName() string { return "app_auth.sessions" }

// Expired reports whether the session is no longer valid at t.
func (s Session) Expired(t time.Time) bool {
	return !s.ExpiresAt.After(t)
}

// Store persists sessions. FindByToken returns (nil, nil) for unknown and
// expired tokens; only storage failures are errors.
type Store interface {
	Create(ctx context.Context, userID string, ttl time.Duration) (*Session, error)
	FindByToken(ctx context.Context, token string) (*Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

var (
	errEmptyUserID = apperr.Validation("session requires a user id")
	errBadTTL      = apperr.Validation("session ttl must be positive")
)

const (
	tokenBytes     = 32
	minTokenLength = 16
	maxTokenLength = 128
)

// NewToken returns 32 random bytes, hex encoded.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// WellFormed reports whether s could have been produced by NewToken or an
// older token scheme. It does not check that the token exists.
func WellFormed(s string) bool {
	if len(s) < minTokenLength || len(s) > maxTokenLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		isHex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		if !isHex {
			return false
		}
	}
	return true
}

// newSession builds the row for Create.
func newSession(userID string, ttl time.Duration, now time.Time) (*Session, error) {
	if userID == "" {
		return nil, errEmptyUserID
	}
	if ttl <= 0 {
		return nil, errBadTTL
	}
	token, err := NewToken()
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}
