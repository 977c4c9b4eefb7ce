package session

import (
	"context"
	"errors"
	"time"

	"github.com/EstateHub/marketplace-backend/internal/apperr"
	"gorm.io/gorm"
)

// GormStore persists sessions in app_auth.sessions.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

func (g *GormStore) Create(ctx context.Context, userID string, ttl time.Duration) (*Session, error) {
	s, err := newSession(userID, ttl, g.now())
	if err != nil {
		return nil, err
	}

	if err := g.db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, apperr.Storage("create session", err)
	}
	return s, nil
}

func (g *GormStore) FindByToken(ctx context.Context, token string) (*Session, error) {
	var s Session

	// Expired rows stay in the table until the sweeper runs, so filter here.
	err := g.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, g.now()).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage("find session", err)
	}
	return &s, nil
}

func (g *GormStore) DeleteByToken(ctx context.Context, token string) error {
	err := g.db.WithContext(ctx).Where("token = ?", token).Delete(&Session{}).Error
	return apperr.Storage("delete session", err)
}

func (g *GormStore) DeleteByUser(ctx context.Context, userID string) error {
	err := g.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Session{}).Error
	return apperr.Storage("delete user sessions", err)
}

func (g *GormStore) DeleteExpired(ctx context.Context) (int64, error) {
	res := g.db.WithContext(ctx).Where("expires_at <= ?", g.now()).Delete(&Session{})
	if res.Error != nil {
		return 0, apperr.Storage("delete expired sessions", res.Error)
	}
	return res.RowsAffected, nil
}
