package notifications

import (
	"context"

	"github.com/EstateHub/marketplace-backend/internal/apperr"
	"gorm.io/gorm"
)

const listLimit = 50

type Repository interface {
	// Delete reports false when no row had the id.
	Delete(ctx context.Context, id uint) (bool, error)
	ListForUser(ctx context.Context, userID string, limit int) ([]Notification, error)
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (g *GormRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := g.db.WithContext(ctx).Delete(&Notification{}, id)
	if res.Error != nil {
		return false, apperr.Storage("delete notification", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (g *GormRepository) ListForUser(ctx context.Context, userID string, limit int) ([]Notification, error) {
	var out []Notification
	err := g.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, apperr.Storage("list notifications", err)
	}
	return out, nil
}
