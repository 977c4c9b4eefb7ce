package rfq

import (
	"context"
	"errors"

	"github.com/EstateHub/marketplace-backend/internal/apperr"
	"gorm.io/gorm"
)

type Repository interface {
	// FindByID returns (nil, nil) when no request has the id.
	FindByID(ctx context.Context, id uint) (*Request, error)
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (g *GormRepository) FindByID(ctx context.Context, id uint) (*Request, error) {
	var req Request
	err := g.db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") }).
		First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage("find rfq request", err)
	}
	return &req, nil
}
