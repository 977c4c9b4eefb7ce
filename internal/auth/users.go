package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/EstateHub/marketplace-backend/internal/apperr"
	"gorm.io/gorm"
)

var ErrEmailTaken = errors.New("email already registered")

// UserStore reads and writes app_auth.users. Find methods return (nil, nil)
// when no row matches.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, id, hashed string) error
}

type GormUsers struct {
	db *gorm.DB
}

func NewGormUsers(db *gorm.DB) *GormUsers {
	return &GormUsers{db: db}
}

func (g *GormUsers) FindByID(ctx context.Context, id string) (*User, error) {
	return g.first(ctx, "id = ?", id)
}

func (g *GormUsers) FindByEmail(ctx context.Context, email string) (*User, error) {
	return g.first(ctx, "email = ?", email)
}

func (g *GormUsers) first(ctx context.Context, query string, arg string) (*User, error) {
	var user User
	err := g.db.WithContext(ctx).First(&user, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage("find user", err)
	}
	return &user, nil
}

func (g *GormUsers) Create(ctx context.Context, u *User) error {
	err := g.db.WithContext(ctx).Create(u).Error
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
		return ErrEmailTaken
	}
	return apperr.Storage("create user", err)
}

func (g *GormUsers) UpdatePassword(ctx context.Context, id, hashed string) error {
	err := g.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("hashed_password", hashed).Error
	return apperr.Storage("update password", err)
}
