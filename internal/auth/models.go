package auth

import "time"

type AccountType string

const (
	AccountUser     AccountType = "user"
	AccountBusiness AccountType = "business"
	AccountProvider AccountType = "provider"
)

func (a AccountType) Valid() bool {
	switch a {
	case AccountUser, AccountBusiness, AccountProvider:
		return true
	}
	return false
}

type User struct {
	ID             string      `gorm:"primaryKey" json:"id"`
	Name           string      `gorm:"not null" json:"name"`
	Email          string      `gorm:"uniqueIndex;not null" json:"email"`
	HashedPassword string      `json:"-"`
	Role           string      `gorm:"default:'user'" json:"role"`
	AccountType    AccountType `gorm:"default:'user'" json:"account_type"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"-"`
}

func (User) TableName() string { return "app_auth.users" }

// PublicUser is the projection returned to clients.
type PublicUser struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        string      `json:"role"`
	AccountType AccountType `json:"account_type"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		AccountType: u.AccountType,
	}
}
