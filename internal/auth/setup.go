package auth

import (
	"fmt"
	"log"

	"github.com/EstateHub/marketplace-backend/internal/db"
	"github.com/EstateHub/marketplace-backend/internal/session"
	"gorm.io/gorm"
)

func Init(conn *gorm.DB) error {
	if err := db.EnsureSchemas(conn, "app_auth"); err != nil {
		return err
	}

	if err := conn.AutoMigrate(&User{}, &session.Session{}); err != nil {
		return fmt.Errorf("auto-migrate app_auth tables: %w", err)
	}

	log.Println("Auth module initialized")
	return nil
}
