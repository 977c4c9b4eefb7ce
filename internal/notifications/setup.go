package notifications

import (
	"fmt"
	"log"

	"github.com/EstateHub/marketplace-backend/internal/db"
	"gorm.io/gorm"
)

func Init(conn *gorm.DB) error {
	if err := db.EnsureSchemas(conn, "marketplace"); err != nil {
		return err
	}

	if err := conn.AutoMigrate(&Notification{}); err != nil {
		return fmt.Errorf("auto-migrate notifications: %w", err)
	}

	log.Println("Notifications module initialized")
	return nil
}
