package rfq

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

	if err := conn.AutoMigrate(&Request{}, &Item{}); err != nil {
		return fmt.Errorf("auto-migrate rfq tables: %w", err)
	}

	log.Println("RFQ module initialized")
	return nil
}
