package main

import (
	"log"
	"os"

	"github.com/EstateHub/marketplace-backend/internal/auth"
	"github.com/EstateHub/marketplace-backend/internal/db"
	"github.com/EstateHub/marketplace-backend/internal/notifications"
	"github.com/EstateHub/marketplace-backend/internal/rfq"
	"github.com/EstateHub/marketplace-backend/internal/seeds"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")

	conn, err := db.Connect(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}

	for _, initFn := range []func() error{
		func() error { return auth.Init(conn) },
		func() error { return notifications.Init(conn) },
		func() error { return rfq.Init(conn) },
	} {
		if err := initFn(); err != nil {
			log.Fatalf("❌ Schema setup failed: %v", err)
		}
	}

	if err := seeds.SeedAll(conn); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
}
