package session

import (
	"context"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB connects to DATABASE_URL or skips the test.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := db.Exec(`CREATE SCHEMA IF NOT EXISTS "app_auth"`).Error; err != nil {
		t.Fatalf("schema: %v", err)
	}
	if err := db.AutoMigrate(&Session{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestGormStore_Lifecycle(t *testing.T) {
	db := openTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()
	userID := "itest-" + time.Now().Format("150405.000000")
	t.Cleanup(func() { db.Where("user_id = ?", userID).Delete(&Session{}) })

	s, err := store.Create(ctx, userID, time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.FindByToken(ctx, s.Token)
	if err != nil || got == nil {
		t.Fatalf("expected session, got %+v, %v", got, err)
	}

	if err := store.DeleteByToken(ctx, s.Token); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := store.DeleteByToken(ctx, s.Token); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if got, _ := store.FindByToken(ctx, s.Token); got != nil {
		t.Error("expected session to be gone")
	}
}

func TestGormStore_ExpiredRowIsAbsent(t *testing.T) {
	db := openTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()
	userID := "itest-exp-" + time.Now().Format("150405.000000")
	t.Cleanup(func() { db.Where("user_id = ?", userID).Delete(&Session{}) })

	token, _ := NewToken()
	now := time.Now()
	row := Session{Token: token, UserID: userID, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := store.FindByToken(ctx, token)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != nil {
		t.Fatalf("expected expired session to be absent, got %+v", got)
	}

	n, err := store.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n < 1 {
		t.Errorf("expected at least one swept row, got %d", n)
	}
}
