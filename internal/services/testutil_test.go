package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"inversiones-bot/internal/models"
	"inversiones-bot/internal/repository"
)

func setupStore(t *testing.T) (*repository.Store, *gorm.DB) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Investment{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return repository.NewStore(db), db
}

func mustRegister(t *testing.T, store *repository.Store, userID int64, referredBy *int64) {
	t.Helper()
	if _, err := store.EnsureUser(context.Background(), userID, referredBy); err != nil {
		t.Fatalf("EnsureUser(%d) failed: %v", userID, err)
	}
}

func mustInvest(t *testing.T, store *repository.Store, userID int64, day time.Time, status string) *models.Investment {
	t.Helper()
	inv := &models.Investment{
		UserID:     userID,
		Amount:     100000,
		InvestedOn: day,
		PayoutOn:   day.AddDate(0, 0, models.PayoutOffsetDays),
		Status:     status,
	}
	if err := store.CreateInvestment(context.Background(), inv); err != nil {
		t.Fatalf("CreateInvestment for %d failed: %v", userID, err)
	}
	return inv
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
