package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"inversiones-bot/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
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

	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEnsureUserIdempotent(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	referrer := int64(100)
	created, err := store.EnsureUser(ctx, 1, &referrer)
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	if !created {
		t.Error("first EnsureUser should report created")
	}

	// Fill a profile field, then register again: nothing may change.
	if err := store.UpdateUserField(ctx, 1, "name", "Ana"); err != nil {
		t.Fatalf("UpdateUserField failed: %v", err)
	}

	other := int64(200)
	created, err = store.EnsureUser(ctx, 1, &other)
	if err != nil {
		t.Fatalf("second EnsureUser failed: %v", err)
	}
	if created {
		t.Error("second EnsureUser should report already existed")
	}

	user, err := store.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if user.Name != "Ana" {
		t.Errorf("profile field altered by re-registration: %q", user.Name)
	}
	if user.ReferredBy == nil || *user.ReferredBy != referrer {
		t.Errorf("referral edge altered by re-registration: %v", user.ReferredBy)
	}
}

func TestIncrementReferralCount(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	if _, err := store.EnsureUser(ctx, 10, nil); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := store.IncrementReferralCount(ctx, 10); err != nil {
			t.Fatalf("IncrementReferralCount failed: %v", err)
		}
	}

	user, err := store.GetUser(ctx, 10)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if user.ReferralCount != 3 {
		t.Errorf("expected referral_count 3, got %d", user.ReferralCount)
	}
}

func TestApplyApprovalSingleShot(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	if _, err := store.EnsureUser(ctx, 5, nil); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	inv := &models.Investment{
		UserID:     5,
		Amount:     100000,
		InvestedOn: date(2025, 1, 10),
		PayoutOn:   date(2025, 1, 13),
		Status:     models.StatusPending,
	}
	if err := store.CreateInvestment(ctx, inv); err != nil {
		t.Fatalf("CreateInvestment failed: %v", err)
	}
	if inv.ID == 0 {
		t.Fatal("CreateInvestment did not fill generated ID")
	}

	if err := store.ApplyApproval(ctx, inv.ID, 100000, 60000); err != nil {
		t.Fatalf("ApplyApproval failed: %v", err)
	}

	user, _ := store.GetUser(ctx, 5)
	if user.TotalInvested != 100000 || user.TotalProfit != 60000 {
		t.Errorf("accumulators after approval: invested=%d profit=%d", user.TotalInvested, user.TotalProfit)
	}

	// Second approval must fail and leave the accumulators untouched.
	err := store.ApplyApproval(ctx, inv.ID, 100000, 60000)
	if !errors.Is(err, ErrNoPendingInvestment) {
		t.Errorf("expected ErrNoPendingInvestment, got %v", err)
	}

	user, _ = store.GetUser(ctx, 5)
	if user.TotalInvested != 100000 || user.TotalProfit != 60000 {
		t.Errorf("accumulators double-credited: invested=%d profit=%d", user.TotalInvested, user.TotalProfit)
	}

	got, _ := store.GetInvestment(ctx, inv.ID)
	if got.Status != models.StatusApproved {
		t.Errorf("expected status %s, got %s", models.StatusApproved, got.Status)
	}
}

func TestMarkRejectedIsTerminal(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	if _, err := store.EnsureUser(ctx, 6, nil); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	inv := &models.Investment{UserID: 6, Amount: 300000, InvestedOn: date(2025, 2, 1), PayoutOn: date(2025, 2, 4), Status: models.StatusPending}
	if err := store.CreateInvestment(ctx, inv); err != nil {
		t.Fatalf("CreateInvestment failed: %v", err)
	}

	if err := store.MarkRejected(ctx, inv.ID); err != nil {
		t.Fatalf("MarkRejected failed: %v", err)
	}

	// Neither rejecting again nor approving may succeed.
	if err := store.MarkRejected(ctx, inv.ID); !errors.Is(err, ErrNoPendingInvestment) {
		t.Errorf("expected ErrNoPendingInvestment on re-reject, got %v", err)
	}
	if err := store.ApplyApproval(ctx, inv.ID, 300000, 180000); !errors.Is(err, ErrNoPendingInvestment) {
		t.Errorf("expected ErrNoPendingInvestment on approve-after-reject, got %v", err)
	}

	user, _ := store.GetUser(ctx, 6)
	if user.TotalInvested != 0 || user.TotalProfit != 0 {
		t.Errorf("rejection must have no financial side effect: invested=%d profit=%d", user.TotalInvested, user.TotalProfit)
	}
}

func TestBoundaryDates(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	if _, err := store.EnsureUser(ctx, 7, nil); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	last, err := store.LastInvestmentDate(ctx, 7)
	if err != nil {
		t.Fatalf("LastInvestmentDate failed: %v", err)
	}
	if last != nil {
		t.Errorf("expected nil last date for user without investments, got %v", last)
	}

	for _, d := range []time.Time{date(2025, 3, 1), date(2025, 3, 5), date(2025, 3, 3)} {
		inv := &models.Investment{UserID: 7, Amount: 100000, InvestedOn: d, PayoutOn: d.AddDate(0, 0, 3), Status: models.StatusPending}
		if err := store.CreateInvestment(ctx, inv); err != nil {
			t.Fatalf("CreateInvestment failed: %v", err)
		}
	}

	last, err = store.LastInvestmentDate(ctx, 7)
	if err != nil {
		t.Fatalf("LastInvestmentDate failed: %v", err)
	}
	if last == nil || !last.Equal(date(2025, 3, 5)) {
		t.Errorf("expected last date 2025-03-05, got %v", last)
	}

	first, err := store.FirstInvestmentDate(ctx, 7)
	if err != nil {
		t.Fatalf("FirstInvestmentDate failed: %v", err)
	}
	if first == nil || !first.Equal(date(2025, 3, 1)) {
		t.Errorf("expected first date 2025-03-01, got %v", first)
	}
}

func TestHasOpenInvestment(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	if _, err := store.EnsureUser(ctx, 8, nil); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	inv := &models.Investment{UserID: 8, Amount: 100000, InvestedOn: date(2025, 4, 1), PayoutOn: date(2025, 4, 4), Status: models.StatusPending}
	if err := store.CreateInvestment(ctx, inv); err != nil {
		t.Fatalf("CreateInvestment failed: %v", err)
	}

	open, err := store.HasOpenInvestment(ctx, 8)
	if err != nil {
		t.Fatalf("HasOpenInvestment failed: %v", err)
	}
	if !open {
		t.Error("pending investment should count as open")
	}

	if err := store.MarkRejected(ctx, inv.ID); err != nil {
		t.Fatalf("MarkRejected failed: %v", err)
	}

	open, err = store.HasOpenInvestment(ctx, 8)
	if err != nil {
		t.Fatalf("HasOpenInvestment failed: %v", err)
	}
	if open {
		t.Error("rejected-only history must not count as open")
	}
}

func TestGetTotals(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	for id := int64(1); id <= 2; id++ {
		if _, err := store.EnsureUser(ctx, id, nil); err != nil {
			t.Fatalf("EnsureUser failed: %v", err)
		}
	}

	a := &models.Investment{UserID: 1, Amount: 100000, InvestedOn: date(2025, 5, 1), PayoutOn: date(2025, 5, 4), Status: models.StatusPending}
	b := &models.Investment{UserID: 2, Amount: 300000, InvestedOn: date(2025, 5, 2), PayoutOn: date(2025, 5, 5), Status: models.StatusPending}
	for _, inv := range []*models.Investment{a, b} {
		if err := store.CreateInvestment(ctx, inv); err != nil {
			t.Fatalf("CreateInvestment failed: %v", err)
		}
	}
	if err := store.ApplyApproval(ctx, b.ID, b.Amount, 180000); err != nil {
		t.Fatalf("ApplyApproval failed: %v", err)
	}

	totals, err := store.GetTotals(ctx)
	if err != nil {
		t.Fatalf("GetTotals failed: %v", err)
	}
	if totals.Users != 2 {
		t.Errorf("expected 2 users, got %d", totals.Users)
	}
	if totals.Pending != 1 {
		t.Errorf("expected 1 pending, got %d", totals.Pending)
	}
	if totals.ApprovedSum != 300000 {
		t.Errorf("expected approved sum 300000, got %d", totals.ApprovedSum)
	}
}
