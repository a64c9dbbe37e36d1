package services

import (
	"context"
	"testing"

	"inversiones-bot/internal/models"
)

func TestFirstInvestmentAlwaysEligible(t *testing.T) {
	store, _ := setupStore(t)
	svc := NewEligibilityService(store)

	mustRegister(t, store, 1, nil)

	if !svc.CanInvest(context.Background(), 1) {
		t.Error("a user with zero investments must be eligible")
	}
}

func TestIneligibleWithoutReferrals(t *testing.T) {
	store, _ := setupStore(t)
	svc := NewEligibilityService(store)

	mustRegister(t, store, 1, nil)
	mustInvest(t, store, 1, day(2025, 1, 10), models.StatusApproved)

	if svc.CanInvest(context.Background(), 1) {
		t.Error("a user with history and no referred users must be ineligible")
	}
}

func TestEligibleWithFreshReferral(t *testing.T) {
	store, _ := setupStore(t)
	svc := NewEligibilityService(store)

	u := int64(1)
	mustRegister(t, store, u, nil)
	mustInvest(t, store, u, day(2025, 1, 10), models.StatusApproved)

	mustRegister(t, store, 2, &u)
	mustInvest(t, store, 2, day(2025, 1, 11), models.StatusPending)

	if !svc.CanInvest(context.Background(), u) {
		t.Error("a referral whose first investment is later than the user's last must open the gate")
	}
}

func TestStaleReferralDoesNotCount(t *testing.T) {
	store, _ := setupStore(t)
	svc := NewEligibilityService(store)

	u := int64(1)
	mustRegister(t, store, u, nil)
	mustInvest(t, store, u, day(2025, 1, 10), models.StatusApproved)

	// The referral invested before the user's last investment; an approved
	// state does not rescue it.
	mustRegister(t, store, 2, &u)
	mustInvest(t, store, 2, day(2025, 1, 9), models.StatusApproved)

	if svc.CanInvest(context.Background(), u) {
		t.Error("a stale referral must not satisfy the gate")
	}
}

func TestSameDayReferralDoesNotCount(t *testing.T) {
	store, _ := setupStore(t)
	svc := NewEligibilityService(store)

	u := int64(1)
	mustRegister(t, store, u, nil)
	mustInvest(t, store, u, day(2025, 1, 10), models.StatusApproved)

	mustRegister(t, store, 2, &u)
	mustInvest(t, store, 2, day(2025, 1, 10), models.StatusPending)

	if svc.CanInvest(context.Background(), u) {
		t.Error("the referral's first investment must be strictly later")
	}
}

func TestRejectedOnlyReferralDoesNotCount(t *testing.T) {
	store, _ := setupStore(t)
	svc := NewEligibilityService(store)

	u := int64(1)
	mustRegister(t, store, u, nil)
	mustInvest(t, store, u, day(2025, 1, 10), models.StatusApproved)

	mustRegister(t, store, 2, &u)
	mustInvest(t, store, 2, day(2025, 1, 11), models.StatusRejected)

	if svc.CanInvest(context.Background(), u) {
		t.Error("a referral with only rejected investments must not satisfy the gate")
	}
}

func TestRejectedHistoryStillGates(t *testing.T) {
	store, _ := setupStore(t)
	svc := NewEligibilityService(store)

	// The "has invested before" check counts investments of any state, so a
	// user whose only investment was rejected is still subject to the gate.
	mustRegister(t, store, 1, nil)
	mustInvest(t, store, 1, day(2025, 1, 10), models.StatusRejected)

	if svc.CanInvest(context.Background(), 1) {
		t.Error("rejected history must still count as prior investment")
	}
}

func TestMissingDateFallback(t *testing.T) {
	store, db := setupStore(t)
	svc := NewEligibilityService(store)

	u := int64(1)
	mustRegister(t, store, u, nil)
	inv := mustInvest(t, store, u, day(2025, 1, 10), models.StatusApproved)

	// Malformed row: the user's own investment carries no date. The gate
	// falls back to only requiring an open investment from a referral.
	if err := db.Exec("UPDATE investments SET invested_on = NULL WHERE id = ?", inv.ID).Error; err != nil {
		t.Fatalf("failed to null out date: %v", err)
	}

	mustRegister(t, store, 2, &u)
	mustInvest(t, store, 2, day(2025, 1, 5), models.StatusPending)

	if !svc.CanInvest(context.Background(), u) {
		t.Error("missing own date must fall back to the permissive open-investment check")
	}
}

func TestFailClosedOnStoreError(t *testing.T) {
	store, db := setupStore(t)
	svc := NewEligibilityService(store)

	if err := db.Migrator().DropTable(&models.Investment{}); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	if svc.CanInvest(context.Background(), 1) {
		t.Error("internal errors must read as ineligible")
	}
}
