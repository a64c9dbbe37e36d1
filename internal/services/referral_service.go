package services

import (
	"context"
	"fmt"
	"log"

	"inversiones-bot/internal/notify"
	"inversiones-bot/internal/repository"
)

// ReferralService tracks who referred whom and credits referrers at the
// moment a referred user first registers.
type ReferralService struct {
	store    *repository.Store
	notifier notify.Notifier
}

func NewReferralService(store *repository.Store, notifier notify.Notifier) *ReferralService {
	return &ReferralService{store: store, notifier: notifier}
}

// Register creates the user on first contact. Registration is idempotent: an
// existing user is left untouched and reported as not created. The referral
// edge is set once, here, and the referrer's counter is incremented exactly
// once per distinct referred user. The counter is never recomputed from the
// graph afterwards.
func (s *ReferralService) Register(ctx context.Context, userID int64, referrerID *int64) (bool, error) {
	// A user cannot be credited as their own referrer.
	if referrerID != nil && *referrerID == userID {
		referrerID = nil
	}

	created, err := s.store.EnsureUser(ctx, userID, referrerID)
	if err != nil {
		return false, fmt.Errorf("failed to register user %d: %w", userID, err)
	}
	if !created || referrerID == nil {
		return created, nil
	}

	if err := s.store.IncrementReferralCount(ctx, *referrerID); err != nil {
		// The user row already exists; registration itself succeeded.
		log.Printf("referral: counter increment for %d failed: %v", *referrerID, err)
		return true, nil
	}

	// Fire and forget: a dead referrer chat must not fail registration.
	go s.notifier.Send(*referrerID,
		fmt.Sprintf("🎉 Nuevo usuario registrado gracias a tu enlace: ID %d", userID))

	return true, nil
}

// ReferralLink builds the personal invite link for a user.
func ReferralLink(botUsername string, userID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%d", botUsername, userID)
}
