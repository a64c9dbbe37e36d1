package services

import (
	"context"
	"log"

	"inversiones-bot/internal/repository"
)

// EligibilityService decides whether a user may place a new investment.
//
// The rule: the first investment is unconditional. After that, the user must
// have brought at least one directly-referred user whose own first investment
// came strictly after the user's latest one, and that referral must hold an
// investment that is Pendiente or Aprobado.
type EligibilityService struct {
	store *repository.Store
}

func NewEligibilityService(store *repository.Store) *EligibilityService {
	return &EligibilityService{store: store}
}

// CanInvest is a pure read-and-decide operation: no caching, no side effects.
// Any internal failure reads as ineligible (fail closed).
func (s *EligibilityService) CanInvest(ctx context.Context, userID int64) bool {
	ok, err := s.canInvest(ctx, userID)
	if err != nil {
		log.Printf("eligibility: check for %d failed, treating as ineligible: %v", userID, err)
		return false
	}
	return ok
}

func (s *EligibilityService) canInvest(ctx context.Context, userID int64) (bool, error) {
	count, err := s.store.CountInvestments(ctx, userID)
	if err != nil {
		return false, err
	}
	if count == 0 {
		return true, nil // first investment is always permitted
	}

	lastDate, err := s.store.LastInvestmentDate(ctx, userID)
	if err != nil {
		return false, err
	}

	referrals, err := s.store.ReferralsOf(ctx, userID)
	if err != nil {
		return false, err
	}
	if len(referrals) == 0 {
		return false, nil
	}

	for _, rid := range referrals {
		firstDate, err := s.store.FirstInvestmentDate(ctx, rid)
		if err != nil {
			return false, err
		}
		if firstDate == nil {
			continue // referral has not invested yet
		}

		if lastDate != nil && !firstDate.After(*lastDate) {
			// Stale referral: they invested before (or on the same day as)
			// the user's latest investment.
			continue
		}
		// When lastDate is missing despite count > 0 (malformed data), the
		// date-ordering check is skipped and holding an open investment is
		// enough. Permissive fallback, not a failure.

		open, err := s.store.HasOpenInvestment(ctx, rid)
		if err != nil {
			return false, err
		}
		if open {
			return true, nil
		}
	}

	return false, nil
}
