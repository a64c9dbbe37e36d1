package services

import (
	"context"

	"inversiones-bot/internal/models"
	"inversiones-bot/internal/repository"
)

// StatsService serves the admin panel aggregates and listings.
type StatsService struct {
	store *repository.Store
}

func NewStatsService(store *repository.Store) *StatsService {
	return &StatsService{store: store}
}

// Totals returns the platform aggregates
func (s *StatsService) Totals(ctx context.Context) (*repository.Totals, error) {
	return s.store.GetTotals(ctx)
}

// PendingReview returns all investments awaiting an admin decision
func (s *StatsService) PendingReview(ctx context.Context) ([]models.Investment, error) {
	return s.store.PendingInvestments(ctx)
}

// History returns the latest investments across all users
func (s *StatsService) History(ctx context.Context, limit int) ([]models.Investment, error) {
	return s.store.RecentInvestments(ctx, limit)
}
