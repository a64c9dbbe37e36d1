package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"inversiones-bot/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNoPendingInvestment is returned by the settlement operations when the
// referenced investment does not exist or is no longer Pendiente. Terminal
// investments are never reopened.
var ErrNoPendingInvestment = errors.New("no pending investment with that id")

// Store is the single source of truth for users and investments. All state
// transitions are applied as one atomic unit per operation.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for the web surface's readiness check.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// EnsureUser creates the user if absent and reports whether it was created.
// Existing rows are never modified: a second /start must not change the
// referral edge nor any profile field.
func (s *Store) EnsureUser(ctx context.Context, userID int64, referredBy *int64) (bool, error) {
	var existing models.User
	err := s.db.WithContext(ctx).Where("telegram_id = ?", userID).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	user := models.User{TelegramID: userID, ReferredBy: referredBy}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "telegram_id"}}, DoNothing: true}).
		Create(&user)
	if res.Error != nil {
		return false, res.Error
	}
	// RowsAffected is 0 when another registration for the same user won the
	// race; treat that exactly like "already existed".
	return res.RowsAffected > 0, nil
}

// GetUser retrieves a user by telegram ID
func (s *Store) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("telegram_id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserField updates a single profile column for a user
func (s *Store) UpdateUserField(ctx context.Context, userID int64, column string, value string) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("telegram_id = ?", userID).
		Update(column, value).Error
}

// IncrementReferralCount adds one to the referrer's counter atomically
func (s *Store) IncrementReferralCount(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("telegram_id = ?", userID).
		Update("referral_count", gorm.Expr("referral_count + 1")).Error
}

// CreateInvestment persists a new investment and fills in its generated ID
func (s *Store) CreateInvestment(ctx context.Context, inv *models.Investment) error {
	return s.db.WithContext(ctx).Create(inv).Error
}

// GetInvestment retrieves an investment by ID
func (s *Store) GetInvestment(ctx context.Context, invID uint) (*models.Investment, error) {
	var inv models.Investment
	if err := s.db.WithContext(ctx).Where("id = ?", invID).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// ApplyApproval flips a Pendiente investment to Aprobado and credits the
// owner's accumulators, all in one transaction. The status guard makes the
// operation single-shot: a duplicate callback finds no Pendiente row and the
// accumulators are left untouched.
func (s *Store) ApplyApproval(ctx context.Context, invID uint, amount int64, profit int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv models.Investment
		if err := tx.Where("id = ?", invID).First(&inv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoPendingInvestment
			}
			return err
		}

		res := tx.Model(&models.Investment{}).
			Where("id = ? AND status = ?", invID, models.StatusPending).
			Update("status", models.StatusApproved)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoPendingInvestment
		}

		return tx.Model(&models.User{}).
			Where("telegram_id = ?", inv.UserID).
			Updates(map[string]interface{}{
				"total_invested": gorm.Expr("total_invested + ?", amount),
				"total_profit":   gorm.Expr("total_profit + ?", profit),
			}).Error
	})
}

// MarkRejected flips a Pendiente investment to Rechazado. No financial side
// effect.
func (s *Store) MarkRejected(ctx context.Context, invID uint) error {
	res := s.db.WithContext(ctx).Model(&models.Investment{}).
		Where("id = ? AND status = ?", invID, models.StatusPending).
		Update("status", models.StatusRejected)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoPendingInvestment
	}
	return nil
}

// CountInvestments counts a user's investments in any state
func (s *Store) CountInvestments(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Investment{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// LastInvestmentDate returns the latest investment date for a user, or nil
// when the user has no dated investments.
func (s *Store) LastInvestmentDate(ctx context.Context, userID int64) (*time.Time, error) {
	return s.boundaryDate(ctx, userID, "MAX(invested_on)")
}

// FirstInvestmentDate returns the earliest investment date for a user, or nil
// when the user has no dated investments.
func (s *Store) FirstInvestmentDate(ctx context.Context, userID int64) (*time.Time, error) {
	return s.boundaryDate(ctx, userID, "MIN(invested_on)")
}

func (s *Store) boundaryDate(ctx context.Context, userID int64, expr string) (*time.Time, error) {
	row := s.db.WithContext(ctx).Model(&models.Investment{}).
		Where("user_id = ?", userID).
		Select(expr).Row()

	var date sql.NullTime
	if err := row.Scan(&date); err != nil {
		return nil, err
	}
	if !date.Valid {
		return nil, nil
	}
	return &date.Time, nil
}

// HasOpenInvestment reports whether the user has at least one investment in
// state Pendiente or Aprobado. Rejected-only does not count.
func (s *Store) HasOpenInvestment(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Investment{}).
		Where("user_id = ? AND status IN ?", userID, []string{models.StatusPending, models.StatusApproved}).
		Count(&count).Error
	return count > 0, err
}

// ReferralsOf returns the IDs of users directly referred by userID
func (s *Store) ReferralsOf(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("referred_by = ?", userID).
		Pluck("telegram_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// PendingInvestments returns all Pendiente investments, oldest first
func (s *Store) PendingInvestments(ctx context.Context) ([]models.Investment, error) {
	var invs []models.Investment
	err := s.db.WithContext(ctx).
		Where("status = ?", models.StatusPending).
		Order("id ASC").
		Find(&invs).Error
	if err != nil {
		return nil, err
	}
	return invs, nil
}

// RecentInvestments returns the latest investments across all users
func (s *Store) RecentInvestments(ctx context.Context, limit int) ([]models.Investment, error) {
	var invs []models.Investment
	err := s.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&invs).Error
	if err != nil {
		return nil, err
	}
	return invs, nil
}

// Totals holds the platform aggregates shown on the admin panel
type Totals struct {
	Users       int64
	Pending     int64
	ApprovedSum int64
}

// GetTotals computes the admin panel aggregates
func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	var t Totals

	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&t.Users).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Investment{}).
		Where("status = ?", models.StatusPending).
		Count(&t.Pending).Error; err != nil {
		return nil, err
	}

	row := s.db.WithContext(ctx).Model(&models.Investment{}).
		Where("status = ?", models.StatusApproved).
		Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&t.ApprovedSum); err != nil {
		return nil, err
	}

	return &t, nil
}

// AllUsers returns every user record, for the export surface
func (s *Store) AllUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("telegram_id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// AllInvestments returns every investment record, for the export surface
func (s *Store) AllInvestments(ctx context.Context) ([]models.Investment, error) {
	var invs []models.Investment
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&invs).Error; err != nil {
		return nil, err
	}
	return invs, nil
}
