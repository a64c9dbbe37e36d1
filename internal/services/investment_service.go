package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"inversiones-bot/internal/models"
	"inversiones-bot/internal/money"
	"inversiones-bot/internal/notify"
	"inversiones-bot/internal/repository"
)

var profitRate = decimal.NewFromInt(models.ProfitPercent).Div(decimal.NewFromInt(100))

// Profit computes the return credited on approval: floor(amount * 0.6).
func Profit(amount int64) int64 {
	return profitRate.Mul(decimal.NewFromInt(amount)).Floor().IntPart()
}

// InvestmentService orchestrates the investment lifecycle: submission,
// pre-check-aware notifications, and admin-driven settlement.
type InvestmentService struct {
	store       *repository.Store
	eligibility *EligibilityService
	notifier    notify.Notifier
	adminID     int64
}

func NewInvestmentService(store *repository.Store, eligibility *EligibilityService, notifier notify.Notifier, adminID int64) *InvestmentService {
	return &InvestmentService{
		store:       store,
		eligibility: eligibility,
		notifier:    notifier,
		adminID:     adminID,
	}
}

// Submit records a new Pendiente investment for the user. The front end has
// already run the gate before collecting the receipt, but callers are not
// trusted: the gate is re-checked here. The pre-check verdict (carried in
// precheckOK/precheckReason) does not affect persistence, only the admin
// notification.
func (s *InvestmentService) Submit(
	ctx context.Context,
	userID int64,
	amount int64,
	receiptPath string,
	receiptText string,
	precheckOK bool,
	precheckReason string,
) (*models.Investment, error) {
	if !models.AmountAllowed(amount) {
		return nil, ErrInvalidAmount
	}
	if !s.eligibility.CanInvest(ctx, userID) {
		return nil, ErrNotEligible
	}

	today := dateOnly(time.Now())
	inv := &models.Investment{
		UserID:      userID,
		Amount:      amount,
		InvestedOn:  today,
		PayoutOn:    today.AddDate(0, 0, models.PayoutOffsetDays),
		Status:      models.StatusPending,
		ReceiptPath: receiptPath,
		ReceiptText: receiptText,
	}

	if err := s.store.CreateInvestment(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to persist investment: %w", err)
	}

	// Admin alert is a secondary effect; it must never roll back the write.
	if precheckOK {
		go s.notifier.Send(s.adminID, fmt.Sprintf(
			"📥 Nuevo comprobante PENDIENTE de %d ($%s). OCR OK.",
			userID, money.Format(amount)))
	} else {
		go s.notifier.Send(s.adminID, fmt.Sprintf(
			"📥 Nuevo comprobante PENDIENTE de %d ($%s). OCR: %s",
			userID, money.Format(amount), precheckReason))
	}

	log.Printf("investment %d submitted: user=%d amount=%d precheck=%v", inv.ID, userID, amount, precheckOK)
	return inv, nil
}

// Approve settles a Pendiente investment: flips the state and credits the
// owner's accumulators exactly once. Approving a terminal investment fails
// with ErrNotFound, preserving the no-re-open invariant.
func (s *InvestmentService) Approve(ctx context.Context, invID uint, actorID int64) error {
	if actorID != s.adminID {
		return ErrUnauthorized
	}

	inv, err := s.store.GetInvestment(ctx, invID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	profit := Profit(inv.Amount)
	if err := s.store.ApplyApproval(ctx, invID, inv.Amount, profit); err != nil {
		if errors.Is(err, repository.ErrNoPendingInvestment) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to approve investment %d: %w", invID, err)
	}

	go s.notifier.Send(inv.UserID, fmt.Sprintf(
		"✅ Tu inversión de $%s ha sido aprobada.\n💰 Ganancia estimada: $%s\n📅 Recibirás tu pago el %s",
		money.Format(inv.Amount), money.Format(profit), inv.PayoutOn.Format("02/01/2006")))

	log.Printf("investment %d approved: user=%d amount=%d profit=%d", invID, inv.UserID, inv.Amount, profit)
	return nil
}

// Reject settles a Pendiente investment with no financial side effect.
func (s *InvestmentService) Reject(ctx context.Context, invID uint, actorID int64) error {
	if actorID != s.adminID {
		return ErrUnauthorized
	}

	inv, err := s.store.GetInvestment(ctx, invID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.store.MarkRejected(ctx, invID); err != nil {
		if errors.Is(err, repository.ErrNoPendingInvestment) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to reject investment %d: %w", invID, err)
	}

	go s.notifier.Send(inv.UserID, fmt.Sprintf(
		"❌ Tu comprobante de $%s fue rechazado. Revisa la información y vuelve a enviar uno válido.",
		money.Format(inv.Amount)))

	log.Printf("investment %d rejected: user=%d", invID, inv.UserID)
	return nil
}

// dateOnly drops the time component; investment dates are calendar dates.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
