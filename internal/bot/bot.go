// Package bot is the conversational front end: it renders menus, drives the
// multi-step wizards and routes user actions into the core services.
package bot

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"inversiones-bot/internal/config"
	"inversiones-bot/internal/notify"
	"inversiones-bot/internal/repository"
	"inversiones-bot/internal/services"
)

// Bot dispatches Telegram updates. A single loop consumes the update
// channel, so per-user operations are processed in arrival order.
type Bot struct {
	api      *tgbotapi.BotAPI
	notifier notify.Notifier

	username   string
	adminID    int64
	nequi      string
	receiptDir string

	store       *repository.Store
	referrals   *services.ReferralService
	eligibility *services.EligibilityService
	investments *services.InvestmentService
	profiles    *services.ProfileService
	stats       *services.StatsService
	verifier    *services.ReceiptVerifier

	sessions *Sessions
}

// Deps bundles the collaborators the front end needs.
type Deps struct {
	Store       *repository.Store
	Referrals   *services.ReferralService
	Eligibility *services.EligibilityService
	Investments *services.InvestmentService
	Profiles    *services.ProfileService
	Stats       *services.StatsService
	Verifier    *services.ReceiptVerifier
}

// New creates the front end over an initialised bot API.
func New(api *tgbotapi.BotAPI, cfg config.BotConfig, notifier notify.Notifier, deps Deps) *Bot {
	return &Bot{
		api:         api,
		notifier:    notifier,
		username:    cfg.Username,
		adminID:     cfg.AdminID,
		nequi:       cfg.NequiNumber,
		receiptDir:  cfg.ReceiptDir,
		store:       deps.Store,
		referrals:   deps.Referrals,
		eligibility: deps.Eligibility,
		investments: deps.Investments,
		profiles:    deps.Profiles,
		stats:       deps.Stats,
		verifier:    deps.Verifier,
		sessions:    NewSessions(),
	}
}

// Run consumes updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 20

	updates := b.api.GetUpdatesChan(u)
	log.Printf("Bot %s polling for updates", b.username)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			log.Println("Bot polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.dispatch(ctx, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("bot: recovered from panic in dispatch: %v", r)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID

	if msg.IsCommand() {
		// Commands abandon any in-flight wizard, but a receipt under
		// verification keeps its lock until the submission lands.
		if !b.receiptInFlight(userID) {
			b.sessions.Clear(userID)
		}
		switch msg.Command() {
		case "start":
			b.handleStart(ctx, msg)
		case "ping":
			b.handlePing(msg)
		case "dumpdb":
			b.handleDumpDB(ctx, msg)
		default:
			b.sendMenu(userID, "Selecciona una opción:")
		}
		return
	}

	// A pending session consumes the next input for this user.
	if sess, ok := b.sessions.Get(userID); ok {
		switch sess.State {
		case StateAwaitingName, StateAwaitingPhone, StateAwaitingID, StateAwaitingPaymentAccount:
			b.handleRegistrationStep(ctx, msg, sess)
		case StateAwaitingFieldValue:
			b.handleFieldValue(ctx, msg, sess)
		case StateAwaitingReceipt:
			b.handleReceipt(ctx, msg, sess)
		case StateProcessingReceipt:
			b.send(userID, msgReceiptInFlight, nil)
		default:
			b.sessions.Clear(userID)
			b.sendMenu(userID, "Selecciona una opción:")
		}
		return
	}

	switch msg.Text {
	case btnInvest:
		b.handleInvest(userID)
	case btnRefer:
		b.handleRefer(userID)
	case btnProfile:
		b.handleProfile(ctx, userID)
	case btnMyReferrals:
		b.handleMyReferrals(ctx, userID)
	case btnUpdateData:
		b.handleUpdateData(userID)
	case btnBackToMenu, btnAdminBack:
		b.sendMenu(userID, "Volviendo al menú principal...")
	case btnAdminPanel:
		b.handleAdminPanel(userID)
	case btnAdminStats:
		b.handleAdminStats(ctx, userID)
	case btnAdminPending:
		b.handleAdminPending(ctx, userID)
	case btnAdminHistory:
		b.handleAdminHistory(ctx, userID)
	default:
		b.sendMenu(userID, "Selecciona una opción:")
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := cb.Data
	switch {
	case len(data) > 4 && data[:4] == "INV|":
		b.handleAmountChosen(ctx, cb)
	case len(data) > 4 && data[:4] == "UPD|":
		b.handleFieldChosen(cb)
	case len(data) > 4 && (data[:4] == "APP|" || data[:4] == "REJ|"):
		b.handleDecision(ctx, cb)
	default:
		b.answerCallback(cb.ID, "")
	}
}

func (b *Bot) answerCallback(id string, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		log.Printf("bot: callback answer failed: %v", err)
	}
}

func (b *Bot) sendMenu(userID int64, text string) {
	msg := tgbotapi.NewMessage(userID, text)
	msg.ReplyMarkup = b.mainMenu(userID)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("bot: menu send to %d failed: %v", userID, err)
	}
}

func (b *Bot) send(userID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(userID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("bot: send to %d failed: %v", userID, err)
	}
}
