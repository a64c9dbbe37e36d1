package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"inversiones-bot/internal/money"
	"inversiones-bot/internal/services"
)

// handleStart registers the user (idempotently) and, for newcomers, opens
// the registration wizard. A referrer ID may ride along in the deep link
// payload: /start <referrerID>.
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID

	var referrer *int64
	if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
		if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
			referrer = &id
		}
	}

	created, err := b.referrals.Register(ctx, userID, referrer)
	if err != nil {
		b.send(userID, "⚠️ Ocurrió un error. Intenta nuevamente.", nil)
		return
	}

	if !created {
		b.sendMenu(userID, "👋 Bienvenido de nuevo. Mostrando menú principal.")
		return
	}

	b.notifier.SendMarkdown(userID, "👋 Bienvenido a *InversionesCT* 💰\nPor favor escribe tu nombre completo:")
	b.sessions.Set(userID, Session{State: StateAwaitingName})
}

// wizardSteps maps each registration state to the profile field it fills,
// the prompt for the next step, and the state that follows.
var wizardSteps = map[State]struct {
	field  string
	prompt string
	next   State
}{
	StateAwaitingName:           {"nombre", "📱 Ingresa tu número de teléfono:", StateAwaitingPhone},
	StateAwaitingPhone:          {"telefono", "🪪 Ingresa tu número de cédula:", StateAwaitingID},
	StateAwaitingID:             {"cedula", "💳 Ingresa tu número de Nequi:", StateAwaitingPaymentAccount},
	StateAwaitingPaymentAccount: {"nequi", "", 0},
}

func (b *Bot) handleRegistrationStep(ctx context.Context, msg *tgbotapi.Message, sess Session) {
	userID := msg.From.ID
	step := wizardSteps[sess.State]

	if err := b.profiles.UpdateField(ctx, userID, step.field, msg.Text); err != nil {
		b.send(userID, "⚠️ Ocurrió un error guardando el dato. Intenta nuevamente.", nil)
		return
	}

	if step.next == 0 {
		b.sessions.Clear(userID)
		b.sendMenu(userID, "✅ Registro completado. Aquí tienes el menú principal.")
		return
	}

	b.sessions.Set(userID, Session{State: step.next})
	b.send(userID, step.prompt, nil)
}

func (b *Bot) handleRefer(userID int64) {
	b.send(userID, "✨ Comparte tu enlace con tus amigos.", nil)
	b.send(userID, fmt.Sprintf("🔗 Tu enlace personal:\n%s", services.ReferralLink(b.username, userID)), nil)
	b.send(userID, "Cada persona que se registre desde tu enlace quedará asociada a ti.", nil)
}

func (b *Bot) handleProfile(ctx context.Context, userID int64) {
	user, err := b.profiles.Get(ctx, userID)
	if err != nil {
		b.send(userID, "⚠️ No estás registrado. Usa /start para registrarte.", nil)
		return
	}

	text := fmt.Sprintf(
		"👤 *Tu Perfil*\n\n"+
			"Nombre: %s\n"+
			"Teléfono: %s\n"+
			"Nequi: %s\n"+
			"Cédula: %s\n"+
			"Total invertido: $%s\n"+
			"Ganancia acumulada: $%s\n"+
			"Referidos: %d",
		user.Name, user.Phone, user.Nequi, user.Cedula,
		money.Format(user.TotalInvested), money.Format(user.TotalProfit),
		user.ReferralCount)

	b.notifier.SendMarkdown(userID, text)
	b.send(userID, "¿Deseas actualizar algún dato?", profileMenu())
}

func (b *Bot) handleMyReferrals(ctx context.Context, userID int64) {
	count := 0
	if user, err := b.profiles.Get(ctx, userID); err == nil {
		count = user.ReferralCount
	}
	b.send(userID, fmt.Sprintf("👥 Has referido a %d persona(s).", count), nil)
}

func (b *Bot) handleUpdateData(userID int64) {
	b.send(userID, "Selecciona el dato que deseas actualizar:", updateFieldKeyboard())
}

func (b *Bot) handleFieldChosen(cb *tgbotapi.CallbackQuery) {
	userID := cb.From.ID
	field := strings.TrimPrefix(cb.Data, "UPD|")

	if !b.profiles.ValidField(field) {
		b.answerCallback(cb.ID, "Campo no válido.")
		return
	}

	// A receipt under verification keeps its session; do not overwrite it.
	if b.receiptInFlight(userID) {
		b.answerCallback(cb.ID, msgReceiptInFlight)
		return
	}

	b.sessions.Set(userID, Session{State: StateAwaitingFieldValue, Field: field})
	b.answerCallback(cb.ID, "Perfecto, escribe el nuevo valor ahora.")
	b.notifier.SendMarkdown(userID, fmt.Sprintf("✏️ Ingresa el nuevo valor para *%s*:", strings.ToUpper(field)))
}

func (b *Bot) handleFieldValue(ctx context.Context, msg *tgbotapi.Message, sess Session) {
	userID := msg.From.ID
	b.sessions.Clear(userID)

	if err := b.profiles.UpdateField(ctx, userID, sess.Field, msg.Text); err != nil {
		b.send(userID, "Error actualizando datos.", nil)
		return
	}

	label := strings.ToUpper(sess.Field[:1]) + sess.Field[1:]
	b.sendMenu(userID, fmt.Sprintf("✅ %s actualizado correctamente.", label))
}
