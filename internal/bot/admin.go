package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"inversiones-bot/internal/export"
	"inversiones-bot/internal/money"
	"inversiones-bot/internal/services"
)

func (b *Bot) handleAdminPanel(userID int64) {
	if userID != b.adminID {
		b.send(userID, "❌ No tienes acceso.", nil)
		return
	}
	b.send(userID, "Panel admin - selecciona una opción:", adminMenu())
}

func (b *Bot) handleAdminStats(ctx context.Context, userID int64) {
	if userID != b.adminID {
		return
	}

	totals, err := b.stats.Totals(ctx)
	if err != nil {
		b.send(userID, "⚠️ Error consultando estadísticas.", nil)
		return
	}

	b.send(userID, fmt.Sprintf(
		"📊 Usuarios: %d\nInversiones pendientes: %d\nTotal invertido (aprobado): $%s",
		totals.Users, totals.Pending, money.Format(totals.ApprovedSum)), nil)
}

func (b *Bot) handleAdminPending(ctx context.Context, userID int64) {
	if userID != b.adminID {
		return
	}

	pending, err := b.stats.PendingReview(ctx)
	if err != nil {
		b.send(userID, "⚠️ Error consultando pendientes.", nil)
		return
	}
	if len(pending) == 0 {
		b.send(userID, "✅ No hay inversiones pendientes.", nil)
		return
	}

	for _, inv := range pending {
		ocrText := "N/A"
		if inv.ReceiptText != "" {
			ocrText = inv.ReceiptText
			if len(ocrText) > 200 {
				ocrText = ocrText[:200]
			}
		}
		text := fmt.Sprintf("ID:%d · Usuario:%d · Monto:$%s · Fecha pago:%s\nOCR: %s",
			inv.ID, inv.UserID, money.Format(inv.Amount), inv.PayoutOn.Format("02/01/2006"), ocrText)

		if inv.ReceiptPath != "" {
			if _, err := os.Stat(inv.ReceiptPath); err == nil {
				b.notifier.SendPhoto(userID, inv.ReceiptPath, text)
			} else {
				b.send(userID, text, nil)
			}
		} else {
			b.send(userID, text, nil)
		}

		b.send(userID, "Acciones:", decisionKeyboard(inv.ID))
	}
}

func (b *Bot) handleAdminHistory(ctx context.Context, userID int64) {
	if userID != b.adminID {
		return
	}

	invs, err := b.stats.History(ctx, 50)
	if err != nil {
		b.send(userID, "⚠️ Error consultando historial.", nil)
		return
	}
	if len(invs) == 0 {
		b.send(userID, "No hay historial.", nil)
		return
	}

	var sb strings.Builder
	sb.WriteString("📜 Historial (últimos 50):\n")
	for _, inv := range invs {
		fmt.Fprintf(&sb, "ID %d | U:%d | $%s | %s | Inv:%s\n",
			inv.ID, inv.UserID, money.Format(inv.Amount), inv.Status,
			inv.InvestedOn.Format("2006-01-02"))
	}
	b.send(userID, sb.String(), nil)
}

// handleDecision settles a pending investment from the inline approve/reject
// buttons. The lifecycle service owns authorisation and the single-shot
// guarantee; duplicate clicks surface here as "not found".
func (b *Bot) handleDecision(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	actorID := cb.From.ID
	action, idPart, _ := strings.Cut(cb.Data, "|")

	invID, err := strconv.ParseUint(idPart, 10, 32)
	if err != nil {
		b.answerCallback(cb.ID, "Error procesando acción.")
		return
	}

	if action == "APP" {
		err = b.investments.Approve(ctx, uint(invID), actorID)
	} else {
		err = b.investments.Reject(ctx, uint(invID), actorID)
	}

	switch {
	case errors.Is(err, services.ErrUnauthorized):
		b.answerCallback(cb.ID, "No autorizado.")
	case errors.Is(err, services.ErrNotFound):
		b.answerCallback(cb.ID, "Inversión no encontrada.")
	case err != nil:
		b.answerCallback(cb.ID, "Error procesando acción.")
	case action == "APP":
		b.answerCallback(cb.ID, "Inversión aprobada.")
		b.send(b.adminID, fmt.Sprintf("✅ Inversión %d aprobada.", invID), nil)
	default:
		b.answerCallback(cb.ID, "Inversión rechazada.")
		b.send(b.adminID, fmt.Sprintf("❌ Inversión %d rechazada.", invID), nil)
	}
}

func (b *Bot) handlePing(msg *tgbotapi.Message) {
	if msg.From.ID != b.adminID {
		b.send(msg.Chat.ID, "❌ No tienes permiso para usar este comando.", nil)
		return
	}

	start := time.Now()
	sent, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "⏳ Ping en progreso..."))
	if err != nil {
		return
	}
	latency := time.Since(start)

	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sent.MessageID,
		fmt.Sprintf("Pong 🟢 (%.1f ms)", float64(latency.Microseconds())/1000))
	if _, err := b.api.Send(edit); err != nil {
		b.send(msg.Chat.ID, fmt.Sprintf("Pong 🟢 (%.1f ms)", float64(latency.Microseconds())/1000), nil)
	}
}

// handleDumpDB sends the raw store contents straight to the administrator.
func (b *Bot) handleDumpDB(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From.ID != b.adminID {
		b.send(msg.Chat.ID, "No autorizado.", nil)
		return
	}

	data, err := export.Archive(ctx, b.store)
	if err != nil {
		b.send(b.adminID, "Error al generar el volcado de la base de datos.", nil)
		return
	}

	b.notifier.SendDocument(b.adminID, "inversionesct_db.zip", data, "📥 Base de datos (inversionesct)")
}
