package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"inversiones-bot/internal/money"
	"inversiones-bot/internal/services"
)

const msgNotEligible = "❌ Para seguir invirtiendo, debes invitar a un nuevo usuario con tu enlace y asegurarte de que también realice su primera inversión. Vuelve cuando cumplas ese requisito."

const msgReceiptInFlight = "⏳ Tu comprobante anterior todavía se está verificando. Espera el resultado."

// receiptInFlight reports whether a previously received receipt is still
// being verified for this user.
func (b *Bot) receiptInFlight(userID int64) bool {
	sess, ok := b.sessions.Get(userID)
	return ok && sess.State == StateProcessingReceipt
}

func (b *Bot) handleInvest(userID int64) {
	b.send(userID, "Selecciona el monto a invertir:", amountKeyboard())
}

// handleAmountChosen runs the eligibility gate before asking for a receipt,
// so ineligible users get a specific answer instead of a dead-end upload.
func (b *Bot) handleAmountChosen(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	userID := cb.From.ID
	b.answerCallback(cb.ID, "")

	amount, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, "INV|"), 10, 64)
	if err != nil {
		return
	}

	if b.receiptInFlight(userID) {
		b.send(userID, msgReceiptInFlight, nil)
		return
	}

	if !b.eligibility.CanInvest(ctx, userID) {
		b.send(userID, msgNotEligible, nil)
		return
	}

	b.sessions.Set(userID, Session{State: StateAwaitingReceipt, Amount: amount})
	b.send(userID, fmt.Sprintf(
		"📸 Envía la imagen del comprobante Nequi por el valor de $%s al número %s.",
		money.Format(amount), b.nequi), nil)
}

// handleReceipt consumes the awaited receipt image. Extraction and
// verification run off the dispatch loop; the session is consumed before
// handing off so later messages from the same user see consistent state.
func (b *Bot) handleReceipt(ctx context.Context, msg *tgbotapi.Message, sess Session) {
	userID := msg.From.ID

	fileID := receiptFileID(msg)
	if fileID == "" {
		// Session stays open: the user is still expected to send the image.
		b.send(userID, "⚠️ Debes enviar una imagen del comprobante.", nil)
		return
	}

	// The session flips to processing instead of clearing, so the invest
	// flow stays locked for this user until the submission lands.
	b.sessions.Set(userID, Session{State: StateProcessingReceipt})
	b.send(userID, "🧾 Comprobante recibido. Verificando, esto puede tardar unos segundos ⏳...", nil)

	go b.processReceipt(userID, sess.Amount, fileID)
}

func receiptFileID(msg *tgbotapi.Message) string {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID // largest rendition
	}
	if msg.Document != nil {
		return msg.Document.FileID
	}
	return ""
}

func (b *Bot) processReceipt(userID int64, amount int64, fileID string) {
	defer b.sessions.Clear(userID)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	path, err := b.saveReceipt(fileID, userID)
	if err != nil {
		log.Printf("bot: receipt save for %d failed: %v", userID, err)
		b.send(userID, fmt.Sprintf("⚠️ Error al guardar archivo: %v", err), nil)
		return
	}

	ok, reason, text := b.verifier.VerifyArtifact(ctx, path, amount)

	inv, err := b.investments.Submit(ctx, userID, amount, path, text, ok, reason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotEligible):
			b.send(userID, msgNotEligible, nil)
		case errors.Is(err, services.ErrInvalidAmount):
			b.send(userID, "⚠️ Monto no válido. Selecciona uno de los montos del menú.", nil)
		default:
			log.Printf("bot: submit for %d failed: %v", userID, err)
			b.send(userID, "⚠️ Ocurrió un error procesando el comprobante. Intenta nuevamente.", nil)
		}
		return
	}

	payout := inv.PayoutOn.Format("02/01/2006")
	if ok {
		b.send(userID, fmt.Sprintf(
			"✅ Comprobante recibido y verificado preliminarmente. Está pendiente de aprobación por el administrador.\n📅 Fecha estimada de pago: %s",
			payout), nil)
	} else {
		b.send(userID, fmt.Sprintf(
			"⚠️ Comprobante recibido pero no se pudo verificar automáticamente: %s\nEl administrador lo revisará manualmente.",
			reason), nil)
	}
}

// saveReceipt downloads the artifact from Telegram and stores it under the
// receipt directory with a collision-free name.
func (b *Bot) saveReceipt(fileID string, userID int64) (string, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve file: %w", err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("file download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(b.receiptDir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("comp_%d_%s.jpg", userID, uuid.NewString())
	path := filepath.Join(b.receiptDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
