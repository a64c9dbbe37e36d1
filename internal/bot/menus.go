package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"inversiones-bot/internal/models"
	"inversiones-bot/internal/money"
)

// Menu button labels. The reply keyboard echoes these back as plain text.
const (
	btnInvest      = "💰 Invertir"
	btnRefer       = "🤝 Referir amigos"
	btnProfile     = "📊 Mi perfil"
	btnMyReferrals = "👥 Mis referidos"
	btnUpdateData  = "✏️ Actualizar datos"
	btnBackToMenu  = "🔙 Volver al menú"

	btnAdminPanel   = "📈 Panel admin"
	btnAdminStats   = "📊 Estadísticas"
	btnAdminPending = "🔎 Revisar pendientes"
	btnAdminHistory = "📜 Historial"
	btnAdminBack    = "🔙 Volver"
)

// mainMenu builds the reply keyboard shown after most interactions. The
// admin gets the panel entry in place of the referral listing.
func (b *Bot) mainMenu(userID int64) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	if userID == b.adminID {
		rows = [][]tgbotapi.KeyboardButton{
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(btnAdminPanel),
				tgbotapi.NewKeyboardButton(btnInvest),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(btnRefer),
				tgbotapi.NewKeyboardButton(btnProfile),
			),
		}
	} else {
		rows = [][]tgbotapi.KeyboardButton{
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(btnInvest),
				tgbotapi.NewKeyboardButton(btnRefer),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(btnProfile),
				tgbotapi.NewKeyboardButton(btnMyReferrals),
			),
		}
	}

	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.ResizeKeyboard = true
	return markup
}

func adminMenu() tgbotapi.ReplyKeyboardMarkup {
	markup := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAdminStats),
			tgbotapi.NewKeyboardButton(btnAdminPending),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAdminHistory),
			tgbotapi.NewKeyboardButton(btnAdminBack),
		),
	)
	markup.ResizeKeyboard = true
	return markup
}

func profileMenu() tgbotapi.ReplyKeyboardMarkup {
	markup := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnUpdateData),
			tgbotapi.NewKeyboardButton(btnBackToMenu),
		),
	)
	markup.ResizeKeyboard = true
	return markup
}

func amountKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, amt := range models.AllowedAmounts {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("💵 %s", money.Format(amt)),
				fmt.Sprintf("INV|%d", amt)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func updateFieldKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📛 Nombre", "UPD|nombre")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📱 Teléfono", "UPD|telefono")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🪪 Cédula", "UPD|cedula")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("💳 Nequi", "UPD|nequi")),
	)
}

func decisionKeyboard(invID uint) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Aprobar", fmt.Sprintf("APP|%d", invID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Rechazar", fmt.Sprintf("REJ|%d", invID)),
		),
	)
}
