package notify

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends notifications through the bot API.
type Telegram struct {
	bot *tgbotapi.BotAPI
}

func NewTelegram(bot *tgbotapi.BotAPI) *Telegram {
	return &Telegram{bot: bot}
}

func (t *Telegram) Send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		log.Printf("notify: send to %d failed: %v", chatID, err)
	}
}

func (t *Telegram) SendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := t.bot.Send(msg); err != nil {
		// Markdown can fail on unescaped user content; retry plain.
		t.Send(chatID, text)
	}
}

func (t *Telegram) SendDocument(chatID int64, name string, data []byte, caption string) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	if _, err := t.bot.Send(doc); err != nil {
		log.Printf("notify: document to %d failed: %v", chatID, err)
		t.Send(chatID, caption)
	}
}

func (t *Telegram) SendPhoto(chatID int64, path string, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
	photo.Caption = caption
	if _, err := t.bot.Send(photo); err != nil {
		log.Printf("notify: photo to %d failed: %v", chatID, err)
		t.Send(chatID, caption)
	}
}
