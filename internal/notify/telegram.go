package notify

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vetwriter/vetwriter/internal/ports"
)

// Telegram sends terminal pipeline failures to an admin chat so
// operators see failure counts without digging through logs. With no
// token configured it degrades to log-only.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram() ports.Notificator {
	token := os.Getenv("TELEGRAM_ALERT_TOKEN")
	if token == "" {
		log.Printf("[notify] TELEGRAM_ALERT_TOKEN not set, alerts go to log only")
		return &Telegram{}
	}

	chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_ALERT_CHAT_ID"), 10, 64)
	if err != nil {
		log.Printf("[notify] invalid TELEGRAM_ALERT_CHAT_ID, alerts go to log only")
		return &Telegram{}
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Printf("[notify] telegram init fail: %v, alerts go to log only", err)
		return &Telegram{}
	}

	return &Telegram{bot: bot, chatID: chatID}
}

func (t *Telegram) Notify(ctx context.Context, err error, details string) error {
	text := fmt.Sprintf("vetwriter pipeline failure\n\n%s\n\n%v", details, err)

	if t.bot == nil {
		log.Printf("[notify] %s: %v", details, err)
		return nil
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, sendErr := t.bot.Send(msg); sendErr != nil {
		log.Printf("[notify] send fail: %v", sendErr)
		return sendErr
	}
	return nil
}
