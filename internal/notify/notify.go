// Package notify relays ledger events to members and to the admin channel
// over Telegram. Delivery is best-effort: every send runs in its own
// goroutine and a failure is only logged, it never affects ledger state.
package notify

import (
	"os"
	"strconv"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var (
	bot         *tgbotapi.BotAPI
	adminChatID int64
)

// Init connects the bot. Without TOKEN the sink stays disabled, which is
// fine for local runs and tests.
func Init() {
	token, ok := os.LookupEnv("TOKEN")
	if !ok {
		logger.Warn("TOKEN not set, telegram notifications disabled")
		return
	}

	var err error
	bot, err = tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("unable to connect telegram bot, notifications disabled: %v", err)
		bot = nil
		return
	}

	if raw, ok := os.LookupEnv("ADMIN_CHAT_ID"); ok {
		adminChatID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			logger.Fatal("invalid ADMIN_CHAT_ID value: %v", err)
		}
	}

	logger.Info("Notification bot connected: @%s", bot.Self.UserName)
}

func send(chatID int64, text string) {
	if bot == nil || chatID == 0 {
		return
	}

	go func() {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		if _, err := bot.Send(msg); err != nil {
			logger.Error("failed to send telegram message to %d: %v", chatID, err)
		}
	}()
}

// User sends a message to a member. Member ids are telegram chat ids.
func User(memberID int64, text string) {
	send(memberID, text)
}

// Admins sends a message to the admin channel.
func Admins(text string) {
	send(adminChatID, text)
}
