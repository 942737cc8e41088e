// Package telegram answers operator messages sent to a Telegram bot.
package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"factory-chatbot-backend/internal/chart"
	"factory-chatbot-backend/internal/chatbot"
)

const welcomeText = "Welcome to the factory assistant! Ask about production, maintenance, downtime or machine status, or send /help."

// Dispatcher answers one message.
type Dispatcher interface {
	Dispatch(ctx context.Context, message string) chatbot.Response
}

// botAPI is the subset of tgbotapi.BotAPI the bot uses.
type botAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	StopReceivingUpdates()
}

// Bot relays Telegram messages to the dispatcher.
type Bot struct {
	api      botAPI
	dispatch Dispatcher
	timeout  int
	log      *zap.Logger
}

// New connects to the Bot API with token.
func New(token string, timeoutSeconds int, d Dispatcher, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	log.Info("authorized on telegram", zap.String("account", api.Self.UserName))
	return newBot(api, timeoutSeconds, d, log), nil
}

func newBot(api botAPI, timeoutSeconds int, d Dispatcher, log *zap.Logger) *Bot {
	return &Bot{api: api, dispatch: d, timeout: timeoutSeconds, log: log.Named("telegram")}
}

// Run long-polls for updates until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.timeout
	updates := b.api.GetUpdatesChan(u)
	b.log.Info("listening for messages")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handle(ctx, update.Message)
		}
	}
}

func (b *Bot) handle(ctx context.Context, m *tgbotapi.Message) {
	chatID := m.Chat.ID
	b.log.Debug("message received", zap.Int64("chat_id", chatID), zap.String("text", m.Text))

	if m.IsCommand() && m.Command() == "start" {
		b.send(tgbotapi.NewMessage(chatID, welcomeText))
		return
	}

	text := m.Text
	if m.IsCommand() {
		// "/help" and "/status line 2" read as plain messages.
		text = strings.TrimSpace(m.Command() + " " + m.CommandArguments())
	}

	resp := b.dispatch.Dispatch(ctx, text)
	b.send(tgbotapi.NewMessage(chatID, resp.Text))
	if len(resp.Alerts) > 0 {
		b.send(tgbotapi.NewMessage(chatID, strings.Join(resp.Alerts, "\n")))
	}
	if resp.Chart != nil {
		png, err := chart.Decode(*resp.Chart)
		if err != nil {
			b.log.Warn("dropping chart", zap.Error(err))
			return
		}
		b.send(tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "production.png", Bytes: png}))
	}
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.log.Warn("failed to send reply", zap.Error(err))
	}
}
