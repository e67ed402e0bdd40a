// Package telegram provides the Telegram bot surface: the update loop,
// command handlers and inline keyboards.
package telegram

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/weatherbot/internal/notifier"
	"github.com/user/weatherbot/internal/storage"
	"github.com/user/weatherbot/pkg/logger"
)

// Bot represents the Telegram bot.
type Bot struct {
	api      *tgbotapi.BotAPI
	handlers *Handlers
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewBot creates a new Telegram bot instance. The notifier is attached
// separately because it needs the bot as its messaging sink.
func NewBot(token string, debug bool, store *storage.PreferenceStore, ws WeatherService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	api.Debug = debug

	logger.Info().Str("username", api.Self.UserName).Msg("Telegram bot authorized")

	ctx, cancel := context.WithCancel(context.Background())

	return &Bot{
		api:      api,
		handlers: NewHandlers(api, store, ws, nil),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// AttachNotifier wires the notifier into the command handlers. Must be
// called before Start.
func (b *Bot) AttachNotifier(n *notifier.Notifier) {
	b.handlers.notifier = n
}

// Start begins listening for updates.
func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			select {
			case <-b.ctx.Done():
				return
			case update := <-updates:
				if update.Message != nil {
					b.handleMessage(update.Message)
				} else if update.CallbackQuery != nil {
					b.handlers.HandleCallback(update.CallbackQuery)
				}
			}
		}
	}()

	logger.Info().Msg("Telegram bot started, listening for updates")
}

// Stop gracefully stops the bot.
func (b *Bot) Stop() {
	logger.Info().Msg("Stopping Telegram bot")
	b.cancel()
	b.api.StopReceivingUpdates()
	b.wg.Wait()
}

// handleMessage processes incoming messages.
func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	if msg.IsCommand() {
		b.handlers.HandleCommand(msg)
		return
	}
	if msg.Text != "" {
		b.handlers.HandleText(msg)
	}
}

// SendText sends a plain text message. Implements notifier.Sender.
func (b *Bot) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
		return err
	}
	return nil
}
