package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Telegram adapts the Telegram Bot API to the orchestrator's Sender and
// event contracts.
type Telegram struct {
	api *tgbotapi.BotAPI
	log *zap.Logger
}

var _ Sender = (*Telegram)(nil)

// NewTelegram authenticates against the Telegram Bot API.
func NewTelegram(token string, log *zap.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}
	log.Info("authorized on telegram", zap.String("username", api.Self.UserName))
	return &Telegram{api: api, log: log}, nil
}

// Send delivers a reply, rendering the keyboard into the reply-markup
// flavour Telegram expects.
func (t *Telegram) Send(_ context.Context, chatID int64, reply Reply) error {
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if reply.Keyboard != nil {
		msg.ReplyMarkup = renderKeyboard(reply.Keyboard)
	}
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// AckCallback dismisses the inline-button spinner, optionally with a
// toast text.
func (t *Telegram) AckCallback(_ context.Context, callbackID, text string) error {
	if _, err := t.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

// EditText replaces the text of an already-sent message, dropping its
// inline keyboard.
func (t *Telegram) EditText(_ context.Context, chatID int64, messageID int, text string) error {
	if _, err := t.api.Request(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// Run receives updates via long polling and hands them to the handler
// one at a time, which keeps events within a conversation strictly
// ordered. Returns when the context is cancelled.
func (t *Telegram) Run(ctx context.Context, handler func(context.Context, Event)) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if ev, ok := EventFromUpdate(update); ok {
				handler(ctx, ev)
			}
		}
	}
}

// RegisterWebhook points Telegram at the given URL instead of polling.
func (t *Telegram) RegisterWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("failed to build webhook config: %w", err)
	}
	if _, err := t.api.Request(wh); err != nil {
		return fmt.Errorf("failed to register webhook: %w", err)
	}
	return nil
}

// EventFromUpdate translates a raw Telegram update into an orchestrator
// event. Updates the bot does not care about (edits, channel posts)
// report ok=false.
func EventFromUpdate(update tgbotapi.Update) (Event, bool) {
	switch {
	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		ev := Event{
			UserID:       cq.From.ID,
			CallbackID:   cq.ID,
			CallbackData: cq.Data,
		}
		if cq.Message != nil {
			ev.ChatID = cq.Message.Chat.ID
			ev.MessageID = cq.Message.MessageID
		}
		return ev, true
	case update.Message != nil && update.Message.Text != "":
		m := update.Message
		return Event{
			ChatID:    m.Chat.ID,
			UserID:    m.From.ID,
			MessageID: m.MessageID,
			Text:      m.Text,
		}, true
	default:
		return Event{}, false
	}
}

func renderKeyboard(kb *Keyboard) interface{} {
	if kb.Inline {
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb.Rows))
		for _, row := range kb.Rows {
			buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, b := range row {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
			}
			rows = append(rows, buttons)
		}
		return tgbotapi.NewInlineKeyboardMarkup(rows...)
	}

	rows := make([][]tgbotapi.KeyboardButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(b.Text))
		}
		rows = append(rows, buttons)
	}
	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.InputFieldPlaceholder = "Pick an action..."
	return markup
}
