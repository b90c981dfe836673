package telegram

//go:generate mockgen -source=client.go -destination=../../mocks/mock_telegram_sender.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Button is one inline action button. Action is an opaque callback token.
type Button struct {
	Label  string
	Action string
}

// SendOptions controls how a message is rendered.
type SendOptions struct {
	DisableWebPagePreview bool
	// Buttons are laid out row by row.
	Buttons [][]Button
}

// Sender delivers formatted text to a chat.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string, opts SendOptions) error
}

// Update is one incoming command or button callback.
type Update struct {
	ChatID     int64
	Username   string
	Command    string
	Arguments  []string
	CallbackID string
	Callback   string
}

// IsCallback reports whether the update came from an inline button.
func (u Update) IsCallback() bool {
	return u.CallbackID != ""
}

// Client is the Telegram bot API transport.
type Client struct {
	bot *tgbotapi.BotAPI
}

// NewClient creates a new Telegram client.
func NewClient(botToken string, debug bool) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = debug
	return &Client{bot: bot}, nil
}

// Username returns the bot's user name.
func (c *Client) Username() string {
	return c.bot.Self.UserName
}

// SendText sends a Markdown message. Text longer than one message is split.
func (c *Client) SendText(ctx context.Context, chatID int64, text string, opts SendOptions) error {
	parts := SplitMessage(text, MaxMessageLength)
	for i, part := range parts {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.DisableWebPagePreview = opts.DisableWebPagePreview
		if i == len(parts)-1 && len(opts.Buttons) > 0 {
			msg.ReplyMarkup = keyboard(opts.Buttons)
		}
		if _, err := c.bot.Send(msg); err != nil {
			return fmt.Errorf("failed to send telegram message: %w", err)
		}
	}
	return nil
}

// AnswerCallback acknowledges a button press so the client stops its spinner.
func (c *Client) AnswerCallback(callbackID string) error {
	_, err := c.bot.Request(tgbotapi.NewCallback(callbackID, ""))
	return err
}

// Updates streams incoming commands and callbacks until ctx is done.
func (c *Client) Updates(ctx context.Context, timeoutSeconds int) <-chan Update {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = timeoutSeconds
	raw := c.bot.GetUpdatesChan(cfg)

	out := make(chan Update)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				c.bot.StopReceivingUpdates()
				return
			case u, ok := <-raw:
				if !ok {
					return
				}
				update, ok := convertUpdate(u)
				if !ok {
					continue
				}
				select {
				case out <- update:
				case <-ctx.Done():
					c.bot.StopReceivingUpdates()
					return
				}
			}
		}
	}()
	return out
}

func convertUpdate(u tgbotapi.Update) (Update, bool) {
	if u.CallbackQuery != nil {
		cq := u.CallbackQuery
		if cq.Message == nil || cq.Message.Chat == nil {
			return Update{}, false
		}
		update := Update{
			ChatID:     cq.Message.Chat.ID,
			CallbackID: cq.ID,
			Callback:   cq.Data,
		}
		if cq.From != nil {
			update.Username = cq.From.UserName
		}
		return update, true
	}
	if u.Message == nil || !u.Message.IsCommand() || u.Message.Chat == nil {
		return Update{}, false
	}
	update := Update{
		ChatID:    u.Message.Chat.ID,
		Command:   u.Message.Command(),
		Arguments: ParseArguments(u.Message.CommandArguments()),
	}
	if u.Message.From != nil {
		update.Username = u.Message.From.UserName
	}
	return update, true
}

func keyboard(rows [][]Button) tgbotapi.InlineKeyboardMarkup {
	markup := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Action))
		}
		markup = append(markup, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(markup...)
}

// ParseArguments splits command arguments on whitespace and commas.
func ParseArguments(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}
