// Package telegram exposes the chat pipeline over a Telegram bot.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/MrJamesThe3rd/finnychat/internal/agent"
	"github.com/MrJamesThe3rd/finnychat/internal/memory"
)

// MaxMessageLength is Telegram's limit for a single text message.
const MaxMessageLength = 4096

const (
	msgNotAllowed = "Sorry, this ledger is private."
	msgHelp       = `Send me a command in plain English, for example:
 - add groceries $45 today
 - show my transactions from last week
 - create a category called 'Gym' for expense

/history shows your last interactions, /reset clears them.`
	msgReset     = "Conversation history cleared."
	msgNoHistory = "Nothing here yet."
)

//go:generate mockgen -source=bot.go -destination=deps_mock.go -package=telegram
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Chat interface {
	Handle(ctx context.Context, userID int64, text string) agent.Response
	History(ctx context.Context, userID int64, n int) ([]memory.Interaction, error)
	Reset(ctx context.Context, userID int64) error
}

type Bot struct {
	api    Sender
	chat   Chat
	users  map[int64]int64
	seed   func(ctx context.Context, ownerID int64) error
	logger *slog.Logger
}

type Option func(*Bot)

// WithSeeder runs seed for the ledger owner on /start.
func WithSeeder(seed func(ctx context.Context, ownerID int64) error) Option {
	return func(b *Bot) { b.seed = seed }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Bot) { b.logger = l }
}

// New builds a bot answering only the telegram users in users, each mapped to
// the ledger owner id whose data it may touch.
func New(api Sender, chat Chat, users map[int64]int64, opts ...Option) *Bot {
	b := &Bot{
		api:    api,
		chat:   chat,
		users:  users,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Run handles updates until ctx is cancelled or the channel is closed.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			if err := b.HandleUpdate(ctx, update); err != nil {
				b.logger.Error("failed to handle update", "update_id", update.UpdateID, "error", err)
			}
		}
	}
}

func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return nil
	}

	ownerID, ok := b.users[msg.From.ID]
	if !ok {
		b.logger.Warn("rejected telegram user", "telegram_id", msg.From.ID)
		return b.send(msg.Chat.ID, msgNotAllowed)
	}

	if msg.IsCommand() {
		return b.handleCommand(ctx, msg, ownerID)
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}

	resp := b.chat.Handle(ctx, ownerID, text)

	return b.send(msg.Chat.ID, resp.Reply)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, ownerID int64) error {
	switch msg.Command() {
	case "start":
		if b.seed != nil {
			if err := b.seed(ctx, ownerID); err != nil {
				return fmt.Errorf("seeding categories: %w", err)
			}
		}

		return b.send(msg.Chat.ID, msgHelp)
	case "reset":
		if err := b.chat.Reset(ctx, ownerID); err != nil {
			return fmt.Errorf("resetting history: %w", err)
		}

		return b.send(msg.Chat.ID, msgReset)
	case "history":
		items, err := b.chat.History(ctx, ownerID, memory.DefaultRecent)
		if err != nil {
			return fmt.Errorf("loading history: %w", err)
		}

		return b.send(msg.Chat.ID, renderHistory(items))
	default:
		return b.send(msg.Chat.ID, msgHelp)
	}
}

func renderHistory(items []memory.Interaction) string {
	if len(items) == 0 {
		return msgNoHistory
	}

	var sb strings.Builder

	for i, it := range items {
		if i > 0 {
			sb.WriteString("\n\n")
		}

		fmt.Fprintf(&sb, "%s\n> %s\n%s", it.Timestamp.Format("2006-01-02 15:04"), it.UserText, it.Reply)
	}

	return sb.String()
}

func (b *Bot) send(chatID int64, text string) error {
	for _, part := range split(text, MaxMessageLength) {
		if strings.TrimSpace(part) == "" {
			continue
		}

		if _, err := b.api.Send(tgbotapi.NewMessage(chatID, part)); err != nil {
			return fmt.Errorf("sending message: %w", err)
		}
	}

	return nil
}

// units is the UTF-16 length Telegram counts message limits in.
func units(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// split breaks text into chunks of at most limit UTF-16 code units,
// preferring line breaks.
func split(text string, limit int) []string {
	if text == "" {
		return nil
	}

	if units(text) <= limit {
		return []string{text}
	}

	var (
		parts []string
		cur   strings.Builder
		n     int
	)

	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
			n = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		lineLen := units(line)
		if n+lineLen > limit {
			flush()
		}

		for lineLen > limit {
			head, rest := cutUnits(line, limit)
			parts = append(parts, head)
			line = rest
			lineLen = units(line)
		}

		cur.WriteString(line)
		n += lineLen
	}

	flush()

	return parts
}

// cutUnits splits s after at most limit code units, never inside a surrogate pair.
func cutUnits(s string, limit int) (string, string) {
	n := 0

	for i, r := range s {
		w := utf16.RuneLen(r)
		if w < 0 {
			w = 1
		}

		if n+w > limit && i > 0 {
			return s[:i], s[i:]
		}

		n += w
	}

	return s, ""
}
