// internal/telegram/bot.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/encoding/charmap"

	"luckydraw-crm/internal/backend"
	"luckydraw-crm/internal/domain"
	"luckydraw-crm/internal/format"
	"luckydraw-crm/internal/schedule"
)

const maxListed = 20

type Sessions interface {
	Login(ctx context.Context, role domain.Role, phone, password string) (*domain.Session, string, error)
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

type Backend interface {
	Wallet(ctx context.Context, token string) (*domain.Wallet, error)
	ListCustomers(ctx context.Context, token string, f backend.CustomerFilter) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, token, id string) (*domain.Customer, error)
	ListRepayments(ctx context.Context, token, customerID string) ([]domain.Repayment, error)
	ListSeasons(ctx context.Context, token string) ([]domain.Season, error)
	GetSeason(ctx context.Context, token, id string) (*domain.Season, error)
}

// Bot lets promoters look at their book from a chat. Each chat holds at most
// one gateway session token.
type Bot struct {
	sessions Sessions
	backend  Backend
	fmt      *format.Formatter
	now      func() time.Time

	mu    sync.Mutex
	chats map[int64]string
}

var errNotLoggedIn = errors.New("please log in first: /login <phone> <password>")

func New(sessions Sessions, b Backend, f *format.Formatter) *Bot {
	return &Bot{
		sessions: sessions,
		backend:  b,
		fmt:      f,
		now:      time.Now,
		chats:    make(map[int64]string),
	}
}

// Run long-polls Telegram until ctx is cancelled.
func (b *Bot) Run(ctx context.Context, api *tgbotapi.BotAPI) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)
	defer api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.serve(ctx, api, update.Message)
		}
	}
}

func (b *Bot) serve(ctx context.Context, api *tgbotapi.BotAPI, m *tgbotapi.Message) {
	chatID := m.Chat.ID
	text := SanitizeInput(fixEncoding(m.Text))
	command := strings.SplitN(text, " ", 2)[0]
	slog.Info("message received", "chat_id", chatID, "command", command)

	reply := b.Handle(ctx, chatID, text)

	// Credentials should not stay in the chat history.
	if command == "/login" {
		if _, err := api.Request(tgbotapi.NewDeleteMessage(chatID, m.MessageID)); err != nil {
			slog.Warn("delete login message", "error", err, "chat_id", chatID)
		}
	}

	msg := tgbotapi.NewMessage(chatID, reply)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := api.Send(msg); err != nil {
		slog.Error("send reply", "error", err, "chat_id", chatID)
	}
}

// Handle executes one command and returns the Markdown reply.
func (b *Bot) Handle(ctx context.Context, chatID int64, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return helpText
	}

	var (
		reply string
		err   error
	)
	switch fields[0] {
	case "/start", "/help":
		reply = helpText
	case "/login":
		if len(fields) != 3 {
			return "❌ Usage: /login <phone> <password>"
		}
		reply, err = b.login(ctx, chatID, fields[1], fields[2])
	case "/logout":
		reply, err = b.logout(ctx, chatID)
	case "/wallet":
		reply, err = b.withSession(ctx, chatID, b.wallet)
	case "/customers":
		reply, err = b.withSession(ctx, chatID, b.customers)
	case "/seasons":
		reply, err = b.withSession(ctx, chatID, b.seasons)
	case "/due":
		if len(fields) != 2 {
			return "❌ Usage: /due <customerId>"
		}
		reply, err = b.withSession(ctx, chatID, func(ctx context.Context, sess *domain.Session) (string, error) {
			return b.due(ctx, sess, fields[1])
		})
	default:
		reply = "Unknown command. Send /help"
	}

	if err != nil {
		return "❌ " + escape(backend.Message(err))
	}
	return reply
}

func (b *Bot) login(ctx context.Context, chatID int64, phone, password string) (string, error) {
	sess, token, err := b.sessions.Login(ctx, domain.RolePromoter, phone, password)
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	prev := b.chats[chatID]
	b.chats[chatID] = token
	b.mu.Unlock()
	if prev != "" {
		if err := b.endSession(ctx, prev); err != nil {
			slog.Warn("end previous session", "error", err, "chat_id", chatID)
		}
	}

	slog.Info("bot login", "chat_id", chatID, "user_id", sess.UserID)
	if sess.MustResetPassword {
		return "✅ Logged in. Reset your password in the web app before continuing.", nil
	}
	return "✅ Logged in. Send /help to see what I can do.", nil
}

func (b *Bot) logout(ctx context.Context, chatID int64) (string, error) {
	token := b.forget(chatID)
	if token == "" {
		return "You are not logged in.", nil
	}
	if err := b.endSession(ctx, token); err != nil {
		return "", err
	}
	return "👋 Logged out.", nil
}

// endSession deletes the session behind token; an already dead one is fine.
func (b *Bot) endSession(ctx context.Context, token string) error {
	sess, err := b.sessions.Authenticate(ctx, token)
	if err != nil {
		return nil
	}
	return b.sessions.Logout(ctx, sess.ID)
}

func (b *Bot) forget(chatID int64) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	token := b.chats[chatID]
	delete(b.chats, chatID)
	return token
}

func (b *Bot) withSession(ctx context.Context, chatID int64, fn func(context.Context, *domain.Session) (string, error)) (string, error) {
	b.mu.Lock()
	token, ok := b.chats[chatID]
	b.mu.Unlock()
	if !ok {
		return "", errNotLoggedIn
	}

	sess, err := b.sessions.Authenticate(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			b.forget(chatID)
			return "", errors.New("session expired, please /login again")
		}
		return "", err
	}
	if sess.MustResetPassword {
		return "", errors.New("password reset required, use the web app")
	}
	return fn(ctx, sess)
}

func (b *Bot) wallet(ctx context.Context, sess *domain.Session) (string, error) {
	w, err := b.backend.Wallet(ctx, sess.BackendToken)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("💰 *Wallet*\n\nBalance: %s\nEarned: %s\nWithdrawn: %s\nPending: %s",
		b.fmt.Money(w.Balance), b.fmt.Money(w.TotalEarned),
		b.fmt.Money(w.TotalWithdrawn), b.fmt.Money(w.PendingWithdrawal)), nil
}

func (b *Bot) customers(ctx context.Context, sess *domain.Session) (string, error) {
	list, err := b.backend.ListCustomers(ctx, sess.BackendToken, backend.CustomerFilter{})
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "📭 No customers yet", nil
	}

	lines := []string{fmt.Sprintf("👥 *Customers* (%d)", len(list))}
	for i, c := range list {
		if i == maxListed {
			lines = append(lines, fmt.Sprintf("…and %d more", len(list)-maxListed))
			break
		}
		lines = append(lines, fmt.Sprintf("- %s, %s `%s`", escape(c.Name), escape(c.Phone), c.ID))
	}
	return strings.Join(lines, "\n"), nil
}

func (b *Bot) seasons(ctx context.Context, sess *domain.Session) (string, error) {
	list, err := b.backend.ListSeasons(ctx, sess.BackendToken)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "📭 No seasons", nil
	}

	lines := []string{"🗓 *Seasons*"}
	for _, s := range list {
		line := fmt.Sprintf("- %s: %s to %s, %s/month",
			escape(s.Name), b.fmt.Date(s.StartDate), b.fmt.Date(s.EndDate), b.fmt.Money(s.MonthlyAmount))
		if s.Active {
			line += " (active)"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

var statusIcon = map[domain.InstallmentStatus]string{
	domain.InstallmentPaid:     "✅",
	domain.InstallmentPartial:  "🟡",
	domain.InstallmentDue:      "🔔",
	domain.InstallmentOverdue:  "🔴",
	domain.InstallmentUpcoming: "⏳",
}

func (b *Bot) due(ctx context.Context, sess *domain.Session, customerID string) (string, error) {
	cust, err := b.backend.GetCustomer(ctx, sess.BackendToken, customerID)
	if err != nil {
		return "", err
	}
	if cust.SeasonID == "" {
		return fmt.Sprintf("📭 %s is not enrolled in a season", escape(cust.Name)), nil
	}
	season, err := b.backend.GetSeason(ctx, sess.BackendToken, cust.SeasonID)
	if err != nil {
		return "", err
	}
	repayments, err := b.backend.ListRepayments(ctx, sess.BackendToken, cust.ID)
	if err != nil {
		return "", err
	}
	sched, err := schedule.Build(*season, repayments, b.now())
	if err != nil {
		return "", err
	}

	lines := []string{fmt.Sprintf("📋 *%s*, %s", escape(cust.Name), escape(season.Name))}
	for _, inst := range sched.Installments {
		lines = append(lines, fmt.Sprintf("%s %s: %s of %s",
			statusIcon[inst.Status], b.fmt.Month(inst.Month), b.fmt.Money(inst.Paid), b.fmt.Money(inst.Amount)))
	}
	lines = append(lines, "", "Outstanding: "+b.fmt.Money(sched.Summary.Outstanding))
	return strings.Join(lines, "\n"), nil
}

const helpText = "🎟 *Lucky Draw CRM*\n\n" +
	"Commands:\n" +
	"`/login <phone> <password>` log in as a promoter\n" +
	"`/wallet` wallet balance\n" +
	"`/customers` your customers\n" +
	"`/due <customerId>` installment table\n" +
	"`/seasons` seasons\n" +
	"`/logout` end the session"

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// SanitizeInput folds every kind of whitespace into single spaces.
func SanitizeInput(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// fixEncoding recovers text some clients send as windows-1251.
func fixEncoding(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	fixed, err := charmap.Windows1251.NewDecoder().String(s)
	if err == nil && utf8.ValidString(fixed) {
		return fixed
	}
	return strings.ToValidUTF8(s, "")
}
