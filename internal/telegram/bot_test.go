package telegram

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"luckydraw-crm/internal/backend"
	"luckydraw-crm/internal/domain"
	"luckydraw-crm/internal/format"
)

type fakeSessions struct {
	loginErr  error
	mustReset bool
	live      map[string]*domain.Session
	loggedOut []string
}

func (f *fakeSessions) Login(_ context.Context, role domain.Role, phone, _ string) (*domain.Session, string, error) {
	if f.loginErr != nil {
		return nil, "", f.loginErr
	}
	sess := &domain.Session{ID: "sid-" + phone, Role: role, UserID: phone, BackendToken: "bt", MustResetPassword: f.mustReset}
	token := "tok-" + phone
	f.live[token] = sess
	return sess, token, nil
}

func (f *fakeSessions) Authenticate(_ context.Context, token string) (*domain.Session, error) {
	sess, ok := f.live[token]
	if !ok {
		return nil, fmt.Errorf("%w: gone", domain.ErrUnauthorized)
	}
	return sess, nil
}

func (f *fakeSessions) Logout(_ context.Context, id string) error {
	f.loggedOut = append(f.loggedOut, id)
	return nil
}

type fakeBackend struct {
	walletErr error
}

func (f *fakeBackend) Wallet(context.Context, string) (*domain.Wallet, error) {
	if f.walletErr != nil {
		return nil, f.walletErr
	}
	return &domain.Wallet{Balance: decimal.NewFromInt(2500)}, nil
}

func (f *fakeBackend) ListCustomers(context.Context, string, backend.CustomerFilter) ([]domain.Customer, error) {
	return []domain.Customer{{ID: "c-1", Name: "Anita", Phone: "9876543210", SeasonID: "s-1"}}, nil
}

func (f *fakeBackend) GetCustomer(_ context.Context, _ string, id string) (*domain.Customer, error) {
	if id != "c-1" {
		return nil, &backend.APIError{Status: http.StatusNotFound, Message: "Customer not found"}
	}
	return &domain.Customer{ID: "c-1", Name: "Anita", SeasonID: "s-1"}, nil
}

func (f *fakeBackend) ListRepayments(context.Context, string, string) ([]domain.Repayment, error) {
	return []domain.Repayment{{Month: "2024-01", Amount: decimal.NewFromInt(500)}}, nil
}

func (f *fakeBackend) ListSeasons(context.Context, string) ([]domain.Season, error) {
	s, _ := f.GetSeason(context.Background(), "", "s-1")
	return []domain.Season{*s}, nil
}

func (f *fakeBackend) GetSeason(context.Context, string, string) (*domain.Season, error) {
	return &domain.Season{
		ID:            "s-1",
		Name:          "Summer",
		StartDate:     domain.NewDate(2024, time.January, 10),
		EndDate:       domain.NewDate(2024, time.June, 10),
		MonthlyAmount: decimal.NewFromInt(500),
		Active:        true,
	}, nil
}

func newBot(t *testing.T, s *fakeSessions, b *fakeBackend) *Bot {
	t.Helper()
	if s.live == nil {
		s.live = map[string]*domain.Session{}
	}
	f, err := format.New("INR", "en-IN")
	require.NoError(t, err)
	bot := New(s, b, f)
	bot.now = func() time.Time { return time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC) }
	return bot
}

func TestCommandsRequireLogin(t *testing.T) {
	bot := newBot(t, &fakeSessions{}, &fakeBackend{})

	reply := bot.Handle(context.Background(), 1, "/wallet")
	assert.Contains(t, reply, "❌")
	assert.Contains(t, reply, "/login")
}

func TestLoginThenWallet(t *testing.T) {
	s := &fakeSessions{}
	bot := newBot(t, s, &fakeBackend{})
	ctx := context.Background()

	assert.Contains(t, bot.Handle(ctx, 7, "/login 9876543210 secret"), "Logged in")

	reply := bot.Handle(ctx, 7, "/wallet")
	assert.Contains(t, reply, "2,500.00")

	// other chats stay logged out
	assert.Contains(t, bot.Handle(ctx, 8, "/wallet"), "❌")
}

func TestLoginFailureShowsBackendMessage(t *testing.T) {
	bot := newBot(t, &fakeSessions{
		loginErr: &backend.APIError{Status: http.StatusUnauthorized, Message: "Invalid credentials"},
	}, &fakeBackend{})

	assert.Equal(t, "❌ Invalid credentials", bot.Handle(context.Background(), 1, "/login 9876543210 nope"))
}

func TestUsageErrors(t *testing.T) {
	bot := newBot(t, &fakeSessions{}, &fakeBackend{})
	ctx := context.Background()

	assert.Contains(t, bot.Handle(ctx, 1, "/login 9876543210"), "Usage")
	assert.Contains(t, bot.Handle(ctx, 1, "/due"), "Usage")
	assert.Contains(t, bot.Handle(ctx, 1, "/nope"), "/help")
	assert.Contains(t, bot.Handle(ctx, 1, "/help"), "/due")
}

func TestDueRendersSchedule(t *testing.T) {
	s := &fakeSessions{}
	bot := newBot(t, s, &fakeBackend{})
	ctx := context.Background()
	bot.Handle(ctx, 3, "/login 9876543210 secret")

	reply := bot.Handle(ctx, 3, "/due c-1")
	assert.Contains(t, reply, "✅ Jan 2024")
	assert.Contains(t, reply, "🔴 Feb 2024")
	assert.Contains(t, reply, "⏳ Jun 2024")
	assert.Contains(t, reply, "Outstanding: ")
	assert.Contains(t, reply, "2,500.00")

	assert.Equal(t, "❌ Customer not found", bot.Handle(ctx, 3, "/due c-404"))
}

func TestMustResetBlocksCommands(t *testing.T) {
	bot := newBot(t, &fakeSessions{mustReset: true}, &fakeBackend{})
	ctx := context.Background()

	assert.Contains(t, bot.Handle(ctx, 1, "/login 9876543210 secret"), "Reset your password")
	assert.Contains(t, bot.Handle(ctx, 1, "/customers"), "password reset required")
}

func TestExpiredSessionIsForgotten(t *testing.T) {
	s := &fakeSessions{}
	bot := newBot(t, s, &fakeBackend{})
	ctx := context.Background()
	bot.Handle(ctx, 1, "/login 9876543210 secret")

	delete(s.live, "tok-9876543210")
	assert.Contains(t, bot.Handle(ctx, 1, "/seasons"), "session expired")
	assert.Contains(t, bot.Handle(ctx, 1, "/seasons"), "/login")
}

func TestLogout(t *testing.T) {
	s := &fakeSessions{}
	bot := newBot(t, s, &fakeBackend{})
	ctx := context.Background()
	bot.Handle(ctx, 1, "/login 9876543210 secret")

	assert.Contains(t, bot.Handle(ctx, 1, "/logout"), "Logged out")
	assert.Equal(t, []string{"sid-9876543210"}, s.loggedOut)
	assert.Contains(t, bot.Handle(ctx, 1, "/logout"), "not logged in")
}

func TestCustomersList(t *testing.T) {
	bot := newBot(t, &fakeSessions{}, &fakeBackend{})
	ctx := context.Background()
	bot.Handle(ctx, 1, "/login 9876543210 secret")

	reply := bot.Handle(ctx, 1, "/customers")
	assert.Contains(t, reply, "(1)")
	assert.Contains(t, reply, "Anita")
	assert.Contains(t, reply, "`c-1`")
}

func TestSanitizeAndFixEncoding(t *testing.T) {
	assert.Equal(t, "/due c-1", SanitizeInput("  /due \tc-1 \n"))

	raw, err := charmap.Windows1251.NewEncoder().String("привет")
	require.NoError(t, err)
	assert.Equal(t, "привет", fixEncoding(raw))
	assert.Equal(t, "hello", fixEncoding("hello"))
}

func TestRepeatedLoginEndsPreviousSession(t *testing.T) {
	s := &fakeSessions{}
	bot := newBot(t, s, &fakeBackend{})
	ctx := context.Background()

	bot.Handle(ctx, 5, "/login 9876543210 secret")
	bot.Handle(ctx, 5, "/login 9123456789 secret")

	assert.Equal(t, []string{"sid-9876543210"}, s.loggedOut)
	assert.Contains(t, bot.Handle(ctx, 5, "/wallet"), "2,500.00")

	bot.Handle(ctx, 5, "/logout")
	assert.Equal(t, []string{"sid-9876543210", "sid-9123456789"}, s.loggedOut)
}
