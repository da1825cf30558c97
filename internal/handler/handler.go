// internal/handler/handler.go
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"luckydraw-crm/internal/backend"
	"luckydraw-crm/internal/domain"
	"luckydraw-crm/internal/format"
	"luckydraw-crm/internal/middleware"
	val "luckydraw-crm/internal/validator"
)

// Backend lists every backend call the pages make.
type Backend interface {
	PromoterProfile(ctx context.Context, token string) (*domain.Promoter, error)
	ListCustomers(ctx context.Context, token string, f backend.CustomerFilter) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, token, id string) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, token string, in domain.CustomerInput) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, token, id string, in domain.CustomerInput) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, token, id string) error
	ListRepayments(ctx context.Context, token, customerID string) ([]domain.Repayment, error)
	CreateRepayment(ctx context.Context, token string, in domain.RepaymentInput) (*domain.Repayment, error)
	Wallet(ctx context.Context, token string) (*domain.Wallet, error)
	ListWithdrawals(ctx context.Context, token string) ([]domain.Withdrawal, error)
	RequestWithdrawal(ctx context.Context, token string, in domain.WithdrawalInput) (*domain.Withdrawal, error)
	ListSeasons(ctx context.Context, token string) ([]domain.Season, error)
	GetSeason(ctx context.Context, token, id string) (*domain.Season, error)
	Posters(ctx context.Context) ([]domain.Poster, error)
	CustomerProfile(ctx context.Context, token string) (*domain.Customer, error)
	CustomerLedger(ctx context.Context, token string) (*domain.CustomerLedger, error)
	CustomerPromoter(ctx context.Context, token string) (*domain.Promoter, error)
}

type Sessions interface {
	Login(ctx context.Context, role domain.Role, phone, password string) (*domain.Session, string, error)
	Logout(ctx context.Context, sessionID string) error
	ResetPassword(ctx context.Context, sess *domain.Session, current, next string) error
}

type CookieOptions struct {
	Name   string
	Secure bool
}

type Handler struct {
	backend  Backend
	sessions Sessions
	fmt      *format.Formatter
	cookie   CookieOptions
	now      func() time.Time
}

func New(b Backend, sessions Sessions, f *format.Formatter, cookie CookieOptions) *Handler {
	return &Handler{
		backend:  b,
		sessions: sessions,
		fmt:      f,
		cookie:   cookie,
		now:      time.Now,
	}
}

// session is always present behind the guard; a miss is a wiring bug.
func (h *Handler) session(c *gin.Context) (*domain.Session, bool) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session missing"})
		return nil, false
	}
	return sess, true
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return false
	}
	if err := val.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// respondError surfaces backend failures as a plain message string.
func respondError(c *gin.Context, op string, err error) {
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status >= 500 {
			status = http.StatusBadGateway
		}
		slog.Warn(op+" failed", "status", apiErr.Status, "error", apiErr.Message, "request_id", middleware.RequestIDFrom(c))
		c.JSON(status, gin.H{"error": apiErr.Message})
	case errors.Is(err, domain.ErrInvalidSeason):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case isUnreachable(err):
		slog.Error(op+" failed", "error", err, "request_id", middleware.RequestIDFrom(c))
		c.JSON(http.StatusBadGateway, gin.H{"error": "service is unavailable, please try again"})
	default:
		slog.Error(op+" failed", "error", err, "request_id", middleware.RequestIDFrom(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

func isUnreachable(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded)
}
