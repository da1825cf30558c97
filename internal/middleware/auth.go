// internal/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"luckydraw-crm/internal/backend"
	"luckydraw-crm/internal/domain"
)

const sessionKey = "session"

// CodePasswordResetRequired tells the client to show the blocking reset dialog.
const CodePasswordResetRequired = "password_reset_required"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

type AuthMiddleware struct {
	sessions   Authenticator
	cookieName string
	loginPath  string
}

func NewAuthMiddleware(sessions Authenticator, cookieName, loginPath string) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, cookieName: cookieName, loginPath: loginPath}
}

// RequireSession guards a route group. An empty roles list admits any role.
func (m *AuthMiddleware) RequireSession(roles ...domain.Role) gin.HandlerFunc {
	return m.guard(false, roles)
}

// RequireSessionAllowReset admits sessions flagged for a password reset, for
// the endpoints the reset dialog itself needs.
func (m *AuthMiddleware) RequireSessionAllowReset() gin.HandlerFunc {
	return m.guard(true, nil)
}

func (m *AuthMiddleware) guard(allowReset bool, roles []domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.tokenFrom(c)
		if token == "" {
			m.unauthorized(c, "authentication required")
			return
		}

		sess, err := m.sessions.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				slog.Debug("session rejected", "error", err, "path", c.Request.URL.Path)
				m.unauthorized(c, "session expired, please log in again")
				return
			}
			slog.Error("session check failed", "error", err, "request_id", RequestIDFrom(c))
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": backend.Message(err)})
			return
		}

		if len(roles) > 0 && !slices.Contains(roles, sess.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "this area is not available for your account"})
			return
		}

		if sess.MustResetPassword && !allowReset {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "password reset required",
				"code":  CodePasswordResetRequired,
			})
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

func (m *AuthMiddleware) tokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// unauthorized redirects browser navigations to the login page and answers
// API calls with 401 plus the redirect target.
func (m *AuthMiddleware) unauthorized(c *gin.Context, msg string) {
	c.SetCookie(m.cookieName, "", -1, "/", "", false, true)
	if wantsHTML(c.Request) {
		target := m.loginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		c.Redirect(http.StatusFound, target)
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "redirect": m.loginPath})
}

func wantsHTML(r *http.Request) bool {
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html")
}

// SessionFrom returns the session stored by the guard.
func SessionFrom(c *gin.Context) (*domain.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*domain.Session)
	return sess, ok
}
