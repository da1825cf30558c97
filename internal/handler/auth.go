// internal/handler/auth.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"luckydraw-crm/internal/domain"
)

type LoginRequest struct {
	Role     domain.Role `json:"role" validate:"required,oneof=promoter customer"`
	Phone    string      `json:"phone" validate:"required,phone"`
	Password string      `json:"password" validate:"required,notblank"`
}

type ResetPasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required,notblank"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

type sessionResponse struct {
	Authenticated     bool        `json:"authenticated"`
	Role              domain.Role `json:"role,omitempty"`
	UserID            string      `json:"userId,omitempty"`
	MustResetPassword bool        `json:"mustResetPassword"`
	Token             string      `json:"token,omitempty"`
}

// Login godoc
// @Summary Log a promoter or customer in
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bind(c, &req) {
		return
	}

	sess, token, err := h.sessions.Login(c.Request.Context(), req.Role, req.Phone, req.Password)
	if err != nil {
		respondError(c, "login", err)
		return
	}

	maxAge := int(sess.ExpiresAt.Sub(sess.CreatedAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, maxAge, "/", "", h.cookie.Secure, true)

	slog.Info("login succeeded", "role", sess.Role, "user_id", sess.UserID, "must_reset", sess.MustResetPassword)
	c.JSON(http.StatusOK, sessionResponse{
		Authenticated:     true,
		Role:              sess.Role,
		UserID:            sess.UserID,
		MustResetPassword: sess.MustResetPassword,
		Token:             token,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	if err := h.sessions.Logout(c.Request.Context(), sess.ID); err != nil {
		respondError(c, "logout", err)
		return
	}
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.Status(http.StatusNoContent)
}

// Session lets the client decide between the app and the login page.
func (h *Handler) Session(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse{
		Authenticated:     true,
		Role:              sess.Role,
		UserID:            sess.UserID,
		MustResetPassword: sess.MustResetPassword,
	})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req ResetPasswordRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.sessions.ResetPassword(c.Request.Context(), sess, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, "reset password", err)
		return
	}
	slog.Info("password reset", "role", sess.Role, "user_id", sess.UserID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
