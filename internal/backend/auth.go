// internal/backend/auth.go
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"luckydraw-crm/internal/domain"
)

type Credentials struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginResult is what the backend hands back on a successful login.
type LoginResult struct {
	Token             string `json:"token"`
	UserID            string `json:"userId"`
	Name              string `json:"name,omitempty"`
	MustResetPassword bool   `json:"mustResetPassword"`
}

// Verification is the backend's opinion of a token.
type Verification struct {
	Valid             bool        `json:"valid"`
	Role              domain.Role `json:"role"`
	UserID            string      `json:"userId"`
	MustResetPassword bool        `json:"mustResetPassword"`
}

func (c *Client) Login(ctx context.Context, role domain.Role, creds Credentials) (*LoginResult, error) {
	var path string
	switch role {
	case domain.RolePromoter:
		path = "/auth/promoter/login"
	case domain.RoleCustomer:
		path = "/auth/customer/login"
	default:
		return nil, fmt.Errorf("login: unknown role %q", role)
	}
	res, err := sendData[LoginResult](ctx, c, http.MethodPost, "", path, creds)
	if err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, &APIError{Status: http.StatusBadGateway, Message: "login response carried no token"}
	}
	return &res, nil
}

// Verify reports whether token is still accepted. A 401 is a normal
// "not valid" answer, not an error.
func (c *Client) Verify(ctx context.Context, token string) (*Verification, error) {
	v, err := getData[Verification](ctx, c, token, "/auth/verify", nil)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return &Verification{Valid: false}, nil
		}
		return nil, err
	}
	return &v, nil
}

func (c *Client) ResetPassword(ctx context.Context, token, current, next string) error {
	return c.do(ctx, http.MethodPost, token, "/auth/reset-password", struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}{current, next}, nil)
}
