package restclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login выполняет POST /auth/login и возвращает access_token.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (string, error) {
	const op = "restclient.Login"

	var resp tokenResponse
	if err := c.post(ctx, "/auth/login", creds, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("%s: %w", op, ErrNoToken)
	}
	return resp.AccessToken, nil
}

// Me выполняет GET /auth/me. Непустой token передаётся явно и имеет
// приоритет над токеном сессии.
func (c *Client) Me(ctx context.Context, token string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me", token: token}, &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Register выполняет POST /auth/register.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.post(ctx, "/auth/register", req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ForgotPassword выполняет POST /auth/forgot-password.
func (c *Client) ForgotPassword(ctx context.Context, req models.PasswordResetRequest) (*models.Message, error) {
	var msg models.Message
	if err := c.post(ctx, "/auth/forgot-password", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ResetPassword выполняет POST /auth/reset-password.
func (c *Client) ResetPassword(ctx context.Context, req models.PasswordResetConfirm) (*models.Message, error) {
	var msg models.Message
	if err := c.post(ctx, "/auth/reset-password", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ChangePassword выполняет POST /auth/change-password.
func (c *Client) ChangePassword(ctx context.Context, req models.PasswordChange) (*models.Message, error) {
	var msg models.Message
	if err := c.post(ctx, "/auth/change-password", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
