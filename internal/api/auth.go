package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kmoo25z/ameriduka/internal/session"
	"github.com/kmoo25z/ameriduka/pkg/enums"
	pkgerrors "github.com/kmoo25z/ameriduka/pkg/errors"
)

// UserRecord mirrors the backend's user payload.
type UserRecord struct {
	UserID        string         `json:"user_id"`
	Email         string         `json:"email"`
	Name          string         `json:"name"`
	Phone         string         `json:"phone"`
	Role          enums.UserRole `json:"role"`
	Picture       string         `json:"picture"`
	CreatedAt     time.Time      `json:"created_at"`
	LoyaltyPoints int            `json:"loyalty_points"`
}

type tokenResponse struct {
	Token string     `json:"token"`
	User  UserRecord `json:"user"`
}

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
}

// Register creates an account and begins the session with the issued token.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*UserRecord, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" || strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email, password and name are required")
	}

	var resp tokenResponse
	err := c.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   "/auth/register",
		body:   input,
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}

	c.sess.Begin(resp.Token, resp.User.sessionUser())
	return &resp.User, nil
}

// Login authenticates and begins the session with the issued token.
func (c *Client) Login(ctx context.Context, email, password string) (*UserRecord, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	var resp tokenResponse
	err := c.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": email, "password": password},
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}

	c.sess.Begin(resp.Token, resp.User.sessionUser())
	return &resp.User, nil
}

// Me fetches the identity behind the current token and backfills the session.
func (c *Client) Me(ctx context.Context) (*UserRecord, error) {
	var user UserRecord
	err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "/auth/me",
		out:    &user,
	})
	if err != nil {
		return nil, err
	}

	c.sess.SetUser(user.sessionUser())
	return &user, nil
}

// Logout tells the backend to drop the session, then ends it locally. The
// local teardown happens even when the call fails; the token is gone either
// way from the caller's point of view.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   "/auth/logout",
	})
	c.sess.End()
	return err
}

func (u UserRecord) sessionUser() session.User {
	return session.User{
		ID:            u.UserID,
		Email:         u.Email,
		Name:          u.Name,
		Phone:         u.Phone,
		Role:          u.Role,
		LoyaltyPoints: u.LoyaltyPoints,
	}
}
