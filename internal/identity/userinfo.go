// Package identity получает данные пользователя у OAuth провайдера.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/aidar/ksc-recruitment/internal/domain"
)

// UserInfoClient запрашивает userinfo эндпоинт провайдера с токеном доступа пользователя
type UserInfoClient struct {
	url     string
	timeout time.Duration
	base    *http.Client
}

// NewUserInfoClient создает клиент для userinfo эндпоинта
func NewUserInfoClient(url string, timeout time.Duration) *UserInfoClient {
	return &UserInfoClient{url: url, timeout: timeout}
}

// WithHTTPClient задает базовый HTTP клиент (прокси, тестовый сервер)
func (c *UserInfoClient) WithHTTPClient(client *http.Client) *UserInfoClient {
	c.base = client
	return c
}

type userInfo struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified bool   `json:"email_verified"`
}

// Fetch возвращает identity пользователя по токену доступа
func (c *UserInfoClient) Fetch(ctx context.Context, accessToken string) (domain.Identity, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if c.base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.base)
	}

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.Identity{}, domain.ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return domain.Identity{}, fmt.Errorf("userinfo request: unexpected status %d", resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return domain.Identity{}, fmt.Errorf("decode userinfo: %w", err)
	}

	email := strings.TrimSpace(info.Email)
	if email == "" {
		return domain.Identity{}, fmt.Errorf("%w: userinfo has no email", domain.ErrUnauthorized)
	}

	return domain.Identity{
		Email:    email,
		Name:     strings.TrimSpace(info.Name),
		Verified: info.EmailVerified,
	}, nil
}
