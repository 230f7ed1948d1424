package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/ksc-recruitment/internal/mailer"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func ok(context.Context) error { return nil }

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		storage    pingFunc
		wantStatus int
		wantBody   string
	}{
		{name: "healthy", storage: ok, wantStatus: http.StatusOK, wantBody: `"ok"`},
		{name: "storage down", storage: func(context.Context) error { return errors.New("down") }, wantStatus: http.StatusServiceUnavailable, wantBody: `"unavailable"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.storage, pingFunc(ok))
			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestMailCheck(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantOK      bool
		wantMessage string
	}{
		{name: "connected", wantOK: true, wantMessage: "Email connection successful"},
		{name: "disabled", err: mailer.ErrDisabled, wantMessage: "not configured"},
		{name: "auth", err: fmt.Errorf("%w: 535 bad credentials", mailer.ErrAuthFailed), wantMessage: "Authentication failed"},
		{name: "network", err: errors.New("connection refused"), wantMessage: "Connection test failed: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(pingFunc(ok), pingFunc(func(context.Context) error { return tt.err }))
			rec := httptest.NewRecorder()
			h.MailCheck(rec, httptest.NewRequest(http.MethodGet, "/health/mail", nil))

			var resp MailCheckResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantOK, resp.OK)
			assert.Contains(t, resp.Message, tt.wantMessage)
			if tt.wantOK {
				assert.Equal(t, http.StatusOK, rec.Code)
			} else {
				assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
			}
		})
	}
}
