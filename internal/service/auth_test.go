package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/ksc-recruitment/internal/domain"
)

const testSecret = "test-secret"

func newTestAuth(repo *fakeSubmissionRepo, identity fakeIdentity) (*AuthService, *testEnv) {
	env := newTestEnv(repo, newFakeSender(nil))
	return NewAuthService(identity, env.sessions, testSecret, time.Hour), env
}

func TestAuthService_LoginAndValidate(t *testing.T) {
	auth, env := newTestAuth(newFakeSubmissionRepo(), fakeIdentity{identity: testIdentity})

	login, err := auth.Login(context.Background(), "access-token")
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)
	assert.False(t, login.Session.AlreadySubmitted)

	claims, err := auth.ValidateToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, login.Session.ID, claims.SessionID)
	assert.Equal(t, testIdentity.Email, claims.Email)

	_, err = env.sessions.Get(context.Background(), claims.SessionID)
	assert.NoError(t, err)
}

func TestAuthService_LoginAlreadySubmitted(t *testing.T) {
	auth, _ := newTestAuth(newFakeSubmissionRepo(testIdentity.Email), fakeIdentity{identity: testIdentity})

	login, err := auth.Login(context.Background(), "access-token")
	require.NoError(t, err)
	assert.True(t, login.Session.AlreadySubmitted)
}

func TestAuthService_LoginErrors(t *testing.T) {
	providerErr := errors.New("provider down")

	tests := []struct {
		name     string
		identity fakeIdentity
		wantErr  error
	}{
		{name: "provider error", identity: fakeIdentity{err: providerErr}, wantErr: providerErr},
		{name: "unverified", identity: fakeIdentity{identity: domain.Identity{Email: "x@example.com"}}, wantErr: domain.ErrUnverifiedEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, _ := newTestAuth(newFakeSubmissionRepo(), tt.identity)
			_, err := auth.Login(context.Background(), "token")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_ValidateTokenRejects(t *testing.T) {
	auth, _ := newTestAuth(newFakeSubmissionRepo(), fakeIdentity{identity: testIdentity})

	sign := func(claims *Claims, secret string) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}
	valid := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "wrong secret", token: sign(&Claims{SessionID: "s", RegisteredClaims: valid}, "other")},
		{name: "no session", token: sign(&Claims{RegisteredClaims: valid}, testSecret)},
		{name: "expired", token: sign(&Claims{SessionID: "s", RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}}, testSecret)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.ValidateToken(tt.token)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	auth, env := newTestAuth(newFakeSubmissionRepo(), fakeIdentity{identity: testIdentity})
	ctx := context.Background()

	login, err := auth.Login(ctx, "token")
	require.NoError(t, err)
	require.NoError(t, auth.Logout(ctx, login.Session.ID))

	_, err = env.sessions.Get(ctx, login.Session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
