package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aidar/ksc-recruitment/internal/domain"
)

// IdentityProvider возвращает данные пользователя по токену доступа провайдера
type IdentityProvider interface {
	Fetch(ctx context.Context, accessToken string) (domain.Identity, error)
}

// Claims represents JWT claims
type Claims struct {
	SessionID string `json:"session_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	jwt.RegisteredClaims
}

// LoginResult содержит выпущенный токен и стартовое состояние сессии
type LoginResult struct {
	Token   string
	Session *domain.Session
}

// AuthService handles authentication and JWT operations
type AuthService struct {
	identity  IdentityProvider
	sessions  *SessionService
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(identity IdentityProvider, sessions *SessionService, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		identity:  identity,
		sessions:  sessions,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// Login exchanges an identity provider access token for a session token
func (s *AuthService) Login(ctx context.Context, accessToken string) (*LoginResult, error) {
	identity, err := s.identity.Fetch(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if !identity.Verified {
		return nil, domain.ErrUnverifiedEmail
	}

	// Start session; duplicate check happens exactly once here
	session, err := s.sessions.Start(ctx, identity)
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(session)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, Session: session}, nil
}

func (s *AuthService) issueToken(session *domain.Session) (string, error) {
	now := time.Now()
	expiresAt := now.Add(s.jwtExpiry)
	if !session.ExpiresAt.IsZero() {
		expiresAt = session.ExpiresAt
	}
	claims := &Claims{
		SessionID: session.ID,
		Email:     session.Identity.Email,
		Name:      session.Identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.Identity.Email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}

// Logout ends the session behind the token
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.End(ctx, sessionID)
}
