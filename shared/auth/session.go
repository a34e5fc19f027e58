// Package auth checks the admin password and issues the signed session tokens
// that mark a browser as the authenticated admin.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// CookieName is the cookie the session token travels in.
	CookieName = "admin-session"

	adminSubject = "admin"
	issuer       = "markblog"
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrNotConfigured   = errors.New("admin password is not configured")
	ErrInvalidToken    = errors.New("invalid session token")
)

// Config holds the admin credentials and signing parameters.
// PasswordHash (bcrypt) takes precedence over the plain Password when both are set.
type Config struct {
	Password     string
	PasswordHash string
	Secret       string
	TTL          time.Duration
}

type claims struct {
	jwt.RegisteredClaims
}

// Authenticator verifies the admin password and signs/validates session tokens.
type Authenticator struct {
	password     []byte
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

func NewAuthenticator(cfg Config) (*Authenticator, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session secret cannot be empty")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", cfg.TTL)
	}

	return &Authenticator{
		password:     []byte(cfg.Password),
		passwordHash: []byte(cfg.PasswordHash),
		secret:       []byte(cfg.Secret),
		ttl:          cfg.TTL,
		now:          time.Now,
	}, nil
}

// TTL is how long an issued session stays valid.
func (a *Authenticator) TTL() time.Duration {
	return a.ttl
}

// CheckPassword compares password against the configured admin credentials.
func (a *Authenticator) CheckPassword(password string) error {
	if len(a.passwordHash) > 0 {
		if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
			return ErrInvalidPassword
		}
		return nil
	}

	if len(a.password) == 0 {
		return ErrNotConfigured
	}

	if subtle.ConstantTimeCompare(a.password, []byte(password)) != 1 {
		return ErrInvalidPassword
	}
	return nil
}

// Issue signs a new admin session token.
func (a *Authenticator) Issue() (string, error) {
	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminSubject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify reports whether token is a valid, unexpired admin session.
func (a *Authenticator) Verify(token string) error {
	if token == "" {
		return ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithSubject(adminSubject),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return ErrInvalidToken
	}

	return nil
}

// HashPassword produces a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
