package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestAuthenticator(t *testing.T, cfg Config) *Authenticator {
	t.Helper()
	if cfg.Secret == "" {
		cfg.Secret = "test-secret"
	}
	if cfg.TTL == 0 {
		cfg.TTL = time.Hour
	}

	a, err := NewAuthenticator(cfg)
	if err != nil {
		t.Fatalf("NewAuthenticator() error = %v", err)
	}
	return a
}

func TestNewAuthenticator_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "Missing secret", cfg: Config{TTL: time.Hour}},
		{name: "Zero ttl", cfg: Config{Secret: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewAuthenticator(tt.cfg); err == nil {
				t.Error("NewAuthenticator() expected error, got nil")
			}
		})
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		cfg      Config
		password string
		wantErr  error
	}{
		{name: "Plain match", cfg: Config{Password: "hunter2"}, password: "hunter2"},
		{name: "Plain mismatch", cfg: Config{Password: "hunter2"}, password: "hunter3", wantErr: ErrInvalidPassword},
		{name: "Hash match", cfg: Config{PasswordHash: hash}, password: "hunter2"},
		{name: "Hash wins over plain", cfg: Config{Password: "other", PasswordHash: hash}, password: "other", wantErr: ErrInvalidPassword},
		{name: "Nothing configured", cfg: Config{}, password: "", wantErr: ErrNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAuthenticator(t, tt.cfg)
			err := a.CheckPassword(tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckPassword() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIssueAndVerify(t *testing.T) {
	a := newTestAuthenticator(t, Config{Password: "pw"})

	token, err := a.Issue()
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if err := a.Verify(token); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

func TestVerify_Rejects(t *testing.T) {
	a := newTestAuthenticator(t, Config{Password: "pw"})
	token, err := a.Issue()
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	other := newTestAuthenticator(t, Config{Password: "pw", Secret: "different-secret"})

	expired := newTestAuthenticator(t, Config{Password: "pw"})
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	tests := []struct {
		name  string
		a     *Authenticator
		token string
	}{
		{name: "Empty token", a: a, token: ""},
		{name: "Garbage", a: a, token: "authenticated"},
		{name: "Wrong secret", a: other, token: token},
		{name: "Expired", a: expired, token: token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.a.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
