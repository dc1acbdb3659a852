package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(st *memStore, now func() time.Time) *AuthService {
	sessions := NewSessionManager(st.Sessions(), DefaultSessionTTL, now)
	return NewAuthService(st.Users(), sessions, bcrypt.MinCost, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	st := newMemStore()
	svc := newTestAuth(st, nil)

	user, token, err := svc.Register(context.Background(), "  alice ", "secret1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("username = %q, want trimmed alice", user.Username)
	}
	if user.PasswordHash == "secret1" {
		t.Fatal("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	id, err := svc.Resolve(context.Background(), token)
	if err != nil || id == nil {
		t.Fatalf("Resolve(register token) = %+v, %v", id, err)
	}
	if id.ID != user.ID || id.Username != "alice" {
		t.Fatalf("identity = %+v, want alice/%d", id, user.ID)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuth(newMemStore(), nil)
	ctx := context.Background()

	cases := []struct {
		username, password string
		want               error
	}{
		{"", "secret1", ErrMissingCredentials},
		{"   ", "secret1", ErrMissingCredentials},
		{"alice", "", ErrMissingCredentials},
		{"alice", "12345", ErrPasswordTooShort},
	}
	for _, tc := range cases {
		if _, _, err := svc.Register(ctx, tc.username, tc.password); err != tc.want {
			t.Errorf("Register(%q, %q) error = %v, want %v", tc.username, tc.password, err, tc.want)
		}
	}

	if _, _, err := svc.Register(ctx, "alice", "123456"); err != nil {
		t.Errorf("six character password rejected: %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newTestAuth(newMemStore(), nil)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	if _, _, err := svc.Register(ctx, "alice", "another1"); err != ErrUsernameTaken {
		t.Fatalf("second Register error = %v, want ErrUsernameTaken", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc := newTestAuth(newMemStore(), nil)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, _, err := svc.Login(ctx, "alice", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "nobody", "secret1"); err != ErrInvalidCredentials {
		t.Errorf("unknown user error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "alice", ""); err != ErrMissingCredentials {
		t.Errorf("missing password error = %v, want ErrMissingCredentials", err)
	}

	user, token, err := svc.Login(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != registered.ID || token == "" {
		t.Fatalf("Login = %+v, %q", user, token)
	}
}

func TestAuthService_Login_PurgesExpiredSessions(t *testing.T) {
	st := newMemStore()
	clk := newClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	svc := newTestAuth(st, clk.Now)
	ctx := context.Background()

	_, stale, err := svc.Register(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	clk.Advance(DefaultSessionTTL + time.Second)
	if _, _, err := svc.Login(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if _, ok := st.sessions[stale]; ok {
		t.Fatal("expired session survived login")
	}
	if len(st.sessions) != 1 {
		t.Fatalf("%d sessions stored, want 1", len(st.sessions))
	}
}

func TestAuthService_MultipleSessions(t *testing.T) {
	svc := newTestAuth(newMemStore(), nil)
	ctx := context.Background()

	_, first, _ := svc.Register(ctx, "alice", "secret1")
	_, second, err := svc.Login(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	for _, tok := range []string{first, second} {
		if id, _ := svc.Resolve(ctx, tok); id == nil {
			t.Errorf("token %q does not resolve", tok)
		}
	}

	if err := svc.Logout(ctx, first); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if id, _ := svc.Resolve(ctx, first); id != nil {
		t.Error("logged out token still resolves")
	}
	if id, _ := svc.Resolve(ctx, second); id == nil {
		t.Error("logout ended the other session")
	}
}

func TestAuthService_ResolveAnonymous(t *testing.T) {
	svc := newTestAuth(newMemStore(), nil)

	id, err := svc.Resolve(context.Background(), "made-up")
	if id != nil || err != nil {
		t.Fatalf("Resolve(unknown) = %+v, %v; want nil, nil", id, err)
	}
}

func TestAuthService_StoreFailure(t *testing.T) {
	st := newMemStore()
	svc := newTestAuth(st, nil)
	st.failWith = errStoreDown

	_, _, err := svc.Login(context.Background(), "alice", "secret1")
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("Login error = %v, want wrapped store error", err)
	}
	var kinded *Error
	if errors.As(err, &kinded) {
		t.Fatalf("infrastructure error classified as %v", kinded.Kind)
	}
}
