package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/hieptuanle/baby-tracker/internal/models"
	"github.com/hieptuanle/baby-tracker/internal/store"
	"github.com/hieptuanle/baby-tracker/internal/util"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// Identity is the authenticated user attached to a request.
type Identity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// AuthService implements registration, login, logout and session lookup.
type AuthService struct {
	users      store.UserStore
	sessions   *SessionManager
	bcryptCost int
	log        zerolog.Logger
}

func NewAuthService(users store.UserStore, sessions *SessionManager, bcryptCost int, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

// Sessions exposes the underlying session manager.
func (s *AuthService) Sessions() *SessionManager {
	return s.sessions
}

// Register creates the user and logs them in, returning the session token.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	_, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, "", ErrUsernameTaken
	case !errors.Is(err, store.ErrNotFound):
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	hash, err := util.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.Create(ctx, username, hash)
	if errors.Is(err, store.ErrUniqueViolation) {
		return nil, "", ErrUsernameTaken
	}
	if err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login checks the credentials and opens a new session. Unknown usernames
// and wrong passwords both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	if !util.CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	if n, err := s.sessions.PurgeExpired(ctx); err != nil {
		s.log.Warn().Err(err).Msg("opportunistic session purge failed")
	} else if n > 0 {
		s.log.Debug().Int64("purged", n).Msg("expired sessions purged")
	}

	return user, token, nil
}

// Logout ends the session for token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Resolve maps a session token to the identity that owns it. A nil
// identity with a nil error means the request is anonymous.
func (s *AuthService) Resolve(ctx context.Context, token string) (*Identity, error) {
	session, err := s.sessions.Resolve(ctx, token)
	if err != nil || session == nil {
		return nil, err
	}

	user, err := s.users.Get(ctx, session.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}
	return &Identity{ID: user.ID, Username: user.Username}, nil
}
