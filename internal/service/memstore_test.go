package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/hieptuanle/baby-tracker/internal/models"
	"github.com/hieptuanle/baby-tracker/internal/store"
)

// memStore is an in-memory store.Store for service tests.
type memStore struct {
	mu     sync.Mutex
	nextID uint

	users       map[uint]*models.User
	sessions    map[string]*models.Session
	pregnancies map[uint]*models.Pregnancy

	// failWith, when set, is returned by every call.
	failWith error
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[uint]*models.User),
		sessions:    make(map[string]*models.Session),
		pregnancies: make(map[uint]*models.Pregnancy),
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) Users() store.UserStore            { return memUsers{m} }
func (m *memStore) Sessions() store.SessionStore      { return memSessions{m} }
func (m *memStore) Pregnancies() store.PregnancyStore { return memPregnancies{m} }
func (m *memStore) Ping(context.Context) error        { return m.failWith }

type memUsers struct{ m *memStore }

func (u memUsers) Get(_ context.Context, id uint) (*models.User, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	if u.m.failWith != nil {
		return nil, u.m.failWith
	}
	user, ok := u.m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (u memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	if u.m.failWith != nil {
		return nil, u.m.failWith
	}
	for _, user := range u.m.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}

func (u memUsers) Create(_ context.Context, username, passwordHash string) (*models.User, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	if u.m.failWith != nil {
		return nil, u.m.failWith
	}
	for _, user := range u.m.users {
		if user.Username == username {
			return nil, store.ErrUniqueViolation
		}
	}
	user := &models.User{ID: u.m.id(), Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
	u.m.users[user.ID] = user
	clone := *user
	return &clone, nil
}

type memSessions struct{ m *memStore }

func (s memSessions) GetActive(_ context.Context, token string, now time.Time) (*models.Session, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.failWith != nil {
		return nil, s.m.failWith
	}
	sess, ok := s.m.sessions[token]
	if !ok || !now.Before(sess.ExpiresAt) {
		return nil, store.ErrNotFound
	}
	clone := *sess
	return &clone, nil
}

func (s memSessions) Create(_ context.Context, userID uint, token string, expiresAt time.Time) (*models.Session, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.failWith != nil {
		return nil, s.m.failWith
	}
	if _, dup := s.m.sessions[token]; dup {
		return nil, store.ErrUniqueViolation
	}
	sess := &models.Session{ID: s.m.id(), UserID: userID, Token: token, ExpiresAt: expiresAt}
	s.m.sessions[token] = sess
	clone := *sess
	return &clone, nil
}

func (s memSessions) Delete(_ context.Context, token string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.failWith != nil {
		return s.m.failWith
	}
	delete(s.m.sessions, token)
	return nil
}

func (s memSessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.failWith != nil {
		return 0, s.m.failWith
	}
	var n int64
	for token, sess := range s.m.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.m.sessions, token)
			n++
		}
	}
	return n, nil
}

type memPregnancies struct{ m *memStore }

func (p memPregnancies) Latest(_ context.Context, userID uint) (*models.Pregnancy, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	if p.m.failWith != nil {
		return nil, p.m.failWith
	}
	var rows []*models.Pregnancy
	for _, row := range p.m.pregnancies {
		if row.UserID == userID {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
	clone := *rows[0]
	return &clone, nil
}

func (p memPregnancies) Create(_ context.Context, row *models.Pregnancy) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	if p.m.failWith != nil {
		return p.m.failWith
	}
	row.ID = p.m.id()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}
	row.UpdatedAt = row.CreatedAt
	clone := *row
	p.m.pregnancies[row.ID] = &clone
	return nil
}

func (p memPregnancies) Update(_ context.Context, id uint, edd string, lmp *string, updatedAt time.Time) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	if p.m.failWith != nil {
		return p.m.failWith
	}
	row, ok := p.m.pregnancies[id]
	if !ok {
		return store.ErrNotFound
	}
	row.ExpectedDeliveryDate = edd
	row.LastMenstrualPeriod = lmp
	row.UpdatedAt = updatedAt
	return nil
}

func (p memPregnancies) Delete(_ context.Context, id uint) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	if p.m.failWith != nil {
		return p.m.failWith
	}
	if _, ok := p.m.pregnancies[id]; !ok {
		return store.ErrNotFound
	}
	delete(p.m.pregnancies, id)
	return nil
}

func (p memPregnancies) count(userID uint) int {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	n := 0
	for _, row := range p.m.pregnancies {
		if row.UserID == userID {
			n++
		}
	}
	return n
}

var errStoreDown = errors.New("database is locked")

// clock is a settable time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *clock { return &clock{t: t} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
