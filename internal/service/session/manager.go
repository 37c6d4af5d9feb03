// Package session keeps the gateway's own login sessions and the guards
// that protect the admin and user areas.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-portal/internal/domain/models"
	"github.com/mamadbah2/inventory-portal/internal/domain/normalize"
	"github.com/mamadbah2/inventory-portal/internal/validation"
)

var (
	// ErrUnauthenticated is returned for missing, unknown or expired tokens.
	ErrUnauthenticated = errors.New("not logged in")
	// ErrForbidden is returned when the session role may not enter an area.
	ErrForbidden = errors.New("access denied")
)

// Authenticator checks credentials against the backend.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (normalize.Raw, error)
}

// Manager holds live sessions keyed by token. Sessions expire after ttl
// without activity.
type Manager struct {
	auth      Authenticator
	validator *validation.Validator
	ttl       time.Duration
	now       func() time.Time
	logger    *zap.Logger

	mu       sync.RWMutex
	sessions map[string]models.Session
	onExpire []func(token string)
}

// NewManager creates a session manager.
func NewManager(auth Authenticator, ttl time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Manager{
		auth:      auth,
		validator: validation.New(),
		ttl:       ttl,
		now:       time.Now,
		logger:    logger,
		sessions:  make(map[string]models.Session),
	}
}

// OnExpire registers fn to run whenever a session ends, by logout or expiry.
func (m *Manager) OnExpire(fn func(token string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpire = append(m.onExpire, fn)
}

// Login validates the credentials, checks them against the backend and
// opens a session for the returned user.
func (m *Manager) Login(ctx context.Context, req models.LoginRequest) (models.Session, error) {
	if err := m.validator.Login(req).Err(); err != nil {
		return models.Session{}, err
	}

	raw, err := m.auth.Login(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		m.logger.Info("login rejected", zap.String("email", req.Email), zap.Error(err))
		return models.Session{}, fmt.Errorf("login: %w", err)
	}

	u := normalize.User(raw)
	now := m.now()
	s := models.Session{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Workplace: workplace(u),
		CreatedAt: now,
		LastSeen:  now,
	}
	if s.Email == "" {
		s.Email = strings.TrimSpace(req.Email)
	}

	m.mu.Lock()
	m.sessions[s.Token] = s
	m.mu.Unlock()

	m.logger.Info("session opened", zap.String("user_id", s.UserID), zap.String("role", string(s.Role)))
	return s, nil
}

func workplace(u models.User) string {
	switch u.Role {
	case models.RoleTeacher:
		return u.Department
	case models.RoleStaff:
		return u.Office
	}
	if u.Department != "" {
		return u.Department
	}
	return u.Office
}

// Get returns the session of token and refreshes its idle timer.
func (m *Manager) Get(token string) (models.Session, error) {
	if token == "" {
		return models.Session{}, ErrUnauthenticated
	}
	now := m.now()

	m.mu.Lock()
	s, ok := m.sessions[token]
	if ok && now.Sub(s.LastSeen) > m.ttl {
		delete(m.sessions, token)
		m.mu.Unlock()
		m.expired(token)
		return models.Session{}, ErrUnauthenticated
	}
	if ok {
		s.LastSeen = now
		m.sessions[token] = s
	}
	m.mu.Unlock()

	if !ok {
		return models.Session{}, ErrUnauthenticated
	}
	return s, nil
}

// Logout ends the session of token.
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	_, ok := m.sessions[token]
	delete(m.sessions, token)
	m.mu.Unlock()
	if ok {
		m.expired(token)
	}
}

// Sweep drops every idle session and reports how many were removed.
func (m *Manager) Sweep() int {
	now := m.now()
	var stale []string

	m.mu.Lock()
	for token, s := range m.sessions {
		if now.Sub(s.LastSeen) > m.ttl {
			stale = append(stale, token)
			delete(m.sessions, token)
		}
	}
	m.mu.Unlock()

	for _, token := range stale {
		m.expired(token)
	}
	if len(stale) > 0 {
		m.logger.Info("expired sessions swept", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) expired(token string) {
	m.mu.RLock()
	hooks := append([]func(string){}, m.onExpire...)
	m.mu.RUnlock()
	for _, fn := range hooks {
		fn(token)
	}
}
