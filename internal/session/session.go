package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"kontor/internal/api"
	"kontor/internal/log"
)

// StorageKey is the key the authentication record is persisted under.
const StorageKey = "auth"

// ErrNotFound is returned by Storage.Load for a missing key.
var ErrNotFound = errors.New("session: key not found")

// Storage persists small client-state records across runs.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// State is the persisted authentication record.
type State struct {
	Authenticated           bool     `json:"authenticated"`
	UserID                  int64    `json:"userId,omitempty"`
	Email                   string   `json:"email"`
	AccessToken             string   `json:"accessToken"`
	AccessTokenExpiredAfter string   `json:"accessTokenExpiredAfter"`
	RefreshToken            string   `json:"refreshToken"`
	Permissions             []string `json:"permissions,omitempty"`
}

// Session is the authentication context shared by all stores.
type Session struct {
	mu      sync.RWMutex
	state   State
	storage Storage
	logger  *log.Logger
}

// Open restores the session persisted in storage. A missing or unreadable
// record yields an unauthenticated session.
func Open(ctx context.Context, storage Storage, logger *log.Logger) (*Session, error) {
	if storage == nil {
		return nil, errors.New("session: storage is required")
	}
	s := &Session{
		storage: storage,
		logger:  log.OrDiscard(logger).WithComponent(log.ComponentSession),
	}

	raw, err := storage.Load(ctx, StorageKey)
	switch {
	case errors.Is(err, ErrNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("load session: %w", err)
	}

	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		s.logger.Warn("Discarding unreadable session record", log.FieldError, err.Error())
		return s, nil
	}
	if !st.Authenticated {
		st = State{}
	}
	s.state = st
	return s, nil
}

// IsAuthenticated reports whether a user is logged in.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Authenticated
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Permissions = append([]string(nil), s.state.Permissions...)
	return st
}

// Email returns the logged in user's e-mail, or "".
func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Email
}

// Credentials returns the bearer credentials of the current user, or false
// when the session is not authenticated.
func (s *Session) Credentials() (api.Credentials, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.state.Authenticated {
		return nil, false
	}
	return api.Bearer(s.state.AccessToken), true
}

// SetAuthenticated stores a successful login and persists it.
func (s *Session) SetAuthenticated(ctx context.Context, email string, auth api.AuthResponse) error {
	st := State{
		Authenticated:           true,
		UserID:                  int64(auth.UserID),
		Email:                   email,
		AccessToken:             auth.AccessToken,
		AccessTokenExpiredAfter: auth.AccessTokenExpiredAfter,
		RefreshToken:            auth.RefreshToken,
		Permissions:             append([]string(nil), auth.Permissions...),
	}
	return s.replace(ctx, st)
}

// SetNotAuthenticated clears every credential and persists the cleared state.
func (s *Session) SetNotAuthenticated(ctx context.Context) error {
	return s.replace(ctx, State{})
}

func (s *Session) replace(ctx context.Context, st State) error {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.storage.Save(ctx, StorageKey, raw); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist session", log.FieldError, err.Error())
		return fmt.Errorf("save session: %w", err)
	}
	s.logger.DebugContext(ctx, "Session updated", "authenticated", st.Authenticated)
	return nil
}
