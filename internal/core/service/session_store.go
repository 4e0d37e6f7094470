package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/forestplants/storefront/internal/core/domain"
	"github.com/forestplants/storefront/internal/core/ports"
)

// SessionStore holds the credential and profile of the signed-in shopper.
// Both are present together or absent together, in memory and in storage.
type SessionStore struct {
	storage ports.Storage
	api     ports.APIClient
	log     zerolog.Logger

	mu         sync.RWMutex
	credential string
	profile    *domain.UserProfile
}

var _ ports.SessionService = (*SessionStore)(nil)

// NewSessionStore restores the session from storage, discarding corrupt or
// half-written state.
func NewSessionStore(storage ports.Storage, api ports.APIClient, log zerolog.Logger) *SessionStore {
	s := &SessionStore{storage: storage, api: api, log: log}
	s.bootstrap()
	return s
}

func (s *SessionStore) bootstrap() {
	var profile *domain.UserProfile
	if raw, ok := s.storage.Get(domain.StorageKeyUser); ok && raw != "" && raw != "null" {
		var p domain.UserProfile
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			s.log.Warn().Err(err).Msg("persisted user is corrupt, clearing session")
			s.storage.Remove(domain.StorageKeyUser)
			s.storage.Remove(domain.StorageKeyToken)
			return
		}
		profile = &p
	}
	token, _ := s.storage.Get(domain.StorageKeyToken)

	switch {
	case token != "" && profile == nil:
		s.log.Warn().Msg("persisted token without user, clearing token")
		s.storage.Remove(domain.StorageKeyToken)
		token = ""
	case profile != nil && token == "":
		s.log.Warn().Msg("persisted user without token, clearing user")
		s.storage.Remove(domain.StorageKeyUser)
		profile = nil
	}

	s.credential = token
	s.profile = profile
}

// IsLoggedIn reports whether both a credential and a profile are held.
func (s *SessionStore) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential != "" && s.profile != nil
}

// IsAdmin reports whether the profile carries the admin role.
func (s *SessionStore) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile.IsAdmin()
}

// Role returns the profile role, or "" without a profile.
func (s *SessionStore) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return ""
	}
	return s.profile.Role
}

func (s *SessionStore) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// Profile returns a copy of the current profile, or nil.
func (s *SessionStore) Profile() *domain.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// SetSession replaces credential and profile. An empty credential or a nil
// profile removes the corresponding persisted entry.
func (s *SessionStore) SetSession(credential string, profile *domain.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(credential, profile)
}

func (s *SessionStore) setLocked(credential string, profile *domain.UserProfile) {
	if profile != nil {
		p := *profile
		profile = &p
	}
	s.credential = credential
	s.profile = profile

	if credential != "" {
		s.storage.Set(domain.StorageKeyToken, credential)
	} else {
		s.storage.Remove(domain.StorageKeyToken)
	}
	s.persistProfileLocked()
}

func (s *SessionStore) persistProfileLocked() {
	if s.profile == nil {
		s.storage.Remove(domain.StorageKeyUser)
		return
	}
	raw, err := json.Marshal(s.profile)
	if err != nil {
		s.log.Error().Err(err).Msg("encode user profile")
		return
	}
	s.storage.Set(domain.StorageKeyUser, string(raw))
}

// Logout clears the session.
func (s *SessionStore) Logout() {
	s.SetSession("", nil)
}

// RefreshProfile reloads the profile from GET /auth/me. The answer is
// dropped with ErrNotLoggedIn when the session ended or changed while the
// request was in flight.
func (s *SessionStore) RefreshProfile(ctx context.Context) (*domain.UserProfile, error) {
	credential := s.Credential()
	if credential == "" {
		return nil, fmt.Errorf("refresh profile: %w", domain.ErrNotLoggedIn)
	}

	resp, err := s.api.Get(ctx, "/auth/me")
	if err != nil {
		return nil, fmt.Errorf("refresh profile: %w", err)
	}
	var p domain.UserProfile
	if err := resp.DecodeData(&p); err != nil {
		return nil, fmt.Errorf("refresh profile: %w", err)
	}

	s.mu.Lock()
	if s.credential == "" || s.credential != credential {
		s.mu.Unlock()
		return nil, fmt.Errorf("refresh profile: %w", domain.ErrNotLoggedIn)
	}
	s.profile = &p
	s.persistProfileLocked()
	s.mu.Unlock()

	return s.Profile(), nil
}

type authPayload struct {
	Token string              `json:"token"`
	User  *domain.UserProfile `json:"user"`
}

// Login authenticates against POST /auth/login and stores the session.
func (s *SessionStore) Login(ctx context.Context, email, password string) (*domain.UserProfile, error) {
	resp, err := s.api.Post(ctx, "/auth/login", map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return s.acceptAuth(resp, "login")
}

// Register creates an account through POST /auth/register and stores the
// returned session.
func (s *SessionStore) Register(ctx context.Context, in ports.RegisterInput) (*domain.UserProfile, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	resp, err := s.api.Post(ctx, "/auth/register", in)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return s.acceptAuth(resp, "register")
}

func (s *SessionStore) acceptAuth(resp *ports.Response, op string) (*domain.UserProfile, error) {
	var payload authPayload
	if err := resp.DecodeData(&payload); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if payload.Token == "" || payload.User == nil {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrEmptyEnvelope)
	}
	s.SetSession(payload.Token, payload.User)
	s.log.Info().Str("user_id", payload.User.ID.String()).Str("role", payload.User.Role).Msg("signed in")
	return s.Profile(), nil
}
