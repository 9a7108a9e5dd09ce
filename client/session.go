package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Profile is the session's view of the signed-in user.
type Profile struct {
	ID            string `json:"id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	AccountStatus string `json:"account_status"`
	AvatarURL     string `json:"avatar_url,omitempty"`
}

// SessionStore owns the authentication state: the access token, the cached
// profile, and the role. State is hydrated from storage at construction, so a
// restarted process resumes its session.
type SessionStore struct {
	client  *Client
	storage Storage

	mu      sync.RWMutex
	token   string
	profile *Profile
}

func NewSessionStore(client *Client, storage Storage) *SessionStore {
	s := &SessionStore{
		client:  client,
		storage: storage,
	}
	s.hydrate()
	return s
}

func (s *SessionStore) hydrate() {
	token, err := s.storage.Get(KeyAccessToken)
	if err != nil || token == "" {
		return
	}
	s.token = token

	if raw, err := s.storage.Get(KeyUserInfo); err == nil {
		var profile Profile
		if err := json.Unmarshal([]byte(raw), &profile); err == nil {
			s.profile = &profile
		}
	}
}

type loginResponse struct {
	AccessToken   string  `json:"access_token"`
	TokenType     string  `json:"token_type"`
	Role          string  `json:"role"`
	AccountStatus string  `json:"account_status"`
	User          Profile `json:"user"`
}

// LoginWithPassword authenticates against the API and establishes the session.
func (s *SessionStore) LoginWithPassword(ctx context.Context, email, password string) (Profile, error) {
	var resp loginResponse
	err := s.client.Post(ctx, "/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return Profile{}, err
	}

	if err := s.Login(ctx, resp.AccessToken, &resp.User); err != nil {
		return Profile{}, err
	}
	return resp.User, nil
}

// Login establishes a session from a token. When profile is nil the current
// user is fetched from the API; a fetch failure leaves the session logged out.
func (s *SessionStore) Login(ctx context.Context, token string, profile *Profile) error {
	if err := s.storage.Set(KeyAccessToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if profile == nil {
		_, err := s.FetchCurrentUser(ctx)
		return err
	}

	return s.storeProfile(*profile)
}

// Logout clears all session state. It is idempotent: logging out twice is a
// no-op the second time.
func (s *SessionStore) Logout() {
	s.mu.Lock()
	s.token = ""
	s.profile = nil
	s.mu.Unlock()

	clearSession(s.storage)
}

// FetchCurrentUser refreshes the cached profile from the API. Any failure
// tears the session down so stale credentials never linger.
func (s *SessionStore) FetchCurrentUser(ctx context.Context) (Profile, error) {
	var resp struct {
		User Profile `json:"user"`
	}
	if err := s.client.Get(ctx, "/users/me", &resp); err != nil {
		s.Logout()
		return Profile{}, err
	}

	if err := s.storeProfile(resp.User); err != nil {
		return Profile{}, err
	}
	return resp.User, nil
}

// IsAuthenticated reports whether a session token is present. It makes no
// claim about the token still being accepted server-side.
func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// CurrentUser returns the cached profile, if any.
func (s *SessionStore) CurrentUser() (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return Profile{}, false
	}
	return *s.profile, true
}

// Role returns the session role, falling back to storage when the profile
// cache is cold.
func (s *SessionStore) Role() string {
	s.mu.RLock()
	if s.profile != nil {
		role := s.profile.Role
		s.mu.RUnlock()
		return role
	}
	s.mu.RUnlock()

	role, err := s.storage.Get(KeyUserRole)
	if err != nil {
		return ""
	}
	return role
}

func (s *SessionStore) storeProfile(profile Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.storage.Set(KeyUserInfo, string(raw)); err != nil {
		return fmt.Errorf("persist profile: %w", err)
	}
	if err := s.storage.Set(KeyUserRole, profile.Role); err != nil {
		return fmt.Errorf("persist role: %w", err)
	}

	s.mu.Lock()
	s.profile = &profile
	s.mu.Unlock()
	return nil
}
