package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoSessionID is returned when revoking a session that carries no id.
var ErrNoSessionID = errors.New("session id is required")

// SessionStore keeps server-side session state: revoked session ids and the
// tenant an admin has selected.
type SessionStore struct {
	store Store
}

// NewSessionStore creates a SessionStore.
func NewSessionStore(store Store) *SessionStore {
	return &SessionStore{store: store}
}

func revokedKey(sessionID string) string {
	return fmt.Sprintf("session:revoked:%s", sessionID)
}

func selectedTenantKey(userID string) string {
	return fmt.Sprintf("tenant:selected:%s", userID)
}

// Revoke marks sessionID as signed out until ttl elapses (the token's remaining lifetime).
func (s *SessionStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if sessionID == "" {
		return ErrNoSessionID
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return s.store.Set(ctx, revokedKey(sessionID), "1", ttl)
}

// IsRevoked reports whether sessionID was signed out.
func (s *SessionStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	return s.store.Exists(ctx, revokedKey(sessionID))
}

// SelectedTenant returns the tenant id an admin last switched to, or "".
func (s *SessionStore) SelectedTenant(ctx context.Context, userID string) (string, error) {
	v, err := s.store.Get(ctx, selectedTenantKey(userID))
	if errors.Is(err, ErrCacheMiss) {
		return "", nil
	}
	return v, err
}

// SelectTenant persists the admin's tenant choice. An empty tenantID clears it.
func (s *SessionStore) SelectTenant(ctx context.Context, userID, tenantID string) error {
	if tenantID == "" {
		return s.store.Delete(ctx, selectedTenantKey(userID))
	}
	return s.store.Set(ctx, selectedTenantKey(userID), tenantID, 0)
}

// ClearSession drops all state of userID on sign-out.
func (s *SessionStore) ClearSession(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, selectedTenantKey(userID))
}
