// Package session keeps the signed-in user in client-side storage under a single key.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/garyjia/default-desk/internal/application/port"
	"github.com/garyjia/default-desk/internal/domain/entity"
	"go.uber.org/zap"
)

// DefaultKey is the storage key holding the current user
const DefaultKey = "currentUser"

// Store reads and writes the current user profile.
// Unreadable stored data is treated as signed out and never surfaces as an error.
type Store struct {
	kv     port.KeyValueStore
	key    string
	logger *zap.Logger
}

// NewStore creates a session store on top of kv
func NewStore(kv port.KeyValueStore, key string, logger *zap.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{kv: kv, key: key, logger: logger}
}

// SaveCurrentUser persists the full profile
func (s *Store) SaveCurrentUser(ctx context.Context, profile entity.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal user profile: %w", err)
	}

	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		return fmt.Errorf("failed to save current user: %w", err)
	}
	return nil
}

// CurrentUser returns the stored profile, or nil when nothing usable is stored
func (s *Store) CurrentUser(ctx context.Context) *entity.UserProfile {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("Failed to read session", zap.String("key", s.key), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}

	var profile entity.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		s.logger.Warn("Discarding corrupt session", zap.String("key", s.key), zap.Error(err))
		return nil
	}
	return &profile
}

// CurrentUserID returns the stored user id, or "" when signed out
func (s *Store) CurrentUserID(ctx context.Context) string {
	if profile := s.CurrentUser(ctx); profile != nil {
		return profile.UserID
	}
	return ""
}

// IsAuthenticated reports whether a user id is stored
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	return s.CurrentUserID(ctx) != ""
}

// ClearCurrentUser removes the stored profile
func (s *Store) ClearCurrentUser(ctx context.Context) error {
	if err := s.kv.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear current user: %w", err)
	}
	return nil
}
