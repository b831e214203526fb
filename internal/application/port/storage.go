package port

import (
	"context"

	"github.com/garyjia/default-desk/internal/domain/entity"
)

// KeyValueStore persists small string values on the client side.
// Get reports ok=false for a missing key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// SessionStore exposes the signed-in user to services
type SessionStore interface {
	CurrentUser(ctx context.Context) *entity.UserProfile
	CurrentUserID(ctx context.Context) string
	SaveCurrentUser(ctx context.Context, profile entity.UserProfile) error
	ClearCurrentUser(ctx context.Context) error
}
