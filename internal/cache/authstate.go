package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/racedaylabs/platform-service/internal/profiles"
	"github.com/racedaylabs/platform-service/internal/roles"
)

// AuthState is the session-projected derived auth state: computed once per
// session from role rows and the profile, then cached until a role or profile
// change invalidates it. IntendedRoute records the first gated route of the
// current enforcement episode and is not re-captured while the gate is active.
type AuthState struct {
	UserID        string           `json:"user_id"`
	Resolution    roles.Resolution `json:"resolution"`
	ProfileStatus profiles.Status  `json:"profile_status"`
	IntendedRoute string           `json:"intended_route,omitempty"`
}

// AuthStateCache stores AuthState entries keyed by (user id, session id).
// Keys embed the user id first so a role or profile change can drop every
// session of that user with one pattern invalidation.
type AuthStateCache struct {
	helper *Helper
}

func NewAuthStateCache(client *redis.Client) *AuthStateCache {
	return &AuthStateCache{helper: NewHelper(client, AuthStateCacheConfig.Prefix)}
}

func sessionKey(userID, sessionID string) string {
	return fmt.Sprintf("%s:%s", userID, sessionID)
}

// Get returns the cached state for a session, or ErrCacheNotFound.
func (c *AuthStateCache) Get(ctx context.Context, userID, sessionID string) (*AuthState, error) {
	var state AuthState
	if err := c.helper.Get(ctx, sessionKey(userID, sessionID), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Set stores the state for a session.
func (c *AuthStateCache) Set(ctx context.Context, sessionID string, state *AuthState) error {
	return c.helper.Set(ctx, sessionKey(state.UserID, sessionID), state, AuthStateCacheConfig.TTL)
}

// InvalidateUser drops every cached session projection of one user. Called on
// role replacement and profile upsert.
func (c *AuthStateCache) InvalidateUser(ctx context.Context, userID string) error {
	return c.helper.InvalidatePattern(ctx, userID+":*")
}
