package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/racedaylabs/platform-service/internal/roles"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestAuthStateCache_RoundTrip(t *testing.T) {
	c := NewAuthStateCache(newTestRedis(t))
	ctx := context.Background()

	state := &AuthState{
		UserID:        "user-1",
		Resolution:    roles.Resolve([]string{"athlete"}),
		IntendedRoute: "/me/dashboard",
	}
	if err := c.Set(ctx, "sess-a", state); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := c.Get(ctx, "user-1", "sess-a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UserID != "user-1" || got.IntendedRoute != "/me/dashboard" {
		t.Errorf("got %+v", got)
	}
	if !got.Resolution.HasRole(roles.ExternalAthlete) {
		t.Errorf("resolution lost in round trip: %+v", got.Resolution)
	}
}

func TestAuthStateCache_MissReturnsNotFound(t *testing.T) {
	c := NewAuthStateCache(newTestRedis(t))

	if _, err := c.Get(context.Background(), "user-1", "sess-missing"); err != ErrCacheNotFound {
		t.Errorf("err = %v, want ErrCacheNotFound", err)
	}
}

func TestAuthStateCache_InvalidateUserDropsAllSessions(t *testing.T) {
	c := NewAuthStateCache(newTestRedis(t))
	ctx := context.Background()

	for _, sess := range []string{"sess-a", "sess-b"} {
		if err := c.Set(ctx, sess, &AuthState{UserID: "user-1"}); err != nil {
			t.Fatalf("Set %s: %v", sess, err)
		}
	}
	if err := c.Set(ctx, "sess-c", &AuthState{UserID: "user-2"}); err != nil {
		t.Fatalf("Set other user: %v", err)
	}

	if err := c.InvalidateUser(ctx, "user-1"); err != nil {
		t.Fatalf("InvalidateUser: %v", err)
	}

	if _, err := c.Get(ctx, "user-1", "sess-a"); err != ErrCacheNotFound {
		t.Errorf("sess-a err = %v, want ErrCacheNotFound", err)
	}
	if _, err := c.Get(ctx, "user-1", "sess-b"); err != ErrCacheNotFound {
		t.Errorf("sess-b err = %v, want ErrCacheNotFound", err)
	}
	// Other users keep their projections.
	if _, err := c.Get(ctx, "user-2", "sess-c"); err != nil {
		t.Errorf("user-2 projection dropped: %v", err)
	}
}

func TestHelper_NilClientDegradesGracefully(t *testing.T) {
	h := NewHelper(nil, "test:")
	ctx := context.Background()

	if err := h.Set(ctx, "k", "v", 0); err != nil {
		t.Errorf("Set with nil client: %v", err)
	}
	var dest string
	if err := h.Get(ctx, "k", &dest); err != ErrCacheNotAvailable {
		t.Errorf("Get err = %v, want ErrCacheNotAvailable", err)
	}
	if err := h.InvalidatePattern(ctx, "*"); err != nil {
		t.Errorf("InvalidatePattern with nil client: %v", err)
	}
}
