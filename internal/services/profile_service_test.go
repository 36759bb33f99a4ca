package services

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/racedaylabs/platform-service/internal/apperrors"
	"github.com/racedaylabs/platform-service/internal/cache"
	"github.com/racedaylabs/platform-service/internal/events"
	"github.com/racedaylabs/platform-service/internal/validator"
)

func newProfileFixture(t *testing.T) (*mockRepository, *cache.AuthStateCache, *events.MockEventPublisher, ProfileService) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := newMockRepository()
	authCache := cache.NewAuthStateCache(client)
	publisher := events.NewMockEventPublisher(testLogger())
	roleSvc := NewRoleService(repo, authCache, publisher, testLogger(), validator.New())
	svc := NewProfileService(repo, roleSvc, authCache, publisher, testLogger(), validator.New())

	return repo, authCache, publisher, svc
}

func organizerProfileRequest() *UpsertProfileRequest {
	return &UpsertProfileRequest{
		Phone:      strp("+34 600 000 000"),
		City:       strp("Madrid"),
		State:      strp("Madrid"),
		PostalCode: strp("28001"),
		Country:    strp("ES"),
	}
}

func strp(s string) *string { return &s }

func TestProfileGet_NoProfile(t *testing.T) {
	repo, _, _, svc := newProfileFixture(t)
	repo.addUser("u1", "Organizer", "org@example.com", "organizer")

	resp, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if resp.Profile != nil {
		t.Error("expected nil profile")
	}
	if resp.Status.HasProfile || resp.Status.IsComplete {
		t.Errorf("expected empty status, got %+v", resp.Status)
	}
	if !resp.Status.MustCompleteProfile {
		t.Error("organizer without profile must be gated")
	}
}

func TestProfileUpsert_CompletesOrganizer(t *testing.T) {
	repo, authCache, publisher, svc := newProfileFixture(t)
	repo.addUser("u1", "Organizer", "org@example.com", "organizer")
	ctx := context.Background()

	// Stale session projection that the write must drop.
	if err := authCache.Set(ctx, "sess-1", &cache.AuthState{UserID: "u1"}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	resp, err := svc.Upsert(ctx, "u1", organizerProfileRequest())
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if !resp.Status.HasProfile || !resp.Status.IsComplete {
		t.Errorf("organizer with basic contact should be complete, got %+v", resp.Status)
	}
	if resp.Status.MustCompleteProfile {
		t.Error("completion gate should clear")
	}

	if _, err := authCache.Get(ctx, "u1", "sess-1"); err != cache.ErrCacheNotFound {
		t.Errorf("cached session should be invalidated, got err=%v", err)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.TypeProfileUpserted {
		t.Fatalf("expected one profile upserted event, got %+v", published)
	}
	data := published[0].Data.(events.ProfileUpsertedEvent)
	if !data.IsComplete {
		t.Error("event should carry the completion flag")
	}
}

func TestProfileUpsert_IncompleteForAthlete(t *testing.T) {
	repo, _, _, svc := newProfileFixture(t)
	repo.addUser("u1", "Athlete", "ath@example.com", "athlete")

	// Basic contact only; the athlete role needs three more categories.
	resp, err := svc.Upsert(context.Background(), "u1", organizerProfileRequest())
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if resp.Status.IsComplete {
		t.Error("athlete with only basic contact must be incomplete")
	}
	if !resp.Status.MustCompleteProfile {
		t.Error("athlete must stay gated")
	}
	if len(resp.Status.MissingCategories) != 3 {
		t.Errorf("expected 3 missing categories, got %v", resp.Status.MissingCategories)
	}
}

func TestProfileUpsert_Invalid(t *testing.T) {
	repo, _, publisher, svc := newProfileFixture(t)
	repo.addUser("u1", "Athlete", "ath@example.com", "athlete")

	req := organizerProfileRequest()
	req.DateOfBirth = strp("not-a-date")

	_, err := svc.Upsert(context.Background(), "u1", req)
	if apperrors.CodeOf(err) != apperrors.CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if len(repo.profiles) != 0 {
		t.Error("invalid request must not persist")
	}
	if len(publisher.GetPublishedEvents()) != 0 {
		t.Error("invalid request must not publish")
	}
}

func TestProfileUpsert_InternalUserNeverGated(t *testing.T) {
	repo, _, _, svc := newProfileFixture(t)
	repo.addUser("u1", "Staff", "staff@example.com", "staff")

	resp, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if resp.Status.MustCompleteProfile {
		t.Error("internal user must never be gated")
	}
}
