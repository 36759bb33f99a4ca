package services

import (
	"context"
	"testing"

	"github.com/racedaylabs/platform-service/internal/cache"
	"github.com/racedaylabs/platform-service/internal/events"
	"github.com/racedaylabs/platform-service/internal/roles"
	"github.com/racedaylabs/platform-service/internal/validator"
)

func newDashboardFixture() (*mockRepository, DashboardService) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	authCache := cache.NewAuthStateCache(nil)
	roleSvc := NewRoleService(repo, authCache, publisher, testLogger(), validator.New())
	profileSvc := NewProfileService(repo, roleSvc, authCache, publisher, testLogger(), validator.New())
	return repo, NewDashboardService(repo, roleSvc, profileSvc, testLogger())
}

func TestAdminDashboard(t *testing.T) {
	repo, svc := newDashboardFixture()
	repo.addUser("u1", "Admin", "admin@example.com", "admin")
	repo.addUser("u2", "Athlete One", "a1@example.com", "athlete")
	repo.addUser("u3", "Athlete Two", "a2@example.com", "athlete")

	resp, err := svc.GetAdminDashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if resp.Overview.TotalUsers != 3 {
		t.Errorf("expected 3 users, got %d", resp.Overview.TotalUsers)
	}
	if resp.ByRole[string(roles.ExternalAthlete)] != 2 {
		t.Errorf("expected 2 athletes, got %d", resp.ByRole[string(roles.ExternalAthlete)])
	}
	if resp.ByRole[string(roles.InternalAdmin)] != 1 {
		t.Errorf("expected 1 admin, got %d", resp.ByRole[string(roles.InternalAdmin)])
	}
}

func TestUserDashboard(t *testing.T) {
	repo, svc := newDashboardFixture()
	repo.addUser("u1", "Organizer", "org@example.com", "organizer")

	resp, err := svc.GetUserDashboard(context.Background(), "u1")
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if !resp.Permissions.CanViewOrganizersDashboard {
		t.Error("organizer should see the organizers dashboard")
	}
	if len(resp.AvailableRoles) != len(roles.AvailableExternalRoles) {
		t.Errorf("unexpected available roles %v", resp.AvailableRoles)
	}
}
