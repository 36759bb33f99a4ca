package postgres

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/racedaylabs/platform-service/internal/models"
	"github.com/racedaylabs/platform-service/internal/repositories"
)

var externalVocabulary = []string{"organizer", "athlete", "volunteer"}

// newTestDB opens an in-memory sqlite database named after the test so
// parallel tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Role{}, &models.UserRole{}); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, id string) {
	t.Helper()

	user := models.User{ID: id, FullName: "Test User", Email: id + "@example.com"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", id, err)
	}
}

func sortedRoleNames(t *testing.T, repo repositories.RoleRepository, userID string) []string {
	t.Helper()

	names, err := repo.GetRoleNamesForUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetRoleNamesForUser failed: %v", err)
	}
	sort.Strings(names)
	return names
}

func TestReplaceExternalRoles_ReAddAfterRevoke(t *testing.T) {
	db := newTestDB(t)
	repo := NewRolePostgreSQL(db)
	ctx := context.Background()

	createTestUser(t, db, "user-1")

	if err := repo.AssignRoles(ctx, "user-1", []string{"volunteer"}); err != nil {
		t.Fatalf("AssignRoles failed: %v", err)
	}

	// Switch away from the role, then back to it. The second replace must
	// reinsert a role the user already held once.
	steps := []struct {
		newNames []string
		want     []string
	}{
		{newNames: []string{"athlete"}, want: []string{"athlete"}},
		{newNames: []string{"volunteer"}, want: []string{"volunteer"}},
		{newNames: []string{"athlete", "volunteer"}, want: []string{"athlete", "volunteer"}},
	}

	for i, step := range steps {
		if err := repo.ReplaceExternalRoles(ctx, "user-1", externalVocabulary, step.newNames); err != nil {
			t.Fatalf("step %d: ReplaceExternalRoles failed: %v", i, err)
		}
		if got := sortedRoleNames(t, repo, "user-1"); !reflect.DeepEqual(got, step.want) {
			t.Errorf("step %d: expected roles %v, got %v", i, step.want, got)
		}
	}
}

func TestReplaceExternalRoles_KeepsInternalAssignments(t *testing.T) {
	db := newTestDB(t)
	repo := NewRolePostgreSQL(db)
	ctx := context.Background()

	createTestUser(t, db, "user-2")

	if err := repo.AssignRoles(ctx, "user-2", []string{"admin", "volunteer"}); err != nil {
		t.Fatalf("AssignRoles failed: %v", err)
	}

	if err := repo.ReplaceExternalRoles(ctx, "user-2", externalVocabulary, []string{"athlete"}); err != nil {
		t.Fatalf("ReplaceExternalRoles failed: %v", err)
	}

	want := []string{"admin", "athlete"}
	if got := sortedRoleNames(t, repo, "user-2"); !reflect.DeepEqual(got, want) {
		t.Errorf("expected roles %v, got %v", want, got)
	}
}

func TestAssignRoles_ExistingAssignmentKept(t *testing.T) {
	db := newTestDB(t)
	repo := NewRolePostgreSQL(db)
	ctx := context.Background()

	createTestUser(t, db, "user-3")

	if err := repo.AssignRoles(ctx, "user-3", []string{"athlete"}); err != nil {
		t.Fatalf("AssignRoles failed: %v", err)
	}
	if err := repo.AssignRoles(ctx, "user-3", []string{"athlete", "organizer"}); err != nil {
		t.Fatalf("repeated AssignRoles failed: %v", err)
	}

	want := []string{"athlete", "organizer"}
	if got := sortedRoleNames(t, repo, "user-3"); !reflect.DeepEqual(got, want) {
		t.Errorf("expected roles %v, got %v", want, got)
	}

	var assignments int64
	if err := db.Model(&models.UserRole{}).Where("user_id = ?", "user-3").Count(&assignments).Error; err != nil {
		t.Fatalf("failed to count assignments: %v", err)
	}
	if assignments != 2 {
		t.Errorf("expected 2 assignment rows, got %d", assignments)
	}
}

func TestUserList_PreloadExcludesRevokedRoles(t *testing.T) {
	db := newTestDB(t)
	roleRepo := NewRolePostgreSQL(db)
	userRepo := NewUserPostgreSQL(db)
	ctx := context.Background()

	createTestUser(t, db, "user-4")

	if err := roleRepo.AssignRoles(ctx, "user-4", []string{"volunteer"}); err != nil {
		t.Fatalf("AssignRoles failed: %v", err)
	}
	if err := roleRepo.ReplaceExternalRoles(ctx, "user-4", externalVocabulary, []string{"athlete"}); err != nil {
		t.Fatalf("ReplaceExternalRoles failed: %v", err)
	}

	users, total, err := userRepo.List(ctx, repositories.UserFilters{Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(users) != 1 {
		t.Fatalf("expected 1 user, got total=%d len=%d", total, len(users))
	}

	var names []string
	for _, role := range users[0].Roles {
		names = append(names, role.Name)
	}
	if !reflect.DeepEqual(names, []string{"athlete"}) {
		t.Errorf("expected preloaded roles [athlete], got %v", names)
	}
}
