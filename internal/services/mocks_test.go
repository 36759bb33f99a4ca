package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/racedaylabs/platform-service/internal/models"
	"github.com/racedaylabs/platform-service/internal/repositories"
)

// mockRepository is an in-memory Repository for service tests.
type mockRepository struct {
	users    map[string]*models.User
	roles    map[string][]string
	profiles map[string]*models.Profile
	contacts []*models.ContactSubmission

	softDeleteCalls int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:    make(map[string]*models.User),
		roles:    make(map[string][]string),
		profiles: make(map[string]*models.Profile),
	}
}

func (m *mockRepository) addUser(id, name, email string, roleNames ...string) {
	m.users[id] = &models.User{ID: id, FullName: name, Email: email, CreatedAt: time.Now()}
	m.roles[id] = roleNames
}

func (m *mockRepository) User() repositories.UserRepository       { return &mockUserRepo{m} }
func (m *mockRepository) Role() repositories.RoleRepository       { return &mockRoleRepo{m} }
func (m *mockRepository) Profile() repositories.ProfileRepository { return &mockProfileRepo{m} }
func (m *mockRepository) Contact() repositories.ContactRepository { return &mockContactRepo{m} }
func (m *mockRepository) Dashboard() repositories.DashboardRepository {
	return &mockDashboardRepo{m}
}

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== USER =====

type mockUserRepo struct{ m *mockRepository }

func (r *mockUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	user, ok := r.m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) Create(_ context.Context, user *models.User) error {
	r.m.users[user.ID] = user
	return nil
}

func (r *mockUserRepo) Upsert(_ context.Context, user *models.User) error {
	r.m.users[user.ID] = user
	return nil
}

func (r *mockUserRepo) SoftDelete(_ context.Context, id string) error {
	r.m.softDeleteCalls++
	if _, ok := r.m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.users, id)
	return nil
}

func (r *mockUserRepo) List(_ context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var out []*models.User
	for id, user := range r.m.users {
		if filters.Role != nil && *filters.Role != "" && !contains(r.m.roles[id], *filters.Role) {
			continue
		}
		if filters.Search != "" &&
			!strings.Contains(user.FullName, filters.Search) &&
			!strings.Contains(user.Email, filters.Search) {
			continue
		}

		// Mirror the Preload("Roles") the real repository does.
		clone := *user
		clone.Roles = nil
		for _, name := range r.m.roles[id] {
			clone.Roles = append(clone.Roles, models.Role{Name: name})
		}
		out = append(out, &clone)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	total := int64(len(out))
	if filters.Offset > 0 {
		if filters.Offset >= len(out) {
			out = nil
		} else {
			out = out[filters.Offset:]
		}
	}
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, total, nil
}

func (r *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, user := range r.m.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// ===== ROLE =====

type mockRoleRepo struct{ m *mockRepository }

func (r *mockRoleRepo) GetRoleNamesForUser(_ context.Context, userID string) ([]string, error) {
	return r.m.roles[userID], nil
}

func (r *mockRoleRepo) EnsureRole(_ context.Context, name string) (*models.Role, error) {
	return &models.Role{ID: 1, Name: name}, nil
}

func (r *mockRoleRepo) AssignRoles(_ context.Context, userID string, names []string) error {
	for _, name := range names {
		if !contains(r.m.roles[userID], name) {
			r.m.roles[userID] = append(r.m.roles[userID], name)
		}
	}
	return nil
}

func (r *mockRoleRepo) ReplaceExternalRoles(_ context.Context, userID string, externalNames, newNames []string) error {
	var kept []string
	for _, name := range r.m.roles[userID] {
		if !contains(externalNames, name) {
			kept = append(kept, name)
		}
	}
	for _, name := range newNames {
		if !contains(kept, name) {
			kept = append(kept, name)
		}
	}
	r.m.roles[userID] = kept
	return nil
}

// ===== PROFILE =====

type mockProfileRepo struct{ m *mockRepository }

func (r *mockProfileRepo) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	return r.m.profiles[userID], nil
}

func (r *mockProfileRepo) Upsert(_ context.Context, profile *models.Profile) error {
	r.m.profiles[profile.UserID] = profile
	return nil
}

func (r *mockProfileRepo) SoftDelete(_ context.Context, userID string) error {
	delete(r.m.profiles, userID)
	return nil
}

// ===== CONTACT =====

type mockContactRepo struct{ m *mockRepository }

func (r *mockContactRepo) Create(_ context.Context, submission *models.ContactSubmission) error {
	submission.CreatedAt = time.Now()
	r.m.contacts = append(r.m.contacts, submission)
	return nil
}

func (r *mockContactRepo) CountSince(_ context.Context, _ int) (int64, error) {
	return int64(len(r.m.contacts)), nil
}

// ===== DASHBOARD =====

type mockDashboardRepo struct{ m *mockRepository }

func (r *mockDashboardRepo) CountUsers(_ context.Context) (int64, error) {
	return int64(len(r.m.users)), nil
}

func (r *mockDashboardRepo) CountUsersByRole(_ context.Context, roleName string) (int64, error) {
	var count int64
	for id := range r.m.users {
		if contains(r.m.roles[id], roleName) {
			count++
		}
	}
	return count, nil
}

func (r *mockDashboardRepo) CountProfiles(_ context.Context) (int64, error) {
	return int64(len(r.m.profiles)), nil
}

func (r *mockDashboardRepo) CountContactSubmissions(_ context.Context, _ int) (int64, error) {
	return int64(len(r.m.contacts)), nil
}

func (r *mockDashboardRepo) CountNewUsers(_ context.Context, _ int) (int64, error) {
	return int64(len(r.m.users)), nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
