package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/racedaylabs/platform-service/internal/cache"
	"github.com/racedaylabs/platform-service/internal/profiles"
	"github.com/racedaylabs/platform-service/internal/roles"
	"github.com/racedaylabs/platform-service/internal/utils"
)

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})))
}

func testGateMiddleware() *CasdoorAuthMiddleware {
	return &CasdoorAuthMiddleware{
		authCache: cache.NewAuthStateCache(nil),
		logger:    testLogger(),
	}
}

// withAuthState injects a fixed session projection, standing in for the token
// middleware.
func withAuthState(state *cache.AuthState) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", state.UserID)
		c.Set("session_id", "sess-test")
		c.Set("auth_state", state)
		c.Next()
	}
}

func performRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRoleAssignmentGate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cam := testGateMiddleware()

	state := &cache.AuthState{
		UserID:     "u1",
		Resolution: roles.Resolve(nil),
	}

	router := gin.New()
	router.GET("/me/dashboard", withAuthState(state), cam.RoleAssignmentGate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/me/other", withAuthState(state), cam.RoleAssignmentGate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := performRequest(router, http.MethodGet, "/me/dashboard")
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if resp.Code != "FORBIDDEN" {
		t.Errorf("expected FORBIDDEN, got %s", resp.Code)
	}

	details, ok := resp.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("expected details object, got %T", resp.Details)
	}
	if details["intended_route"] != "/me/dashboard" {
		t.Errorf("expected intended route capture, got %v", details["intended_route"])
	}
	if _, ok := details["available_roles"]; !ok {
		t.Error("expected available roles in gate payload")
	}
	if w.Header().Get("X-Intended-Route") != "/me/dashboard" {
		t.Errorf("expected intended route header, got %q", w.Header().Get("X-Intended-Route"))
	}

	// A later gated request must echo the first route, not re-capture.
	w = performRequest(router, http.MethodGet, "/me/other")
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if w.Header().Get("X-Intended-Route") != "/me/dashboard" {
		t.Errorf("intended route should not be re-captured, got %q", w.Header().Get("X-Intended-Route"))
	}
}

func TestRoleAssignmentGate_PassesAssignedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cam := testGateMiddleware()

	state := &cache.AuthState{
		UserID:     "u1",
		Resolution: roles.Resolve([]string{"athlete"}),
	}

	router := gin.New()
	router.GET("/me/dashboard", withAuthState(state), cam.RoleAssignmentGate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	if w := performRequest(router, http.MethodGet, "/me/dashboard"); w.Code != http.StatusOK {
		t.Fatalf("assigned user should pass the gate, got %d", w.Code)
	}
}

func TestProfileCompletionGate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cam := testGateMiddleware()

	tests := []struct {
		name       string
		state      *cache.AuthState
		wantStatus int
	}{
		{
			name: "incomplete external user blocked",
			state: &cache.AuthState{
				UserID:     "u1",
				Resolution: roles.Resolve([]string{"organizer"}),
				ProfileStatus: profiles.Status{
					MustCompleteProfile: true,
					MissingCategories:   []roles.RequirementCategory{roles.CategoryBasicContact},
				},
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "complete external user passes",
			state: &cache.AuthState{
				UserID:        "u2",
				Resolution:    roles.Resolve([]string{"organizer"}),
				ProfileStatus: profiles.Status{HasProfile: true, IsComplete: true},
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "internal user passes without profile",
			state: &cache.AuthState{
				UserID:     "u3",
				Resolution: roles.Resolve([]string{"admin"}),
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/me/dashboard", withAuthState(tt.state), cam.ProfileCompletionGate(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := performRequest(router, http.MethodGet, "/me/dashboard")
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, w.Code)
			}

			if tt.wantStatus == http.StatusForbidden {
				var resp ErrorResponse
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("invalid error body: %v", err)
				}
				details := resp.Details.(map[string]interface{})
				if _, ok := details["missing_categories"]; !ok {
					t.Error("expected missing categories in gate payload")
				}
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cam := testGateMiddleware()

	check := func(p roles.PermissionSet) bool { return p.CanManageUsers }

	tests := []struct {
		name       string
		rawRoles   []string
		wantStatus int
	}{
		{"admin allowed", []string{"admin"}, http.StatusOK},
		{"staff lacks user management", []string{"staff"}, http.StatusForbidden},
		{"volunteer forbidden", []string{"volunteer"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &cache.AuthState{UserID: "u1", Resolution: roles.Resolve(tt.rawRoles)}

			router := gin.New()
			router.GET("/admin/users", withAuthState(state), cam.RequirePermission(check), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			if w := performRequest(router, http.MethodGet, "/admin/users"); w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestRequirePermission_NoAuthState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cam := testGateMiddleware()

	router := gin.New()
	router.GET("/admin/users", cam.RequirePermission(func(p roles.PermissionSet) bool { return true }), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	if w := performRequest(router, http.MethodGet, "/admin/users"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth state, got %d", w.Code)
	}
}
