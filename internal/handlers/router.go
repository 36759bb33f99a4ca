package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/racedaylabs/platform-service/internal/cache"
	"github.com/racedaylabs/platform-service/internal/config"
	"github.com/racedaylabs/platform-service/internal/repositories"
	"github.com/racedaylabs/platform-service/internal/roles"
	"github.com/racedaylabs/platform-service/internal/services"
	"github.com/racedaylabs/platform-service/internal/utils"
)

type HandlerManager struct {
	authHandler      *AuthHandler
	profileHandler   *ProfileHandler
	contactHandler   *ContactHandler
	adminUserHandler *AdminUserHandler
	dashboardHandler *DashboardHandler
	contentHandler   *ContentHandler
	authMiddleware   *CasdoorAuthMiddleware
	serviceManager   services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
	authCache *cache.AuthStateCache,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(
		casdoorConfig,
		userRepo,
		serviceManager.Role(),
		serviceManager.Profile(),
		authCache,
		logger,
	)

	return &HandlerManager{
		authHandler:      NewAuthHandler(serviceManager.Role(), logger),
		profileHandler:   NewProfileHandler(serviceManager.Profile(), logger),
		contactHandler:   NewContactHandler(serviceManager.Contact(), logger),
		adminUserHandler: NewAdminUserHandler(serviceManager.UserAdmin(), serviceManager.Role(), logger),
		dashboardHandler: NewDashboardHandler(serviceManager.Dashboard(), logger),
		contentHandler:   NewContentHandler(logger),
		authMiddleware:   authMiddleware,
		serviceManager:   serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/content/pages/:slug", hm.contentHandler.GetPage)

		// Contact is public; a valid token attributes the submission
		public.POST("/contact", hm.authMiddleware.OptionalAuthMiddleware(), hm.contactHandler.SubmitContact)
	}

	// Authenticated routes
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Gate-exempt routes: the frontend resolves both onboarding gates
		// through these
		v1.GET("/auth/state", hm.authHandler.GetAuthState)
		v1.POST("/auth/roles", hm.authHandler.AssignRoles)
		v1.GET("/profile", hm.profileHandler.GetProfile)
		v1.PUT("/profile", hm.profileHandler.UpsertProfile)

		// Gated user surface
		me := v1.Group("/me")
		me.Use(hm.authMiddleware.RoleAssignmentGate(), hm.authMiddleware.ProfileCompletionGate())
		{
			me.GET("/dashboard", hm.dashboardHandler.GetMyDashboard)
		}

		// Admin surface
		admin := v1.Group("/admin")
		admin.Use(hm.authMiddleware.RequirePermission(func(p roles.PermissionSet) bool { return p.CanAccessAdminArea }))
		{
			admin.GET("/dashboard", hm.dashboardHandler.GetAdminDashboard)

			// User management additionally requires canManageUsers
			users := admin.Group("/users")
			users.Use(hm.authMiddleware.RequirePermission(func(p roles.PermissionSet) bool { return p.CanManageUsers }))
			{
				users.GET("", hm.adminUserHandler.ListUsers)
				users.POST("", hm.adminUserHandler.CreateUser)
				users.GET("/export", hm.adminUserHandler.ExportUsers)
				users.DELETE("/:id", hm.adminUserHandler.DeleteUser)
				users.PUT("/:id/roles", hm.adminUserHandler.ReplaceUserRoles)
			}
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": "platform-service",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "platform-service",
		})
	})
}
