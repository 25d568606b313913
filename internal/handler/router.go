package handler

import (
	"context"
	"net/http"

	"member_directory/internal/middleware"
	"member_directory/internal/utils"

	"github.com/gin-gonic/gin"
)

// RouterDeps collects everything NewRouter wires together
type RouterDeps struct {
	JWT      *utils.JWTUtil
	APIKey   string
	Profiles middleware.ProfileChecker
	Auth     *AuthHandler
	Admin    *AdminHandler
	Legacy   *LegacyHandler
	// HealthCheck pings backing stores; nil reports healthy
	HealthCheck func(ctx context.Context) error
}

// NewRouter builds the gin engine with every route mounted
func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORSMiddleware())

	// --- Initialize Middlewares ---
	jwtAuthMW := middleware.JWTAuthMiddleware(d.JWT)
	adminMW := middleware.AdminMiddleware(d.Profiles)
	apiKeyMW := middleware.SharedSecretMiddleware(d.APIKey,
		"/api/auth/login", "/api/auth/register", "/api/auth/forgot-password*",
		"/health", "/docs/*",
	)

	// --- Register Routes ---
	apiGroup := router.Group("/api")
	d.Auth.RegisterAuthRoutes(apiGroup, jwtAuthMW)
	d.Admin.RegisterAdminRoutes(apiGroup, jwtAuthMW, adminMW)
	d.Legacy.RegisterLegacyRoutes(apiGroup, apiKeyMW)

	router.GET("/health", func(c *gin.Context) {
		if d.HealthCheck != nil {
			if err := d.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	RegisterDocsRoutes(router)

	return router
}
