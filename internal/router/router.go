package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"     // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"    // optional Redis client for rate limiting and caching

	"github.com/savpro/sav-tracker/internal/config"     // middleware configuration
	"github.com/savpro/sav-tracker/internal/handler"    // import the handlers that implement business logic
	"github.com/savpro/sav-tracker/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/savpro/sav-tracker/internal/model"      // role constants for route guards
)

// Handlers bundles every handler the API mounts.  Upload may be nil
// when no uploader is configured, in which case the photo endpoint is
// not registered.
type Handlers struct {
	Auth        *handler.AuthHandler
	Category    *handler.CategoryHandler
	Client      *handler.ClientHandler
	Declaration *handler.DeclarationHandler
	Admin       *handler.AdminHandler
	Upload      *handler.UploadHandler
}

// Register mounts every route on the provided Echo instance.
//
// Public surface: the health check, category catalogue, registration
// and login.  Everything else sits behind JWT authentication, with
// per-role groups enforcing the authorization gate before the
// handlers run; the handlers re-check ownership on individual rows.
// When rdb is non-nil the protected routes are rate limited and the
// category catalogue is cached through Redis.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// Unauthenticated routes: account registration, login and the
	// read-only category catalogue.  The catalogue barely changes, so
	// it is served through the Redis response cache when available.
	if rdb != nil {
		e.GET("/api/categories", h.Category.List, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	} else {
		e.GET("/api/categories", h.Category.List)
	}

	auth := e.Group("/api/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	// Everything below requires a valid access token.  The role claim
	// from the token is enforced per group so that a commercial can
	// never reach a technician route and vice versa.
	api := e.Group("/api")
	api.Use(middleware.JWTAuth(cfg.JWTSecret))
	api.Use(middleware.RequireRole(model.RoleCommercial, model.RoleTechnician, model.RoleAdmin))
	if rdb != nil {
		api.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	}

	api.GET("/auth/me", h.Auth.Me)

	// Clients belong to the commercial that created them.  Admins get
	// read-only access to the full list.
	api.GET("/clients", h.Client.List, middleware.RequireRole(model.RoleCommercial, model.RoleAdmin))
	api.GET("/clients/:id", h.Client.Get, middleware.RequireRole(model.RoleCommercial, model.RoleAdmin))
	api.POST("/clients", h.Client.Create, middleware.RequireRole(model.RoleCommercial))
	api.PUT("/clients/:id", h.Client.Update, middleware.RequireRole(model.RoleCommercial))
	api.DELETE("/clients/:id", h.Client.Delete, middleware.RequireRole(model.RoleCommercial))

	// Declarations: commercials create and correct their own,
	// technicians take and resolve, admins observe.
	api.GET("/declarations", h.Declaration.List)
	api.GET("/declarations/:id", h.Declaration.Get)
	api.POST("/declarations", h.Declaration.Create, middleware.RequireRole(model.RoleCommercial))
	api.PUT("/declarations/:id", h.Declaration.Update, middleware.RequireRole(model.RoleCommercial))
	api.DELETE("/declarations/:id", h.Declaration.Delete, middleware.RequireRole(model.RoleCommercial))
	api.POST("/declarations/:id/take", h.Declaration.Take, middleware.RequireRole(model.RoleTechnician))
	api.POST("/declarations/:id/resolve", h.Declaration.Resolve, middleware.RequireRole(model.RoleTechnician))
	api.PATCH("/declarations/:id/remarks", h.Declaration.UpdateRemarks, middleware.RequireRole(model.RoleTechnician))

	if h.Upload != nil {
		api.POST("/upload", h.Upload.Photo, middleware.RequireRole(model.RoleCommercial))
	}

	// Admin desk: account review and the dashboard counters.
	admin := api.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.GET("/users", h.Admin.ListUsers)
	admin.GET("/users/pending", h.Admin.ListPending)
	admin.PATCH("/users/:id/status", h.Admin.UpdateUserStatus)
	admin.PATCH("/users/:id/role", h.Admin.UpdateUserRole)
	admin.GET("/stats", h.Admin.Stats)

	// Photos stored on local disk are served straight from the upload
	// directory.  S3 uploads carry absolute URLs and bypass this.
	if cfg.UploadDir != "" && !cfg.UseS3Uploads() {
		e.Static("/uploads", cfg.UploadDir)
	}
}
