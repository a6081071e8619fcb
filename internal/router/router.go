package router

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/noah-isme/hire-go-api/internal/config"
	"github.com/noah-isme/hire-go-api/internal/handler"
	"github.com/noah-isme/hire-go-api/internal/middleware"
	"github.com/noah-isme/hire-go-api/internal/models"
	"github.com/noah-isme/hire-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	DB                     *gorm.DB
	AdminRankingHandler    *handler.AdminRankingHandler
	AdminAssignmentHandler *handler.AdminAssignmentHandler
	AdminActivityHandler   *handler.AdminActivityHandler
	RecruiterHandler       *handler.RecruiterHandler
	JobHandler             *handler.JobHandler
	ApplicationHandler     *handler.ApplicationHandler
	UserHandler            *handler.UserHandler
	SeedHandler            *handler.SeedHandler
	JWTMiddleware          fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.DB))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Seeding tools are guarded by a shared token instead of a JWT
	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(app.Group("/api/tools/seed"))
	}

	// Admin and HR back office
	admin := app.Group("/api/admin", jwtMiddleware, middleware.RequireRole(models.RoleAdmin, models.RoleHR))
	if deps.AdminRankingHandler != nil {
		deps.AdminRankingHandler.Register(admin)
	}
	if deps.AdminAssignmentHandler != nil {
		deps.AdminAssignmentHandler.Register(admin)
	}
	if deps.AdminActivityHandler != nil {
		deps.AdminActivityHandler.Register(admin)
	}
	if deps.JobHandler != nil {
		deps.JobHandler.RegisterAdmin(admin.Group("/jobs"))
	}
	if deps.ApplicationHandler != nil {
		deps.ApplicationHandler.RegisterAdmin(admin.Group("/applications"))
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterAdmin(admin)
	}

	// Recruiter scoring interface
	if deps.RecruiterHandler != nil {
		recruiter := app.Group("/api/recruiter", jwtMiddleware, requireAuth(middleware.AuthRoleReviewer))
		recruiter.Use("/score", middleware.RateLimit("manual-score", cfg.ScoreRateLimitMax, cfg.ScoreRateLimitSpan))
		deps.RecruiterHandler.Register(recruiter)
	}

	// Job board
	if deps.JobHandler != nil {
		jobs := app.Group("/api/jobs", jwtMiddleware, requireAuth(middleware.AuthRoleAny))
		deps.JobHandler.RegisterPublic(jobs)
	}

	// Candidate applications
	if deps.ApplicationHandler != nil {
		applications := app.Group("/api/applications", jwtMiddleware, requireAuth(middleware.AuthRoleCandidate))
		deps.ApplicationHandler.RegisterCandidate(applications)
	}

	// Caller profile
	if deps.UserHandler != nil {
		me := app.Group("/api/me", jwtMiddleware, requireAuth(middleware.AuthRoleAny))
		deps.UserHandler.RegisterSelf(me)
	}
}

func requireAuth(role string) fiber.Handler {
	return middleware.WithAuth(func(c *fiber.Ctx) error {
		return c.Next()
	}, middleware.AuthOptions{Role: role, RequireUser: true})
}
