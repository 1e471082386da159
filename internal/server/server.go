// Package server contains the HTTP handlers for the application's API
// endpoints.
package server

import (
	"context"
	"log"
	"time"

	_ "bandmate/docs" // swagger docs
	"bandmate/internal/config"
	"bandmate/internal/featureflags"
	"bandmate/internal/matching"
	"bandmate/internal/middleware"
	"bandmate/internal/models"
	"bandmate/internal/repository"
	"bandmate/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	profileRepo       repository.ProfileRepository
	invitationRepo    repository.InvitationRepository
	collaborationRepo repository.CollaborationRepository
	opportunityRepo   repository.OpportunityRepository
	starRepo          repository.StarRepository

	featureFlags  *featureflags.Manager
	remoteMatcher *matching.RemoteMatcher

	profileService       *service.ProfileService
	invitationService    *service.InvitationService
	collaborationService *service.CollaborationService
	opportunityService   *service.OpportunityService
	visibilityService    *service.VisibilityService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// The bootstrap layer establishes DB/Redis and optionally performs explicit
// seeding; tests pass a sqlite handle directly.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	profileRepo := repository.NewProfileRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	collaborationRepo := repository.NewCollaborationRepository(db)
	opportunityRepo := repository.NewOpportunityRepository(db)
	starRepo := repository.NewStarRepository(db)

	prom := middleware.InitMetrics("bandmate-api")

	server := &Server{
		config:            cfg,
		db:                db,
		redis:             redisClient,
		promMiddleware:    prom,
		profileRepo:       profileRepo,
		invitationRepo:    invitationRepo,
		collaborationRepo: collaborationRepo,
		opportunityRepo:   opportunityRepo,
		starRepo:          starRepo,
		featureFlags:      featureflags.NewManager(cfg.FeatureFlags),
	}
	server.profileService = service.NewProfileService(profileRepo)
	server.invitationService = service.NewInvitationService(invitationRepo, profileRepo, opportunityRepo)
	server.collaborationService = service.NewCollaborationService(collaborationRepo)
	server.opportunityService = service.NewOpportunityService(opportunityRepo, starRepo)
	server.visibilityService = service.NewVisibilityService(invitationRepo, collaborationRepo, profileRepo)

	if cfg.MatchServiceURL != "" {
		server.remoteMatcher = matching.NewRemoteMatcher(cfg.MatchServiceURL, cfg.MatchServiceToken)
	}

	return server, nil
}

// matcherFor picks the scoring backend for one user: the remote service
// when it is configured and the flag rolls the user in, the local
// heuristic otherwise.
func (s *Server) matcherFor(userID uint) matching.Matcher {
	if s.remoteMatcher != nil && s.featureFlags.Enabled(featureflags.FlagRemoteMatching, userID) {
		return s.remoteMatcher
	}
	return matching.Heuristic{}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	// Backwards-compatible legacy route: map /health to readiness
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Bandmate Backend Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", middleware.AuthRequired, s.Logout)

	// Feature flags for the authenticated user
	api.Get("/feature-flags", middleware.AuthRequired, s.GetFeatureFlags)

	// Profile routes. Define specific /me routes BEFORE the generic /:id
	// route. Viewing a profile is public; what the response contains
	// depends on who is asking.
	profiles := api.Group("/profiles")
	profiles.Get("/", s.ListProfiles)
	profiles.Get("/me", middleware.AuthRequired, s.GetMyProfile)
	profiles.Put("/me", middleware.AuthRequired, s.UpdateMyProfile)
	profiles.Delete("/me", middleware.AuthRequired, s.DeleteMyAccount)
	profiles.Get("/me/matches", middleware.AuthRequired, s.GetMatches)
	profiles.Get("/:id", s.GetProfile)

	// Invitation routes
	invitations := api.Group("/invitations", middleware.AuthRequired)
	invitations.Post("/", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "invitation"), s.SendInvitation)
	invitations.Get("/", s.GetInvitations)
	invitations.Post("/:id/accept", s.AcceptInvitation)
	invitations.Post("/:id/decline", s.DeclineInvitation)

	// Collaboration routes
	collaborations := api.Group("/collaborations", middleware.AuthRequired)
	collaborations.Get("/", s.GetCollaborations)
	collaborations.Post("/:id/verify", s.VerifyCollaboration)
	collaborations.Post("/:id/complete", s.CompleteCollaboration)

	// Opportunity routes. Browsing and reading are public; everything else
	// is owner-scoped. Specific routes before the generic /:id routes.
	opportunities := api.Group("/opportunities")
	opportunities.Get("/", s.BrowseOpportunities)
	opportunities.Post("/", middleware.AuthRequired, s.CreateOpportunity)
	opportunities.Get("/mine", middleware.AuthRequired, s.GetMyOpportunities)
	opportunities.Get("/starred", middleware.AuthRequired, s.GetStarredOpportunities)
	opportunities.Put("/:id/star", middleware.AuthRequired, s.ToggleStar)
	opportunities.Get("/:id", s.GetOpportunity)
	opportunities.Put("/:id", middleware.AuthRequired, s.UpdateOpportunity)
	opportunities.Delete("/:id", middleware.AuthRequired, s.DeleteOpportunity)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The app runs without Redis, with caching and view buffering
		// disabled, so a missing client only degrades readiness.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// GetFeatureFlags handles GET /api/feature-flags
// @Summary Feature flags
// @Description Evaluated feature flags for the authenticated user
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]bool
// @Security BearerAuth
// @Router /feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	return c.JSON(s.featureFlags.Snapshot(userID))
}

// buildApp assembles the Fiber app with all middleware and routes.
func (s *Server) buildApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Bandmate API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start builds the app and listens on the configured port, blocking until
// the listener stops. Shutdown stops it.
func (s *Server) Start() error {
	s.app = s.buildApp()

	log.Printf("Server starting on port %s...", s.config.Port)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
