package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/julienvb/portfolio-api/internal/app/service"
	"github.com/julienvb/portfolio-api/internal/http/handler"
	"github.com/julienvb/portfolio-api/internal/http/middleware"
	"github.com/julienvb/portfolio-api/internal/http/session"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies bundles everything the HTTP server needs.
type Dependencies struct {
	Logger   *zap.Logger
	Redis    *redis.Client
	Sessions *session.Manager

	Auth         service.AuthService
	Visits       service.VisitService
	Projects     service.ProjectService
	Technologies service.TechnologyService
	Profile      service.ProfileService
	Contacts     service.ContactService
	Photos       service.PhotoService

	CORSOrigin string
}

// Server wraps the Fiber application and its dependencies.
type Server struct {
	app  *fiber.App
	deps Dependencies
}

// New creates a new HTTP server instance with all routes registered.
func New(deps Dependencies) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 8 << 20, // photos cap at 5 MiB plus multipart overhead
	})

	s := &Server{
		app:  app,
		deps: deps,
	}

	s.registerMiddleware()
	s.registerRoutes()
	return s
}

// Listen starts the Fiber server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the Fiber server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the underlying Fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) registerMiddleware() {
	s.app.Use(middleware.Recovery(s.deps.Logger))
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(s.deps.Logger))
	s.app.Use(middleware.CORS(s.deps.CORSOrigin))

	// Throttle the anonymous write endpoints only; admin traffic rides on
	// the session gate instead.
	if s.deps.Redis != nil {
		limit := middleware.RateLimit(s.deps.Redis, middleware.DefaultRateLimitConfig(), s.deps.Logger)
		for _, path := range throttledPaths {
			s.app.Post(path, limit, passthrough)
		}
	}
}

// throttledPaths lists the endpoints reachable without a session that can
// create state: visit ingestion, the contact form, and both credential
// endpoints.
var throttledPaths = []string{
	"/api/visits",
	"/api/contacts",
	"/api/auth/login",
	"/api/auth/register",
}

// passthrough defers to the next matching route so a path can carry
// middleware without owning the request.
func passthrough(c *fiber.Ctx) error {
	return c.Next()
}

func (s *Server) registerRoutes() {
	requireAuth := middleware.RequireAuth(s.deps.Sessions)

	handler.NewHealthHandler().Register(s.app)

	handler.NewAuthHandler(handler.AuthDeps{
		Logger:   s.deps.Logger,
		Auth:     s.deps.Auth,
		Sessions: s.deps.Sessions,
	}).Register(s.app, requireAuth)

	handler.NewVisitHandler(handler.VisitDeps{
		Logger: s.deps.Logger,
		Visits: s.deps.Visits,
	}).Register(s.app, requireAuth)

	handler.NewProjectHandler(handler.ProjectDeps{
		Logger:   s.deps.Logger,
		Projects: s.deps.Projects,
	}).Register(s.app, requireAuth)

	handler.NewTechnologyHandler(handler.TechnologyDeps{
		Logger:       s.deps.Logger,
		Technologies: s.deps.Technologies,
	}).Register(s.app, requireAuth)

	handler.NewProfileHandler(handler.ProfileDeps{
		Logger:  s.deps.Logger,
		Profile: s.deps.Profile,
	}).Register(s.app, requireAuth)

	handler.NewContactHandler(handler.ContactDeps{
		Logger:   s.deps.Logger,
		Contacts: s.deps.Contacts,
	}).Register(s.app, requireAuth)

	handler.NewPhotoHandler(handler.PhotoDeps{
		Logger: s.deps.Logger,
		Photos: s.deps.Photos,
	}).Register(s.app, requireAuth)
}
