package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/omran-mahr/Aspiro-AI/internal/api/docs"
	"github.com/omran-mahr/Aspiro-AI/internal/api/handler"
	"github.com/omran-mahr/Aspiro-AI/internal/api/middleware"
	"github.com/omran-mahr/Aspiro-AI/internal/ws"
)

type Dependencies struct {
	FaceService handler.FaceService
	Scorer      handler.ResumeScorer
	Advisor     handler.Advisor
	// DB is optional; /ready pings it when set
	DB        handler.Pinger
	RateLimit middleware.RateLimiterConfig
}

type Router struct {
	app         *fiber.App
	logger      *slog.Logger
	deps        *Dependencies
	rateLimiter *middleware.RateLimiter
	wsHub       *ws.Hub
	cancelHub   context.CancelFunc
}

// NewRouter creates the HTTP router. hub may be shared with services that
// publish attendance events.
func NewRouter(logger *slog.Logger, deps *Dependencies, hub *ws.Hub) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Aspiro API",
		BodyLimit:    12 * 1024 * 1024,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
		wsHub:  hub,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	var db handler.Pinger
	if r.deps != nil {
		db = r.deps.DB
	}

	// Health check endpoints
	healthHandler := handler.NewHealthHandler(db)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps == nil {
		return
	}

	v1 := r.app.Group("/v1")

	// Rate limiting per client IP, stricter on the LLM routes
	rateCfg := r.deps.RateLimit
	if rateCfg.PerEndpoint == nil {
		rateCfg.PerEndpoint = middleware.AdvisorRateLimits()
	}
	r.rateLimiter = middleware.NewRateLimiter(rateCfg)
	v1.Use(r.rateLimiter.Handler())

	// Face routes
	if r.deps.FaceService != nil {
		faceHandler := handler.NewFaceHandler(r.deps.FaceService, r.logger)
		v1.Post("/faces", faceHandler.Register)
		v1.Post("/attendance", faceHandler.Attendance)
	}

	// Resume routes
	if r.deps.Scorer != nil {
		resumeHandler := handler.NewResumeHandler(r.deps.Scorer)
		v1.Post("/resumes/score", resumeHandler.Score)
	}

	// Advisor routes
	if r.deps.Advisor != nil {
		advisorHandler := handler.NewAdvisorHandler(r.deps.Advisor)
		v1.Post("/chat", advisorHandler.Chat)
		v1.Post("/skills/recommend", advisorHandler.RecommendSkills)
		v1.Post("/career/guidance", advisorHandler.CareerGuidance)
	}

	// WebSocket endpoint
	if r.wsHub == nil {
		r.wsHub = ws.NewHub()
	}
	hubCtx, hubCancel := context.WithCancel(context.Background())
	r.cancelHub = hubCancel
	go r.wsHub.Run(hubCtx)

	v1.Get("/ws", ws.UpgradeMiddleware(), ws.Handler(r.wsHub))
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	// Stop WebSocket hub
	if r.cancelHub != nil {
		r.cancelHub()
	}

	// Stop rate limiter cleanup goroutine
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	return r.app.Shutdown()
}
