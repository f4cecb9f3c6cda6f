package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/api/docs"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/api/handler"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/api/middleware"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/database"
)

// VisionFramePath is rate limited separately because every call reaches the
// vision provider.
const VisionFramePath = "/api/vision/frame"

type Dependencies struct {
	DB            database.Pinger
	Catalog       handler.CatalogService
	TryOn         handler.TryOnService
	AdminKey      string
	MaxImageBytes int64
	RateLimit     middleware.RateLimiterConfig
}

type Router struct {
	app         *fiber.App
	logger      *slog.Logger
	deps        *Dependencies
	rateLimiter *middleware.RateLimiter
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Glasses Try-On API",
		BodyLimit:    bodyLimit(deps),
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

// bodyLimit leaves room for several images in one import request.
func bodyLimit(deps *Dependencies) int {
	perImage := int64(handler.DefaultMaxImageBytes)
	if deps != nil && deps.MaxImageBytes > 0 {
		perImage = deps.MaxImageBytes
	}
	return int(perImage * 5)
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,DELETE,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept," + middleware.AdminKeyHeader,
		ExposeHeaders: "X-Frame-ID,X-Overlay-Center-X,X-Overlay-Center-Y,X-Overlay-Rotation,X-Overlay-Width,X-Overlay-Height",
	}))

	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	api := r.app.Group("/api")

	var db database.Pinger
	if r.deps != nil {
		db = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(db, r.logger)
	api.Get("/health", healthHandler.Health)
	api.Get("/ready", healthHandler.Ready)

	if r.deps == nil {
		return
	}

	validate := handler.NewValidator()
	r.rateLimiter = middleware.NewRateLimiter(r.deps.RateLimit)
	limited := r.rateLimiter.Handler()
	adminOnly := middleware.AdminKey(r.deps.AdminKey, r.logger)

	if r.deps.Catalog != nil {
		catalogHandler := handler.NewCatalogHandler(r.deps.Catalog, validate, r.deps.MaxImageBytes, r.logger)
		visionHandler := handler.NewVisionHandler(r.deps.Catalog, validate)

		catalog := api.Group("/catalog")
		catalog.Get("/", catalogHandler.List)
		catalog.Post("/", adminOnly, catalogHandler.Save)
		catalog.Post("/import", adminOnly, catalogHandler.Import)
		catalog.Post("/:id/tag", adminOnly, catalogHandler.Tag)
		catalog.Delete("/:id", adminOnly, catalogHandler.Delete)

		api.Post("/vision/frame", limited, visionHandler.AnalyzeFrame)
	}

	if r.deps.TryOn != nil {
		tryOnHandler := handler.NewTryOnHandler(r.deps.TryOn, validate, r.deps.MaxImageBytes)

		tryon := api.Group("/tryon", limited)
		tryon.Post("/analyze", tryOnHandler.Analyze)
		tryon.Post("/render", tryOnHandler.Render)
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	// Stop rate limiter cleanup goroutine
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	return r.app.Shutdown()
}
