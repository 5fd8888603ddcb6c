package main

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"meddocs/docs"
	"meddocs/internal/config"
	"meddocs/internal/database"
	"meddocs/internal/database/migration"
	handlers "meddocs/internal/http/handler"
	"meddocs/internal/http/middleware"
	otelinit "meddocs/internal/otel"
	"meddocs/internal/repository"
	"meddocs/internal/repository/postgres"
	"meddocs/internal/repository/sqlite"
	"meddocs/internal/service"
	"meddocs/internal/storage"
)

// @title Medical Documents API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	// Initialize tracing (no-op when OTEL_SDK_DISABLED=true)
	shutdownTracing, err := otelinit.Init(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Open the metadata index and bootstrap the schema
	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, cfg.Database.Driver); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var docRepo repository.DocumentRepository
	switch cfg.Database.Driver {
	case "postgres":
		docRepo = postgres.NewDocumentPostgres(db)
	default:
		docRepo = sqlite.NewDocumentSQLite(db)
	}

	// Initialize the blob store; the fs backend creates its root eagerly
	var blobStore storage.BlobStore
	switch cfg.Storage.Backend {
	case "s3":
		blobStore, err = storage.NewMinIO(cfg.Storage)
	default:
		blobStore, err = storage.NewFS(cfg.Storage.UploadDir)
	}
	if err != nil {
		log.Fatalf("failed to initialize blob store: %v", err)
	}

	docSvc := service.NewDocumentService(blobStore, docRepo, cfg.MaxUploadBytes)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Headroom over the service-enforced limit so multipart framing
		// doesn't trip the transport cap first.
		BodyLimit: int(cfg.MaxUploadBytes) + (1 << 20),
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: "GET,POST,DELETE,OPTIONS",
	}))

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, docSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
