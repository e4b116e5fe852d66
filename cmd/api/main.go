package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"journalapi/docs"
	"journalapi/internal/asr"
	"journalapi/internal/audio"
	"journalapi/internal/config"
	"journalapi/internal/database"
	"journalapi/internal/database/migration"
	handlers "journalapi/internal/http/handler"
	"journalapi/internal/http/middleware"
	"journalapi/internal/otel"
	"journalapi/internal/repository/postgres"
	"journalapi/internal/service"
	"journalapi/internal/storage"
)

// @title Journal API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, time.Local)
	if err != nil {
		sugar.Fatalw("failed to initialize tracing", "error", err)
	}
	defer shutdownTracing(context.Background())

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		sugar.Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.Local, cfg.Database.Host); err != nil {
		sugar.Fatalw("failed to run migrations", "error", err)
	}

	// Seed the single owner row; entries are attributed to it until real
	// authentication lands.
	userRepo := postgres.NewUserPostgres(db)
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.OwnerPassword), bcrypt.DefaultCost)
	if err != nil {
		sugar.Fatalw("failed to hash owner password", "error", err)
	}
	if err := userRepo.EnsureDefault(ctx, cfg.OwnerID, cfg.OwnerEmail, string(hash)); err != nil {
		sugar.Fatalw("failed to seed owner user", "error", err)
	}

	// Uploaded recordings live on local disk; ffmpeg needs real paths.
	uploads, err := storage.NewLocalStore(cfg.Upload.Dir)
	if err != nil {
		sugar.Fatalw("failed to initialize upload store", "error", err)
	}

	// Mirroring audio into S3-compatible object storage is optional.
	var archive storage.ObjectStorage
	if cfg.MinIO.Endpoint != "" {
		archive, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			sugar.Fatalw("failed to initialize object storage", "error", err)
		}
	}

	// Transcription pipeline: ffmpeg normalization + ASR inference server.
	engine := asr.NewWhisperEngine(cfg.ASR, sugar)
	converter := audio.NewFFmpeg(sugar)
	transcriber := service.NewTranscriptionService(engine, converter, sugar)

	journalRepo := postgres.NewJournalPostgres(db)
	journalSvc := service.NewJournalService(journalRepo, uploads, transcriber, archive, sugar)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    64 * 1024 * 1024, // audio uploads
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(sugar))
	app.Use(otelfiber.Middleware())
	app.Use(cors.New())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		sugar.Fatalw("failed to register prometheus metrics", "error", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, journalSvc, cfg.OwnerID)

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
		sugar.Fatalw("failed to start server", "error", err)
	}
}
