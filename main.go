package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/conformahq/conforma-engine/pkg/audit"
	"github.com/conformahq/conforma-engine/pkg/auth"
	"github.com/conformahq/conforma-engine/pkg/config"
	"github.com/conformahq/conforma-engine/pkg/database"
	"github.com/conformahq/conforma-engine/pkg/handlers"
	"github.com/conformahq/conforma-engine/pkg/logging"
	"github.com/conformahq/conforma-engine/pkg/middleware"
	"github.com/conformahq/conforma-engine/pkg/repositories"
	"github.com/conformahq/conforma-engine/pkg/retry"
	"github.com/conformahq/conforma-engine/pkg/services"
	"github.com/conformahq/conforma-engine/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())))

	ctx := context.Background()

	// Run migrations via database/sql before opening the pgx pool
	migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := migrationDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	db, err := retry.DoWithResult(ctx, nil, func() (*database.DB, error) {
		return database.NewConnection(ctx, &database.Config{
			URL:            cfg.Database.ConnectionString(),
			MaxConnections: cfg.Database.MaxConnections,
		})
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	kindRegistry, err := services.LoadKindRegistry(cfg.ReferenceKindsPath)
	if err != nil {
		logger.Fatal("Failed to load reference kinds", zap.Error(err))
	}

	// Authentication
	validator, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create JWKS client", zap.Error(err))
	}
	defer validator.Close()
	auditor := audit.NewSecurityAuditor(logger)
	authMiddleware := auth.NewMiddleware(validator, auditor, logger)

	// Repositories
	entityRepo := repositories.NewReferenceEntityRepository(db)
	linkRepo := repositories.NewLinkRepository(db)
	complaintRepo := repositories.NewComplaintRepository(db)
	reportRepo := repositories.NewIncidentReportRepository(db)
	assessmentRepo := repositories.NewImpactAssessmentRepository(db)
	recordRepo := repositories.NewTrainingRecordRepository(db)

	// Services
	linkService := services.NewLinkService(linkRepo, cfg.Links.PendingTTL(), logger)
	entityService := services.NewReferenceEntityService(entityRepo, linkService, kindRegistry, logger)
	complaintService := services.NewComplaintService(complaintRepo, entityRepo, linkService, logger)
	reportService := services.NewIncidentReportService(reportRepo, entityRepo, linkService, logger)
	assessmentService := services.NewImpactAssessmentService(assessmentRepo, entityRepo, linkService, logger)
	recordService := services.NewTrainingRecordService(recordRepo, entityRepo, linkService, logger)

	linkService.RunSweeper(ctx, cfg.Links.SweepInterval())

	mux := http.NewServeMux()

	// Register handlers
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewReferenceEntityHandler(entityService, auditor, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewComplaintHandler(complaintService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewIncidentReportHandler(reportService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewImpactAssessmentHandler(assessmentService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewTrainingRecordHandler(recordService, logger).RegisterRoutes(mux, authMiddleware)

	// Attachment uploads are optional; without a bucket the endpoint is absent.
	if cfg.Uploads.Bucket != "" {
		storage, err := services.NewGCSStorage(ctx, cfg.Uploads.Bucket, logger)
		if err != nil {
			logger.Fatal("Failed to create object storage", zap.Error(err))
		}
		defer storage.Close() //nolint:errcheck
		handlers.NewUploadHandler(storage, cfg.Uploads.MaxSizeMB, logger).RegisterRoutes(mux, authMiddleware)
	} else {
		logger.Warn("No upload bucket configured; attachment uploads disabled")
	}

	// SPA catch-all; API and health routes are more specific and win.
	mux.Handle("/", ui.Handler())

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting conforma-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))

	if cfg.TLSCertPath != "" {
		err = http.ListenAndServeTLS(addr, cfg.TLSCertPath, cfg.TLSKeyPath, handler)
	} else {
		err = http.ListenAndServe(addr, handler)
	}
	if err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// newLogger builds the service logger. Local and development environments get
// console output; everything else logs production JSON.
func newLogger(env string) (*zap.Logger, error) {
	switch env {
	case "local", "development":
		return zap.NewDevelopment()
	default:
		return zap.NewProduction()
	}
}
