package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"

	"github.com/lantera/be-slf-workflow/internal/client"
	"github.com/lantera/be-slf-workflow/internal/config"
	"github.com/lantera/be-slf-workflow/internal/handler"
	"github.com/lantera/be-slf-workflow/internal/platform/database"
	"github.com/lantera/be-slf-workflow/internal/platform/logger"
	"github.com/lantera/be-slf-workflow/internal/platform/middleware"
	"github.com/lantera/be-slf-workflow/internal/render"
	"github.com/lantera/be-slf-workflow/internal/repository"
	"github.com/lantera/be-slf-workflow/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:       cfg.Service.LogLevel,
		Environment: cfg.Service.Environment,
		ServiceName: cfg.Service.Name,
		Version:     cfg.Service.Version,
	})

	log.Info().
		Str("service", cfg.Service.Name).
		Str("version", cfg.Service.Version).
		Str("environment", cfg.Service.Environment).
		Msg("Starting SLF Workflow Service")

	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := database.New(ctx, database.Config{
		Host:        cfg.Database.Host,
		Port:        cfg.Database.Port,
		User:        cfg.Database.User,
		Password:    cfg.Database.Password,
		Database:    cfg.Database.Database,
		SSLMode:     cfg.Database.SSLMode,
		MaxConns:    cfg.Database.MaxConns,
		MinConns:    cfg.Database.MinConns,
		MaxConnTime: cfg.Database.MaxConnTime,
		MaxIdleTime: cfg.Database.MaxIdleTime,
		HealthCheck: cfg.Database.HealthCheck,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("Database connection established")

	// Initialize repositories
	itemRepo := repository.NewChecklistItemRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	inspectionRepo := repository.NewInspectionRepository(db)
	reportRepo := repository.NewReportRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	auditRepo := repository.NewReportAuditRepository(db)

	// Initialize external clients
	identityURL := getEnv("IDENTITY_SERVICE_URL", "http://localhost:8081")
	identityClient := client.NewIdentityHTTPClient(identityURL)

	fileStore, err := client.NewLocalFileStore(getEnv("FILE_STORE_DIR", "./data/reports"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create file store")
	}

	var nc *nats.Conn
	if cfg.NATS.URL != "" {
		nc, err = nats.Connect(cfg.NATS.URL,
			nats.Name(cfg.Service.Name),
			nats.MaxReconnects(-1))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to NATS")
		}
		defer nc.Close()
		log.Info().Str("url", cfg.NATS.URL).Msg("NATS connection established")
	} else {
		log.Warn().Msg("NATS_URL not set, notifications disabled")
	}
	notifier := client.NewNotificationPublisher(nc, log.Logger)

	// Initialize services
	checklistService := service.NewChecklistService(itemRepo, responseRepo, inspectionRepo, projectRepo, log)
	projectService := service.NewProjectService(projectRepo, log)
	inspectionService := service.NewInspectionService(inspectionRepo, projectRepo, identityClient, log)
	reportService := service.NewReportService(reportRepo, inspectionRepo, projectRepo, itemRepo, responseRepo, auditRepo, render.NewTextRenderer(), fileStore, log)
	approvalService := service.NewApprovalService(reportRepo, approvalRepo, auditRepo, projectRepo, notifier, log)

	// Setup HTTP routes
	httpHandler := handler.NewHTTPHandler(checklistService, projectService, inspectionService, reportService, approvalService, log)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Checklist schema routes
	mux.HandleFunc("/api/v1/checklist-items", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			httpHandler.ListChecklistItems(w, r)
		case http.MethodPost:
			httpHandler.CreateChecklistItem(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/v1/checklist-items/get", httpHandler.GetChecklistItem)
	mux.HandleFunc("/api/v1/checklist-items/delete", httpHandler.DeleteChecklistItem)
	mux.HandleFunc("/api/v1/checklist-items/seed", httpHandler.SeedChecklistItems)

	// Project routes
	mux.HandleFunc("/api/v1/projects", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			httpHandler.ListProjects(w, r)
		case http.MethodPost:
			httpHandler.CreateProject(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/v1/projects/get", httpHandler.GetProject)

	// Inspection routes
	mux.HandleFunc("/api/v1/inspections", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			httpHandler.ListInspections(w, r)
		case http.MethodPost:
			httpHandler.ScheduleInspection(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/v1/inspections/get", httpHandler.GetInspection)
	mux.HandleFunc("/api/v1/inspections/start", httpHandler.StartInspection)
	mux.HandleFunc("/api/v1/inspections/complete", httpHandler.CompleteInspection)
	mux.HandleFunc("/api/v1/inspections/cancel", httpHandler.CancelInspection)

	// Response routes
	mux.HandleFunc("/api/v1/responses", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			httpHandler.ListResponses(w, r)
		case http.MethodPost:
			httpHandler.SubmitResponse(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/v1/responses/update", httpHandler.UpdateResponse)
	mux.HandleFunc("/api/v1/responses/delete", httpHandler.DeleteResponse)
	mux.HandleFunc("/api/v1/responses/summary", httpHandler.ResponseSummary)

	// Report routes
	mux.HandleFunc("/api/v1/reports", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			httpHandler.ListReports(w, r)
		case http.MethodPost:
			httpHandler.CreateReport(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/v1/reports/get", httpHandler.GetReport)
	mux.HandleFunc("/api/v1/reports/body", httpHandler.ReportBody)
	mux.HandleFunc("/api/v1/reports/export", httpHandler.ExportReport)
	mux.HandleFunc("/api/v1/reports/download", httpHandler.DownloadReport)
	mux.HandleFunc("/api/v1/reports/approve", httpHandler.ApproveReport)
	mux.HandleFunc("/api/v1/reports/reject", httpHandler.RejectReport)
	mux.HandleFunc("/api/v1/reports/approvals", httpHandler.ListApprovals)
	mux.HandleFunc("/api/v1/reports/history", httpHandler.ReportHistory)

	// Apply middleware
	var h http.Handler = mux
	h = handler.ActorMiddleware(identityClient, log)(h)
	h = middleware.RequestID(h)
	h = middleware.Logger(&log.Logger)(h)
	h = middleware.Recovery(&log.Logger)(h)
	h = middleware.CORS([]string{"*"})(h)
	h = middleware.Timeout(cfg.Server.RequestTimeout)(h)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	log.Info().Msg("Server stopped")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
