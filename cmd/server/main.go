package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "vitalis/docs"
	"vitalis/internal/config"
	"vitalis/internal/email/noop"
	"vitalis/internal/email/ses"
	"vitalis/internal/extractor"
	"vitalis/internal/extractor/claude"
	"vitalis/internal/extractor/openai"
	"vitalis/internal/handler"
	"vitalis/internal/port"
	"vitalis/internal/repository/postgres"
	"vitalis/internal/router"
	"vitalis/internal/service"
	s3storage "vitalis/internal/storage/s3"
)

// @title Vitalis API
// @version 1.0
// @description Backend for the Vitalis health companion app: document uploads, AI extraction, metric sync, and daily summaries.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	fileRepo := postgres.NewFileMetaRepo(db)
	docRepo := postgres.NewHealthDocumentRepo(db)
	metricRepo := postgres.NewHealthMetricRepo(db)
	summaryRepo := postgres.NewDailySummaryRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize AI extraction
	registerExtractorProviders()
	docExtractor, err := buildExtractor(&cfg.Extractor)
	if err != nil {
		return fmt.Errorf("failed to initialize extractor: %w", err)
	}
	generator, err := buildGenerator(&cfg.Extractor)
	if err != nil {
		return fmt.Errorf("failed to initialize summary generator: %w", err)
	}

	// Initialize email delivery
	emailSender, err := buildEmailSender(&cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	fileSvc := service.NewFileService(fileRepo, s3Client, &cfg.S3)
	healthDataSvc := service.NewHealthDataService(metricRepo)
	docSvc := service.NewDocumentService(docRepo, fileRepo, userRepo, docExtractor, s3Client, healthDataSvc, cfg.Quota.MonthlyDocLimit)
	syncSvc := service.NewSyncService(metricRepo)
	summaryModel := cfg.Extractor.SummaryModel
	if summaryModel == "" {
		summaryModel = cfg.Extractor.Primary.Model
	}
	summarySvc := service.NewSummaryService(summaryRepo, metricRepo, userRepo, generator, emailSender, summaryModel)
	reportSvc := service.NewReportService(metricRepo)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	fileH := handler.NewFileHandler(fileSvc)
	docH := handler.NewDocumentHandler(docSvc)
	metricH := handler.NewMetricHandler(healthDataSvc, syncSvc)
	summaryH := handler.NewSummaryHandler(summarySvc)
	reportH := handler.NewReportHandler(reportSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, authSvc, authH, fileH, docH, metricH, summaryH, reportH, healthH)

	// Start the extraction queue worker alongside the HTTP server.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	worker := service.NewExtractQueueWorker(docRepo, docSvc, service.ExtractQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
	})
	go worker.Start(workerCtx)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server failed: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Printf("Received %s, shutting down", sig)
	}

	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

func registerExtractorProviders() {
	extractor.RegisterProvider("claude", func(cfg *config.ExtractorProviderConfig) (port.DocumentExtractor, error) {
		return claude.NewExtractor(cfg), nil
	})
	extractor.RegisterProvider("openai", func(cfg *config.ExtractorProviderConfig) (port.DocumentExtractor, error) {
		return openai.NewExtractor(cfg), nil
	})
}

// buildExtractor creates the document extractor, wrapping primary and
// secondary providers in a fallback chain when both are configured.
func buildExtractor(cfg *config.ExtractorConfig) (port.DocumentExtractor, error) {
	primary, err := extractor.NewExtractor(&cfg.Primary)
	if err != nil {
		return nil, err
	}

	secondaryCfg := cfg.SecondaryConfig()
	if secondaryCfg == nil {
		return primary, nil
	}

	secondary, err := extractor.NewExtractor(secondaryCfg)
	if err != nil {
		return nil, err
	}

	return extractor.NewFallbackExtractor(
		[]port.DocumentExtractor{primary, secondary},
		[]string{cfg.Primary.Provider, secondaryCfg.Provider},
	), nil
}

// buildGenerator creates the text generator used for daily summaries. It
// reuses the primary provider's credentials, optionally with a cheaper model.
func buildGenerator(cfg *config.ExtractorConfig) (port.TextGenerator, error) {
	genCfg := cfg.Primary
	if cfg.SummaryModel != "" {
		genCfg.Model = cfg.SummaryModel
	}

	switch genCfg.Provider {
	case "claude":
		return claude.NewExtractor(&genCfg), nil
	case "openai":
		return openai.NewExtractor(&genCfg), nil
	default:
		return nil, fmt.Errorf("unknown generator provider: %s", genCfg.Provider)
	}
}

func buildEmailSender(cfg *config.EmailConfig) (port.EmailSender, error) {
	switch cfg.Provider {
	case "ses":
		return ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName)
	default:
		return noop.NewNoopSender(), nil
	}
}
