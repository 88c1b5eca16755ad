// Package main is the entry point for the paydesk ops gateway. The gateway
// fronts the finance backend API with the search-and-reconcile workflow used
// by the operations dashboard: per-session search controllers with bounded
// history, derived result views, and audited secondary actions (webhook
// resend, JSON export, proof-of-payment rendering).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adeyinka/paydesk/internal/audit"
	"github.com/adeyinka/paydesk/internal/backup"
	"github.com/adeyinka/paydesk/internal/config"
	"github.com/adeyinka/paydesk/internal/scheduler"
	"github.com/adeyinka/paydesk/internal/server"
	"github.com/adeyinka/paydesk/internal/upstream"
	"github.com/adeyinka/paydesk/pkg/logger"
)

func main() {
	// Load configuration first to get log level.
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Pretty:  cfg.DevMode,
		Service: "paydesk-gateway",
	})

	log.Info().Msg("Starting paydesk gateway")

	// Audit database. Every secondary action performed through the gateway
	// lands here; searches themselves are never persisted.
	auditDB, err := audit.Open(cfg.AuditDBPath())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open audit database")
	}
	defer auditDB.Close()

	auditStore := audit.NewStore(auditDB, log)

	// Upstream finance API client, shared by every session.
	client := upstream.NewClient(upstream.Config{
		BaseURL: cfg.UpstreamBaseURL,
		Token:   cfg.UpstreamToken,
		Timeout: cfg.SearchTimeout,
	}, log)

	// Background jobs: nightly audit backup to object storage and the
	// optional scheduled wallet bulk export.
	sched := scheduler.New(log)

	srv := server.New(server.Config{
		Cfg:      cfg,
		Log:      log,
		Upstream: client,
		Audit:    auditStore,
		Jobs:     sched,
	})

	if cfg.Backup != nil && cfg.Backup.Enabled && cfg.BackupSchedule != "" {
		store, err := backup.NewS3Store(context.Background(), cfg.Backup, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize backup storage")
		}

		backupSvc := backup.NewService(store, auditDB, cfg, log)
		job := scheduler.NewAuditBackupJob(backupSvc, log)
		if err := sched.AddJob(cfg.BackupSchedule, job); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.BackupSchedule).Msg("Failed to schedule audit backup")
		}
	} else {
		log.Info().Msg("Audit backup disabled")
	}

	if cfg.BulkExportSchedule != "" {
		job := scheduler.NewWalletExportJob(client, auditStore, log)
		if err := sched.AddJob(cfg.BulkExportSchedule, job); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.BulkExportSchedule).Msg("Failed to schedule wallet export")
		}
	}

	sched.Start()

	// Session janitor evicts idle workflow sessions.
	janitorCtx, cancelJanitor := context.WithCancel(context.Background())
	defer cancelJanitor()
	srv.Sessions().StartJanitor(janitorCtx)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started")

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	cancelJanitor()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
