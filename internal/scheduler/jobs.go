package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// BackupRunner creates and uploads one backup archive.
type BackupRunner interface {
	CreateAndUpload(ctx context.Context) error
}

// AuditBackupJob archives the audit database to object storage.
type AuditBackupJob struct {
	runner BackupRunner
	log    zerolog.Logger
}

// NewAuditBackupJob creates the nightly backup job.
func NewAuditBackupJob(runner BackupRunner, log zerolog.Logger) *AuditBackupJob {
	return &AuditBackupJob{
		runner: runner,
		log:    log.With().Str("job", "audit_backup").Logger(),
	}
}

// Name implements Job.
func (j *AuditBackupJob) Name() string { return "audit_backup" }

// Run implements Job.
func (j *AuditBackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	return j.runner.CreateAndUpload(ctx)
}

// BulkExporter requests a wallet bulk export for a date window.
type BulkExporter interface {
	ExportWalletAll(ctx context.Context, startDate, endDate string) (string, error)
}

// AuditRecorder mirrors the audit store's append method.
type AuditRecorder interface {
	AppendBulkExport(ctx context.Context, window, outcome, message string) error
}

// WalletExportJob requests the previous day's wallet export from upstream.
// The backend delivers the export by email; the job only triggers it.
type WalletExportJob struct {
	exporter BulkExporter
	recorder AuditRecorder // optional
	log      zerolog.Logger
	now      func() time.Time
}

// NewWalletExportJob creates the scheduled bulk-export job.
func NewWalletExportJob(exporter BulkExporter, recorder AuditRecorder, log zerolog.Logger) *WalletExportJob {
	return &WalletExportJob{
		exporter: exporter,
		recorder: recorder,
		log:      log.With().Str("job", "wallet_export").Logger(),
		now:      time.Now,
	}
}

// Name implements Job.
func (j *WalletExportJob) Name() string { return "wallet_export" }

// Run implements Job.
func (j *WalletExportJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	yesterday := j.now().AddDate(0, 0, -1).Format("2006-01-02")

	message, err := j.exporter.ExportWalletAll(ctx, yesterday, yesterday)
	if err != nil {
		j.recordOutcome(ctx, yesterday, "failure", err.Error())
		return err
	}

	j.recordOutcome(ctx, yesterday, "success", message)
	j.log.Info().Str("window", yesterday).Str("message", message).Msg("Bulk export requested")
	return nil
}

func (j *WalletExportJob) recordOutcome(ctx context.Context, window, outcome, message string) {
	if j.recorder == nil {
		return
	}
	if err := j.recorder.AppendBulkExport(ctx, window, outcome, message); err != nil {
		j.log.Error().Err(err).Msg("Failed to record bulk export in audit log")
	}
}
