package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackupRunner struct {
	err   error
	calls int
}

func (f *fakeBackupRunner) CreateAndUpload(ctx context.Context) error {
	f.calls++
	return f.err
}

func TestAuditBackupJob(t *testing.T) {
	runner := &fakeBackupRunner{}
	job := NewAuditBackupJob(runner, zerolog.Nop())

	assert.Equal(t, "audit_backup", job.Name())
	require.NoError(t, job.Run())
	assert.Equal(t, 1, runner.calls)
}

func TestAuditBackupJob_PropagatesError(t *testing.T) {
	runner := &fakeBackupRunner{err: errors.New("bucket unreachable")}
	job := NewAuditBackupJob(runner, zerolog.Nop())
	assert.Error(t, job.Run())
}

type fakeExporter struct {
	message   string
	err       error
	lastStart string
	lastEnd   string
}

func (f *fakeExporter) ExportWalletAll(ctx context.Context, startDate, endDate string) (string, error) {
	f.lastStart, f.lastEnd = startDate, endDate
	return f.message, f.err
}

type fakeAuditRecorder struct {
	windows  []string
	outcomes []string
}

func (f *fakeAuditRecorder) AppendBulkExport(ctx context.Context, window, outcome, message string) error {
	f.windows = append(f.windows, window)
	f.outcomes = append(f.outcomes, outcome)
	return nil
}

func TestWalletExportJob_RequestsYesterday(t *testing.T) {
	exporter := &fakeExporter{message: "queued"}
	recorder := &fakeAuditRecorder{}
	job := NewWalletExportJob(exporter, recorder, zerolog.Nop())
	job.now = func() time.Time {
		return time.Date(2024, 3, 15, 4, 0, 0, 0, time.UTC)
	}

	assert.Equal(t, "wallet_export", job.Name())
	require.NoError(t, job.Run())

	assert.Equal(t, "2024-03-14", exporter.lastStart)
	assert.Equal(t, "2024-03-14", exporter.lastEnd)
	require.Len(t, recorder.outcomes, 1)
	assert.Equal(t, "success", recorder.outcomes[0])
	assert.Equal(t, "2024-03-14", recorder.windows[0])
}

func TestWalletExportJob_RecordsFailure(t *testing.T) {
	exporter := &fakeExporter{err: errors.New("upstream down")}
	recorder := &fakeAuditRecorder{}
	job := NewWalletExportJob(exporter, recorder, zerolog.Nop())

	assert.Error(t, job.Run())
	require.Len(t, recorder.outcomes, 1)
	assert.Equal(t, "failure", recorder.outcomes[0])
}

func TestWalletExportJob_NilRecorderTolerated(t *testing.T) {
	job := NewWalletExportJob(&fakeExporter{message: "ok"}, nil, zerolog.Nop())
	assert.NoError(t, job.Run())
}

func TestScheduler_AddJobValidatesSchedule(t *testing.T) {
	s := New(zerolog.Nop())
	err := s.AddJob("not a cron expression", NewAuditBackupJob(&fakeBackupRunner{}, zerolog.Nop()))
	assert.Error(t, err)
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(zerolog.Nop())
	runner := &fakeBackupRunner{}
	require.NoError(t, s.RunNow(NewAuditBackupJob(runner, zerolog.Nop())))
	assert.Equal(t, 1, runner.calls)
}

func TestScheduler_JobLedger(t *testing.T) {
	s := New(zerolog.Nop())
	at := time.Date(2024, 3, 15, 3, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }

	runner := &fakeBackupRunner{}
	job := NewAuditBackupJob(runner, zerolog.Nop())
	require.NoError(t, s.AddJob("0 0 3 * * *", job))

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "audit_backup", jobs[0].Name)
	assert.Equal(t, "0 0 3 * * *", jobs[0].Schedule)
	assert.Zero(t, jobs[0].Runs)
	assert.True(t, jobs[0].LastRun.IsZero())

	require.NoError(t, s.RunNow(job))

	jobs = s.Jobs()
	assert.Equal(t, 1, jobs[0].Runs)
	assert.Zero(t, jobs[0].Failures)
	assert.Equal(t, at, jobs[0].LastRun)
	assert.Empty(t, jobs[0].LastError)
}

func TestScheduler_JobLedgerRecordsFailure(t *testing.T) {
	s := New(zerolog.Nop())
	job := NewAuditBackupJob(&fakeBackupRunner{err: errors.New("bucket gone")}, zerolog.Nop())

	// RunNow on an unscheduled job still opens a ledger entry.
	require.Error(t, s.RunNow(job))

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, 1, jobs[0].Runs)
	assert.Equal(t, 1, jobs[0].Failures)
	assert.Equal(t, "bucket gone", jobs[0].LastError)
	assert.Empty(t, jobs[0].Schedule)
}
