package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/adeyinka/paydesk/internal/audit"
	"github.com/adeyinka/paydesk/internal/config"
	"github.com/adeyinka/paydesk/internal/scheduler"
	"github.com/adeyinka/paydesk/internal/upstream"
)

// JobReporter exposes background job run state. Satisfied by
// scheduler.Scheduler; nil when the process runs without jobs.
type JobReporter interface {
	Jobs() []scheduler.JobStatus
}

// SystemHandlers serves the operational health and info endpoints.
type SystemHandlers struct {
	cfg       *config.Config
	upstream  *upstream.Client
	auditLog  *audit.Store
	sessions  *SessionRegistry
	jobs      JobReporter
	log       zerolog.Logger
	startedAt time.Time
}

// NewSystemHandlers creates the system endpoint handlers.
func NewSystemHandlers(cfg *config.Config, client *upstream.Client, auditLog *audit.Store, sessions *SessionRegistry, jobs JobReporter, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		cfg:       cfg,
		upstream:  client,
		auditLog:  auditLog,
		sessions:  sessions,
		jobs:      jobs,
		log:       log.With().Str("component", "system").Logger(),
		startedAt: time.Now(),
	}
}

// HandleHealth handles GET /api/system/health. The gateway reports degraded
// rather than failing the probe when the audit database is unreachable, since
// search still works without it.
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	checks := map[string]string{}

	if h.auditLog != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.auditLog.HealthCheck(ctx); err != nil {
			h.log.Warn().Err(err).Msg("Audit database health check failed")
			checks["audit_db"] = "unreachable"
			status = "degraded"
		} else {
			checks["audit_db"] = "ok"
		}
	} else {
		checks["audit_db"] = "disabled"
	}

	respondJSON(w, http.StatusOK, apiResponse{Status: true, Data: map[string]any{
		"status":         status,
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
		"sessions":       h.sessions.Len(),
		"checks":         checks,
	}})
}

// HandleInfo handles GET /api/system/info with host resource usage and
// storage footprint for the ops dashboard.
func (h *SystemHandlers) HandleInfo(w http.ResponseWriter, r *http.Request) {
	cpuAvg, ramPercent := h.systemStats()

	data := map[string]any{
		"go_version":     runtime.Version(),
		"goroutines":     runtime.NumGoroutine(),
		"cpu_percent":    cpuAvg,
		"ram_percent":    ramPercent,
		"data_dir_mb":    h.dirSizeMB(h.cfg.DataDir),
		"exports_mb":     h.dirSizeMB(filepath.Join(h.cfg.DataDir, "exports")),
		"upstream_url":   h.cfg.UpstreamBaseURL,
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
	}
	if h.jobs != nil {
		data["jobs"] = h.jobs.Jobs()
	}

	respondJSON(w, http.StatusOK, apiResponse{Status: true, Data: data})
}

// systemStats samples CPU over a short window so the endpoint stays fast for
// polling clients, then reads memory instantaneously.
func (h *SystemHandlers) systemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) dirSizeMB(dir string) float64 {
	var total int64

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		h.log.Warn().Err(err).Str("dir", dir).Msg("Failed to calculate directory size")
		return 0
	}

	return float64(total) / 1024 / 1024
}
