// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir string // Base directory for the audit database and export staging (always absolute)

	// Upstream finance API
	UpstreamBaseURL string        // Base URL of the finance backend
	UpstreamToken   string        // Bearer token attached to every upstream call
	SearchTimeout   time.Duration // Per-call deadline for search requests
	ActionTimeout   time.Duration // Per-call deadline for secondary actions (webhook resend, bulk export)

	// Gateway server
	Port           int
	SessionTTL     time.Duration // Idle eviction window for in-memory workflow sessions
	CompanyName    string        // Rendered on proof-of-payment documents
	CompanySupport string        // Support contact line on proof-of-payment documents

	// Backup (S3-compatible storage for the audit database)
	Backup *BackupConfig

	// Scheduled jobs
	BackupSchedule     string // cron expression for the audit backup job ("" disables)
	BulkExportSchedule string // cron expression for the wallet bulk-export job ("" disables)

	LogLevel string
	DevMode  bool
}

// BackupConfig holds S3-compatible backup storage configuration
type BackupConfig struct {
	Enabled         bool
	Endpoint        string // Custom endpoint for R2/MinIO style providers, empty for AWS
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string // Key prefix inside the bucket
	RetainCount     int    // Number of backup archives to keep
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("PAYDESK_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:            absDataDir,
		UpstreamBaseURL:    getEnv("FINANCE_API_URL", "http://localhost:9000"),
		UpstreamToken:      getEnv("FINANCE_API_TOKEN", ""),
		SearchTimeout:      getEnvAsDuration("SEARCH_TIMEOUT", 60*time.Second),
		ActionTimeout:      getEnvAsDuration("ACTION_TIMEOUT", 30*time.Second),
		Port:               getEnvAsInt("PAYDESK_PORT", 8080),
		SessionTTL:         getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		CompanyName:        getEnv("COMPANY_NAME", "Paydesk Financial Services"),
		CompanySupport:     getEnv("COMPANY_SUPPORT", "support@paydesk.example"),
		Backup:             loadBackupConfig(),
		BackupSchedule:     getEnv("BACKUP_SCHEDULE", "0 0 3 * * *"), // 03:00 daily
		BulkExportSchedule: getEnv("BULK_EXPORT_SCHEDULE", ""),       // disabled unless configured
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DevMode:            getEnvAsBool("DEV_MODE", false),
	}

	if cfg.UpstreamBaseURL == "" {
		return nil, fmt.Errorf("FINANCE_API_URL must not be empty")
	}

	return cfg, nil
}

// loadBackupConfig reads backup settings, returning a disabled config when the
// bucket is not set.
func loadBackupConfig() *BackupConfig {
	bucket := getEnv("BACKUP_S3_BUCKET", "")

	return &BackupConfig{
		Enabled:         bucket != "",
		Endpoint:        getEnv("BACKUP_S3_ENDPOINT", ""),
		Region:          getEnv("BACKUP_S3_REGION", "auto"),
		Bucket:          bucket,
		AccessKeyID:     getEnv("BACKUP_S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("BACKUP_S3_SECRET_ACCESS_KEY", ""),
		Prefix:          getEnv("BACKUP_S3_PREFIX", "paydesk-backups"),
		RetainCount:     getEnvAsInt("BACKUP_RETAIN_COUNT", 14),
	}
}

// AuditDBPath returns the path of the audit database file
func (c *Config) AuditDBPath() string {
	return filepath.Join(c.DataDir, "audit.db")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
