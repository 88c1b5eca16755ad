// Package backup archives the audit database to S3-compatible object storage
// on a schedule. Archives are gzip tarballs with a checksum metadata sidecar;
// old archives beyond the retention count are pruned after each upload.
package backup

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"

	appconfig "github.com/adeyinka/paydesk/internal/config"
)

// Checkpointer flushes the database WAL before the file is copied so the
// archive contains a complete snapshot.
type Checkpointer interface {
	WALCheckpoint() error
	Path() string
}

// Metadata describes one backup archive.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Filename  string    `json:"filename"`
	SizeBytes int64     `json:"size_bytes"`
	Checksum  string    `json:"checksum"`
}

// Service creates and uploads audit backups.
type Service struct {
	store   ObjectStore
	db      Checkpointer
	dataDir string
	retain  int
	log     zerolog.Logger
}

// ObjectStore is the object-storage surface the service needs. The S3
// implementation lives in s3.go; tests substitute an in-memory fake.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader) error
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}

// NewService creates a backup service.
func NewService(store ObjectStore, db Checkpointer, cfg *appconfig.Config, log zerolog.Logger) *Service {
	retain := 14
	if cfg.Backup != nil && cfg.Backup.RetainCount > 0 {
		retain = cfg.Backup.RetainCount
	}

	return &Service{
		store:   store,
		db:      db,
		dataDir: cfg.DataDir,
		retain:  retain,
		log:     log.With().Str("service", "backup").Logger(),
	}
}

// CreateAndUpload checkpoints the audit database, archives it and uploads the
// archive plus its metadata sidecar.
func (s *Service) CreateAndUpload(ctx context.Context) error {
	s.log.Info().Msg("Starting audit backup")
	start := time.Now()

	if err := s.db.WALCheckpoint(); err != nil {
		return fmt.Errorf("failed to checkpoint audit database: %w", err)
	}

	stagingDir := filepath.Join(s.dataDir, "backup-staging")
	if err := os.MkdirAll(stagingDir, 0755); err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stagingDir)

	timestamp := time.Now().UTC()
	archiveName := fmt.Sprintf("audit-%s.tar.gz", timestamp.Format("20060102-150405"))
	archivePath := filepath.Join(stagingDir, archiveName)

	if err := createArchive(s.db.Path(), archivePath); err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}

	checksum, size, err := fileChecksum(archivePath)
	if err != nil {
		return fmt.Errorf("failed to checksum archive: %w", err)
	}

	archive, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer archive.Close()

	if err := s.store.Upload(ctx, archiveName, archive); err != nil {
		return fmt.Errorf("failed to upload archive: %w", err)
	}

	metadata, err := json.Marshal(Metadata{
		Timestamp: timestamp,
		Filename:  archiveName,
		SizeBytes: size,
		Checksum:  checksum,
	})
	if err != nil {
		return fmt.Errorf("failed to encode backup metadata: %w", err)
	}

	if err := s.store.Upload(ctx, archiveName+".meta.json", bytes.NewReader(metadata)); err != nil {
		return fmt.Errorf("failed to upload backup metadata: %w", err)
	}

	if err := s.prune(ctx); err != nil {
		// Pruning failure leaves extra archives behind; the backup itself
		// succeeded, so log and move on.
		s.log.Warn().Err(err).Msg("Failed to prune old backups")
	}

	s.log.Info().
		Str("archive", archiveName).
		Int64("size_bytes", size).
		Dur("elapsed", time.Since(start)).
		Msg("Audit backup uploaded")

	return nil
}

// prune deletes the oldest archives beyond the retention count. Archive names
// embed a sortable timestamp, so lexical order is chronological.
func (s *Service) prune(ctx context.Context) error {
	keys, err := s.store.List(ctx, "audit-")
	if err != nil {
		return err
	}

	var archives []string
	for _, key := range keys {
		if filepath.Ext(key) == ".gz" {
			archives = append(archives, key)
		}
	}

	if len(archives) <= s.retain {
		return nil
	}

	sort.Strings(archives)
	for _, key := range archives[:len(archives)-s.retain] {
		if err := s.store.Delete(ctx, key); err != nil {
			return err
		}
		if err := s.store.Delete(ctx, key+".meta.json"); err != nil {
			return err
		}
		s.log.Debug().Str("key", key).Msg("Pruned old backup")
	}

	return nil
}

// createArchive writes a gzip tarball containing the single database file.
func createArchive(dbPath, archivePath string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	defer gz.Close()

	tw := tar.NewWriter(gz)
	defer tw.Close()

	info, err := os.Stat(dbPath)
	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = filepath.Base(dbPath)

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	src, err := os.Open(dbPath)
	if err != nil {
		return err
	}
	defer src.Close()

	_, err = io.Copy(tw, src)
	return err
}

func fileChecksum(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	hash := sha256.New()
	size, err := io.Copy(hash, f)
	if err != nil {
		return "", 0, err
	}

	return hex.EncodeToString(hash.Sum(nil)), size, nil
}
