package backup

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/adeyinka/paydesk/internal/config"
)

type fakeStore struct {
	objects map[string][]byte
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Upload(ctx context.Context, key string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeCheckpointer struct {
	path         string
	checkpointed bool
}

func (f *fakeCheckpointer) WALCheckpoint() error {
	f.checkpointed = true
	return nil
}

func (f *fakeCheckpointer) Path() string { return f.path }

func newTestService(t *testing.T, store ObjectStore, retain int) (*Service, *fakeCheckpointer) {
	t.Helper()

	dataDir := t.TempDir()
	dbPath := filepath.Join(dataDir, "audit.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("sqlite-content"), 0644))

	db := &fakeCheckpointer{path: dbPath}
	cfg := &appconfig.Config{
		DataDir: dataDir,
		Backup:  &appconfig.BackupConfig{RetainCount: retain},
	}
	return NewService(store, db, cfg, zerolog.Nop()), db
}

func TestCreateAndUpload(t *testing.T) {
	store := newFakeStore()
	svc, db := newTestService(t, store, 14)

	require.NoError(t, svc.CreateAndUpload(context.Background()))
	assert.True(t, db.checkpointed)

	var archiveKey, metaKey string
	for key := range store.objects {
		if strings.HasSuffix(key, ".tar.gz") {
			archiveKey = key
		}
		if strings.HasSuffix(key, ".meta.json") {
			metaKey = key
		}
	}
	require.NotEmpty(t, archiveKey)
	require.NotEmpty(t, metaKey)
	assert.Equal(t, archiveKey+".meta.json", metaKey)

	// The archive holds the database file with its original name.
	gz, err := gzip.NewReader(bytes.NewReader(store.objects[archiveKey]))
	require.NoError(t, err)
	tr := tar.NewReader(gz)
	header, err := tr.Next()
	require.NoError(t, err)
	assert.Equal(t, "audit.db", header.Name)

	content, err := io.ReadAll(tr)
	require.NoError(t, err)
	assert.Equal(t, []byte("sqlite-content"), content)

	// The sidecar references the archive and carries a checksum.
	var meta Metadata
	require.NoError(t, json.Unmarshal(store.objects[metaKey], &meta))
	assert.Equal(t, archiveKey, meta.Filename)
	assert.Len(t, meta.Checksum, 64) // sha256 hex
	assert.Greater(t, meta.SizeBytes, int64(0))
}

func TestPruneKeepsNewest(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(t, store, 2)

	// Seed three dated archives plus sidecars; lexical order is chronological.
	for i := 1; i <= 3; i++ {
		key := fmt.Sprintf("audit-2024010%d-000000.tar.gz", i)
		store.objects[key] = []byte("x")
		store.objects[key+".meta.json"] = []byte("{}")
	}

	require.NoError(t, svc.prune(context.Background()))

	assert.NotContains(t, store.objects, "audit-20240101-000000.tar.gz")
	assert.Contains(t, store.objects, "audit-20240102-000000.tar.gz")
	assert.Contains(t, store.objects, "audit-20240103-000000.tar.gz")
	assert.Contains(t, store.deleted, "audit-20240101-000000.tar.gz.meta.json")
}

func TestPrune_UnderRetentionIsNoop(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(t, store, 5)

	store.objects["audit-20240101-000000.tar.gz"] = []byte("x")
	require.NoError(t, svc.prune(context.Background()))
	assert.Empty(t, store.deleted)
}

func TestCreateAndUpload_StagingCleanedUp(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(t, store, 14)

	require.NoError(t, svc.CreateAndUpload(context.Background()))

	_, err := os.Stat(filepath.Join(svc.dataDir, "backup-staging"))
	assert.True(t, os.IsNotExist(err))
}
