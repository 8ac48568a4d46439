package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/intake/pkg/adapters/file"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunRecordStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_OnDisk(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	_, err := store.CreateRecord(ctx, domain.Fields{records.FieldSessionID: "session-1", records.FieldCity: "Durban"})
	require.NoError(t, err)

	path := filepath.Join(dir, "session-1.json")
	_, err = os.Stat(path)
	require.NoError(t, err, "row should be written as <session>.json")

	leftovers, _ := filepath.Glob(filepath.Join(dir, "tmp-*"))
	assert.Empty(t, leftovers, "temp files are removed after rename")
}

func TestFileStore_IgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	_, err := store.CreateRecord(ctx, domain.Fields{records.FieldSessionID: "s1"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "garbage.txt"), []byte("garbage"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644))

	rows, err := store.ListRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFileStore_RejectsPathLikeIDs(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	_, err := store.CreateRecord(ctx, domain.Fields{records.FieldSessionID: "../escape"})
	assert.Error(t, err)

	_, err = store.FindBySessionID(ctx, "")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestFileStore_MissingDirectory(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "never-created"))

	rows, err := store.ListRecords(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = store.FindIncompleteApplication(context.Background(), "27821234567")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}
