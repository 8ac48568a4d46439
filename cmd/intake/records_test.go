package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/intake/pkg/adapters/file"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordsFixture writes one Draft row into a file store and a config pointing at it.
func recordsFixture(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	storeDir := filepath.Join(dir, "records")

	_, err := file.New(storeDir).CreateRecord(context.Background(), domain.Fields{
		"Session ID":         "sess-1",
		"WhatsApp Number":    "27821234567",
		"Application Status": "Draft",
		"Last Updated":       "2025-06-01T10:00:00Z",
		"Full Name":          "Thandi Mokoena",
		"South African ID":   "9001015009087",
	})
	require.NoError(t, err)

	cfgPath := filepath.Join(dir, "intake.yaml")
	cfg := "store:\n  driver: file\n  path: " + storeDir + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	return []string{"--config", cfgPath, "--env-file", filepath.Join(dir, "missing.env")}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRecordsShow_Redacted(t *testing.T) {
	flags := recordsFixture(t)

	out, err := execute(t, append([]string{"records", "show", "sess-1", "--redact=true"}, flags...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "Thandi Mokoena")
	assert.Contains(t, out, "*********9087")
	assert.NotContains(t, out, "9001015009087")
	assert.NotContains(t, out, "27821234567")
}

func TestRecordsShow_Unredacted(t *testing.T) {
	flags := recordsFixture(t)

	out, err := execute(t, append([]string{"records", "show", "sess-1", "--redact=false"}, flags...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "9001015009087")
}

func TestRecordsShow_Unknown(t *testing.T) {
	flags := recordsFixture(t)

	_, err := execute(t, append([]string{"records", "show", "nope", "--redact=true"}, flags...)...)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestRecordsFind(t *testing.T) {
	flags := recordsFixture(t)

	out, err := execute(t, append([]string{"records", "find", "27821234567", "--redact=true"}, flags...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "# session sess-1, Draft, updated 2025-06-01T10:00:00Z")
	assert.Contains(t, out, "Thandi Mokoena")
}

func TestRecordsList(t *testing.T) {
	flags := recordsFixture(t)

	out, err := execute(t, append([]string{"records", "list", "--redact=true"}, flags...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "sess-1")
	assert.Contains(t, out, "*******4567")
}

func TestRecords_NeedsPersistentStore(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "records", "list", "--redact=true", "--env-file", filepath.Join(dir, "missing.env"), "--config", "")
	assert.ErrorIs(t, err, errNoRecordStore)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "intake version dev\n", out)
}
