package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/contre95/photoimport/src/features/config"
	"github.com/contre95/photoimport/src/infra/notify"
	"github.com/contre95/photoimport/src/infra/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Notify.Recipient = "me"
	cfg.Notify.Backend = "command"
	cfg.Notify.Command = "true"
	cfg.Import.Command = "true"
	cfg.Import.Args = nil
	cfg.Import.HostApp = "photoimport-test-host"
	cfg.Import.ImporterProcess = ""
	cfg.Storage.Path = dir
	cfg.Storage.MinFreeBytes = 0
	cfg.Records.ImportedPath = filepath.Join(dir, "imported_photos.csv")
	cfg.Records.ErroredPath = filepath.Join(dir, "error_importing.csv")
	cfg.Logger.RunLogDir = ""
	return cfg
}

func TestNewSender(t *testing.T) {
	s, err := newSender(config.Notify{Backend: "imessage"})
	require.NoError(t, err)
	assert.IsType(t, &notify.IMessage{}, s)

	s, err = newSender(config.Notify{Backend: "command", Command: "echo {{.Message}}"})
	require.NoError(t, err)
	assert.Equal(t, "command", s.Name())

	_, err = newSender(config.Notify{Backend: "telegram"})
	assert.Error(t, err)
}

func TestNewRecordStore(t *testing.T) {
	cfg := testConfig(t)

	store, err := newRecordStore(cfg.Records)
	require.NoError(t, err)
	assert.IsType(t, &records.TextStore{}, store)
	require.NoError(t, store.Close())

	cfg.Records.Backend = "sqlite"
	cfg.Records.SqlitePath = filepath.Join(t.TempDir(), "records.db")
	store, err = newRecordStore(cfg.Records)
	require.NoError(t, err)
	assert.IsType(t, &records.SqliteStore{}, store)
	require.NoError(t, store.Close())
}

func TestPreflight(t *testing.T) {
	s, err := newSession(testConfig(t))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	_, err = s.preflight(ctx, nil)
	assert.ErrorIs(t, err, ErrPrecondition)

	_, err = s.preflight(ctx, []string{filepath.Join(t.TempDir(), "missing")})
	assert.ErrorIs(t, err, ErrPrecondition)
	assert.ErrorContains(t, err, "does not exist")

	root := t.TempDir()
	got, err := s.preflight(ctx, []string{root})
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestPreflight_ImporterMissing(t *testing.T) {
	cfg := testConfig(t)
	cfg.Import.Command = "photoimport-no-such-importer"
	s, err := newSession(cfg)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.preflight(context.Background(), []string{t.TempDir()})
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestRunCommand_ImportsAndIsIncremental(t *testing.T) {
	cfg := testConfig(t)
	photos := t.TempDir()
	for _, name := range []string{"a.jpg", "b.txt", "c.HEIC"} {
		require.NoError(t, os.WriteFile(filepath.Join(photos, name), []byte("x"), 0o644))
	}
	configFile := filepath.Join(t.TempDir(), "photoimport.yaml")
	require.NoError(t, config.NewManager(cfg).Save(configFile))

	rootCmd.SetArgs([]string{"--config", configFile, "run", photos})
	require.NoError(t, Execute(context.Background()))

	imported := readLines(t, cfg.Records.ImportedPath)
	assert.Equal(t, []string{filepath.Join(photos, "a.jpg"), filepath.Join(photos, "c.HEIC")}, imported)
	assert.Empty(t, readLines(t, cfg.Records.ErroredPath))

	rootCmd.SetArgs([]string{"--config", configFile, "run", photos})
	require.NoError(t, Execute(context.Background()))
	assert.Len(t, readLines(t, cfg.Records.ImportedPath), 2, "second run dispatches nothing")
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err, fmt.Sprintf("reading %s", path))
	var lines []string
	for _, l := range strings.Split(string(data), "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	sort.Strings(lines)
	return lines
}

func TestConfigCommand_WriteFillsDefaults(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "photoimport.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("notify:\n  recipient: me\nlogger:\n  run_log_dir: \"\"\n"), 0o644))
	t.Setenv("APPLE_ID", "")
	t.Cleanup(func() { configWrite = false })

	rootCmd.SetArgs([]string{"--config", configFile, "config", "--write"})
	require.NoError(t, Execute(context.Background()))

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "recipient: me")
	assert.Contains(t, string(data), "batch_size: 500")
	assert.Contains(t, string(data), "allowed_extensions:")

	saved, err := config.Load(configFile)
	require.NoError(t, err)
	assert.Equal(t, "me", saved.Get().Notify.Recipient)
}
