package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/contre95/photoimport/src/features/importing"
	"github.com/contre95/photoimport/src/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ObserveAndWriteTextfile(t *testing.T) {
	run := NewRun()
	run.Observe(importing.Event{Kind: importing.EventOutcome, Outcome: media.Success, Duration: time.Second,
		Stats: importing.Stats{Total: 3, Processed: 1}})
	run.Observe(importing.Event{Kind: importing.EventOutcome, Outcome: media.TimedOut, Duration: 30 * time.Second,
		Stats: importing.Stats{Total: 3, Processed: 2}})
	run.Observe(importing.Event{Kind: importing.EventRestart, Reason: importing.RestartTimeout})

	path := filepath.Join(t.TempDir(), "photoimport.prom")
	require.NoError(t, run.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `photoimport_files_total{outcome="success"} 1`)
	assert.Contains(t, text, `photoimport_files_total{outcome="timed_out"} 1`)
	assert.Contains(t, text, `photoimport_restarts_total{reason="timeout"} 1`)
	assert.Contains(t, text, "photoimport_queue_remaining 1")
	assert.Contains(t, text, "photoimport_import_duration_seconds_count 2")
	assert.Contains(t, text, "photoimport_last_run_timestamp_seconds")
}

func TestRun_WriteTextfileDisabled(t *testing.T) {
	assert.NoError(t, NewRun().WriteTextfile(""))
}

func TestRun_RegistryGathers(t *testing.T) {
	run := NewRun()
	families, err := run.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
