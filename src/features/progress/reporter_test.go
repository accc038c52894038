package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/contre95/photoimport/src/features/importing"
	"github.com/contre95/photoimport/src/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outcome(processed, total int, d time.Duration) importing.Event {
	return importing.Event{
		Kind:     importing.EventOutcome,
		Outcome:  media.Success,
		Duration: d,
		Stats:    importing.Stats{Total: total, Processed: processed, Imported: processed},
	}
}

func TestObserve_MovingAverage(t *testing.T) {
	r := NewReporter(&bytes.Buffer{})

	r.Observe(outcome(1, 100, 6*time.Second))
	e := r.Estimate()
	assert.InDelta(t, float64(2*time.Second), float64(e.Average), float64(time.Millisecond))
	assert.Equal(t, 99, e.Remaining)
	assert.InDelta(t, 99.0, e.PercentRemaining, 0.001)
	assert.Equal(t, 3*time.Minute, e.ETA, "99 × 2s = 198s, truncated to whole minutes")

	r.Observe(outcome(2, 100, 2*time.Second))
	assert.InDelta(t, float64(2*time.Second), float64(r.Estimate().Average), float64(time.Millisecond))
}

func TestObserve_IgnoresRestarts(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)

	r.Observe(importing.Event{Kind: importing.EventRestart, Reason: importing.RestartBatch})
	assert.Empty(t, out.String())
	assert.Equal(t, Estimate{}, r.Estimate())
}

func TestRender_PadsToWidestLine(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)

	r.Observe(outcome(1, 1000, 10*time.Minute))
	r.Observe(outcome(999, 1000, 0))

	lines := strings.Split(strings.TrimPrefix(out.String(), "\r"), "\r")
	require.Len(t, lines, 2)
	assert.Greater(t, len(strings.TrimRight(lines[0], " ")), len(strings.TrimRight(lines[1], " ")))
	assert.Equal(t, lipgloss.Width(lines[0]), lipgloss.Width(lines[1]))
	assert.True(t, strings.HasPrefix(lines[1], "999/1000 processed (0 errors and 0 duplicates)."))
}

func TestMessage_RedrawsStatusLine(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)

	r.Observe(outcome(1, 2, time.Second))
	r.Message("Restarting %s to avoid import errors (%s).", "Photos", "batch")

	text := out.String()
	assert.Contains(t, text, "Restarting Photos to avoid import errors (batch).")
	assert.True(t, strings.HasSuffix(text, "\r1/2 processed (0 errors and 0 duplicates). 50.0% remaining, about 0 min left."))
}

func TestFinish_EndsLine(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)

	r.Finish(importing.Stats{Total: 3, Processed: 3, Imported: 2, Errors: 1})
	assert.Equal(t, "\r3/3 processed (1 errors and 0 duplicates).\n", out.String())
}
