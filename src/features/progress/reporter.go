package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/contre95/photoimport/src/features/importing"
)

const (
	// smoothing is the weight kept from the previous average.
	smoothing   = 0.8
	seedAverage = time.Second
)

var messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00")).Bold(true)

// Estimate is the derived view of progress after an outcome.
type Estimate struct {
	Remaining        int
	PercentRemaining float64
	ETA              time.Duration // whole minutes
	Average          time.Duration
}

// Reporter renders a single overwritten status line with throughput and
// time remaining. It only observes the driver.
type Reporter struct {
	mu       sync.Mutex
	out      io.Writer
	average  time.Duration
	width    int
	line     string
	estimate Estimate
	active   bool
}

// NewReporter creates a reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out, average: seedAverage}
}

// Observe updates the estimate after each outcome.
func (r *Reporter) Observe(ev importing.Event) {
	if ev.Kind != importing.EventOutcome {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.average = time.Duration(smoothing*float64(r.average) + (1-smoothing)*float64(ev.Duration))
	r.estimate = estimate(ev.Stats, r.average)
	r.render(statusLine(ev.Stats, r.estimate))
}

// Estimate returns the latest estimate.
func (r *Reporter) Estimate() Estimate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.estimate
}

func estimate(s importing.Stats, average time.Duration) Estimate {
	remaining := s.Remaining()
	e := Estimate{
		Remaining: remaining,
		Average:   average,
		ETA:       (time.Duration(remaining) * average).Truncate(time.Minute),
	}
	if s.Total > 0 {
		e.PercentRemaining = float64(remaining) / float64(s.Total) * 100
	}
	return e
}

func statusLine(s importing.Stats, e Estimate) string {
	return fmt.Sprintf("%d/%d processed (%d errors and %d duplicates). %.1f%% remaining, about %d min left.",
		s.Processed, s.Total, s.Errors, s.Duplicates, e.PercentRemaining, int(e.ETA.Minutes()))
}

// render overwrites the status line, padded to the widest line so far so a
// shorter line never leaves stale characters behind.
func (r *Reporter) render(line string) {
	r.width = max(r.width, lipgloss.Width(line))
	r.line = line
	r.active = true
	fmt.Fprintf(r.out, "\r%s", padRight(line, r.width))
}

// Message prints a discrete message on its own line and then redraws the
// status line below it.
func (r *Reporter) Message(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active {
		fmt.Fprintln(r.out)
	}
	fmt.Fprintln(r.out, messageStyle.Render(fmt.Sprintf(format, args...)))
	if r.active {
		fmt.Fprintf(r.out, "\r%s", padRight(r.line, r.width))
	}
}

// Finish leaves a final summary line on screen.
func (r *Reporter) Finish(s importing.Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	line := fmt.Sprintf("%d/%d processed (%d errors and %d duplicates).", s.Processed, s.Total, s.Errors, s.Duplicates)
	r.width = max(r.width, lipgloss.Width(line))
	fmt.Fprintf(r.out, "\r%s\n", padRight(line, r.width))
	r.active = false
}

func padRight(s string, width int) string {
	if pad := width - lipgloss.Width(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}
