package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/contre95/photoimport/src/features/config"
	"github.com/docker/go-units"
)

// SpaceProbe measures free space available to the current user.
type SpaceProbe interface {
	FreeBytes(ctx context.Context) (uint64, error)
}

// OperatorSignal waits for an operator to ask for an early re-check.
// Wait returns true when the operator signalled before d elapsed.
type OperatorSignal interface {
	Wait(ctx context.Context, d time.Duration) bool
}

// Notifier sends best-effort operator alerts.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// Messenger shows discrete messages to the operator console.
type Messenger interface {
	Message(format string, args ...any)
}

// Guard blocks the import loop while free space is below the threshold.
type Guard struct {
	probe     SpaceProbe
	signal    OperatorSignal
	notifier  Notifier
	console   Messenger
	threshold uint64
	resumeAt  uint64
	interval  time.Duration
}

// NewGuard creates a storage guard. Once tripped it only resumes when free
// space reaches threshold × hysteresis.
func NewGuard(cfg config.Storage, probe SpaceProbe, signal OperatorSignal, notifier Notifier, console Messenger) *Guard {
	hysteresis := cfg.Hysteresis
	if hysteresis < 1 {
		hysteresis = 1
	}
	return &Guard{
		probe:     probe,
		signal:    signal,
		notifier:  notifier,
		console:   console,
		threshold: cfg.MinFreeBytes,
		resumeAt:  uint64(float64(cfg.MinFreeBytes) * hysteresis),
		interval:  cfg.RetryInterval,
	}
}

// Threshold returns the configured free byte floor.
func (g *Guard) Threshold() uint64 {
	return g.threshold
}

// EnsureSpace returns once free space is at least the threshold. When it is
// not, it alerts, then re-measures every interval (or on operator input)
// until free space reaches the resume level. The wait is unbounded.
func (g *Guard) EnsureSpace(ctx context.Context) error {
	free, err := g.probe.FreeBytes(ctx)
	if err != nil {
		return fmt.Errorf("failed to measure free space: %w", err)
	}
	if free >= g.threshold {
		return nil
	}

	slog.Warn("Guard.EnsureSpace: not enough free space, pausing import",
		"free", free, "threshold", g.threshold, "resume_at", g.resumeAt)
	g.notifier.Notify(ctx, fmt.Sprintf("Not enough space in the disk. Will retry every %s.", g.interval))

	waits := 0
	for free < g.resumeAt {
		g.console.Message("Not enough space in the disk (%s free, need %s). Will retry in %s (or press any key).",
			humanBytes(free), humanBytes(g.resumeAt), g.interval)
		if g.signal.Wait(ctx, g.interval) {
			slog.Debug("Guard.EnsureSpace: operator requested a re-check")
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		waits++
		free, err = g.probe.FreeBytes(ctx)
		if err != nil {
			return fmt.Errorf("failed to measure free space: %w", err)
		}
	}

	slog.Debug("Guard.EnsureSpace: free space recovered", "free", free, "waits", waits)
	g.console.Message("Free space recovered (%s). Importing resumes now.", humanBytes(free))
	g.notifier.Notify(ctx, "Importing resumes now.")
	return nil
}

func humanBytes(b uint64) string {
	return units.BytesSize(float64(b))
}
