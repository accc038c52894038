package importing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/contre95/photoimport/src/features/config"
	"github.com/contre95/photoimport/src/media"
	"github.com/spf13/afero"
)

// Driver imports work items one at a time through the external importer.
type Driver struct {
	config    config.Import
	fs        afero.Fs
	importer  Importer
	host      HostApp
	guard     SpaceGuard
	store     media.RecordStore
	notifier  Notifier
	console   Console
	observers []Observer
}

// NewDriver creates a new import driver.
func NewDriver(cfg config.Import, fs afero.Fs, importer Importer, host HostApp, guard SpaceGuard, store media.RecordStore, notifier Notifier, console Console, observers ...Observer) *Driver {
	return &Driver{
		config:    cfg,
		fs:        fs,
		importer:  importer,
		host:      host,
		guard:     guard,
		store:     store,
		notifier:  notifier,
		console:   console,
		observers: observers,
	}
}

// Run dispatches every item in order. It stops early with ErrFileVanished
// when a queued file disappeared, and with the context error when the
// process is interrupted; the in-flight item is not recorded in that case.
func (d *Driver) Run(ctx context.Context, items []string) (Stats, error) {
	stats := Stats{Total: len(items)}
	slog.Info("Driver.Run: starting import", "files", len(items), "batch_size", d.config.BatchSize)

	for _, path := range items {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if !media.Recordable(path) {
			slog.Warn("Driver.Run: skipping file that cannot be recorded", "path", path)
			d.console.Message("Skipping %q: file names with line breaks cannot be recorded.", path)
			stats.Skipped++
			continue
		}

		if err := d.guard.EnsureSpace(ctx); err != nil {
			return stats, err
		}

		info, err := d.fs.Stat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return stats, d.vanished(ctx, path, stats)
			}
			return stats, fmt.Errorf("failed to stat %s: %w", path, err)
		}

		outcome, elapsed, err := d.dispatch(ctx, path, info.Size())
		if err != nil {
			return stats, err
		}

		if err := d.record(ctx, outcome, path); err != nil {
			return stats, err
		}

		stats.Processed++
		switch outcome {
		case media.Success:
			stats.Imported++
		case media.SuccessDuplicate:
			stats.Imported++
			stats.Duplicates++
		case media.TimedOut:
			stats.Errors++
			stats.Timeouts++
		default:
			stats.Errors++
		}
		slog.Debug("Driver.Run: file done", "path", path, "state", StateFor(outcome), "elapsed", elapsed)
		d.emit(Event{Kind: EventOutcome, Path: path, Outcome: outcome, Duration: elapsed, Stats: stats})

		if reason, ok := d.restartDue(outcome, stats.Processed); ok {
			restarted, err := d.restartHost(ctx, reason)
			if err != nil {
				return stats, err
			}
			if restarted {
				stats.Restarts++
				d.emit(Event{Kind: EventRestart, Path: path, Reason: reason, Stats: stats})
			}
		}
	}

	slog.Debug("Driver.Run: import finished",
		"processed", stats.Processed, "skipped", stats.Skipped, "errors", stats.Errors,
		"duplicates", stats.Duplicates, "restarts", stats.Restarts)
	return stats, nil
}

// dispatch runs the importer for one file and classifies the outcome.
func (d *Driver) dispatch(ctx context.Context, path string, size int64) (media.Outcome, time.Duration, error) {
	timeout := ImportTimeout(size, d.config.MinTimeout, d.config.TimeoutPerMiB)
	slog.Debug("Driver.dispatch: importing file", "path", path, "state", Running, "size", size, "timeout", timeout)

	start := time.Now()
	result, err := d.importer.Import(ctx, path, timeout)
	elapsed := time.Since(start)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", elapsed, ctxErr
	}
	if err != nil {
		slog.Warn("Driver.dispatch: importer could not run", "path", path, "error", err)
		return media.Failure, elapsed, nil
	}

	if result.TimedOut {
		slog.Warn("Driver.dispatch: import timed out", "path", path, "timeout", timeout)
		if err := d.host.StopImporter(ctx); err != nil {
			slog.Warn("Driver.dispatch: failed to stop importer process", "error", err)
		}
		return media.TimedOut, elapsed, nil
	}
	return d.classify(result), elapsed, nil
}

func (d *Driver) classify(result Result) media.Outcome {
	if result.ExitCode != 0 {
		slog.Debug("Driver.classify: import failed", "exit_code", result.ExitCode, "output", result.Output)
		return media.Failure
	}
	if d.config.DuplicateMarker != "" && strings.Contains(result.Output, d.config.DuplicateMarker) {
		return media.SuccessDuplicate
	}
	return media.Success
}

// record appends the path to its set and flushes before the loop moves on.
func (d *Driver) record(ctx context.Context, outcome media.Outcome, path string) error {
	set := outcome.RecordSet()
	if err := d.store.Append(ctx, set, path); err != nil {
		return fmt.Errorf("failed to record %s as %s: %w", path, set, err)
	}
	if err := d.store.Flush(ctx); err != nil {
		return fmt.Errorf("failed to flush %s record: %w", set, err)
	}
	return nil
}

func (d *Driver) restartDue(outcome media.Outcome, processed int) (RestartReason, bool) {
	if outcome == media.TimedOut {
		return RestartTimeout, true
	}
	if d.config.BatchSize > 0 && processed%d.config.BatchSize == 0 {
		return RestartBatch, true
	}
	return "", false
}

// restartHost lets the host application settle, then terminates it so the
// next import starts it fresh. It reports whether the app was running.
func (d *Driver) restartHost(ctx context.Context, reason RestartReason) (bool, error) {
	running, err := d.host.Running(ctx)
	if err != nil {
		slog.Warn("Driver.restartHost: could not inspect host app", "error", err)
		return false, nil
	}
	if !running {
		slog.Debug("Driver.restartHost: host app not running, nothing to restart", "reason", reason)
		return false, nil
	}

	d.console.Message("Restarting %s to avoid import errors (%s).", d.config.HostApp, reason)
	if err := sleep(ctx, d.config.SettleDelay); err != nil {
		return false, err
	}
	if err := d.host.Terminate(ctx); err != nil {
		slog.Warn("Driver.restartHost: failed to terminate host app", "error", err)
		return false, nil
	}
	slog.Debug("Driver.restartHost: host app terminated", "app", d.config.HostApp, "reason", reason)
	return true, nil
}

func (d *Driver) vanished(ctx context.Context, path string, stats Stats) error {
	slog.Error("Driver.Run: file vanished, stopping run", "path", path, "processed", stats.Processed)
	d.console.Message("File %s no longer exists. Stopping after %d of %d files.", path, stats.Processed, stats.Total)
	d.notifier.Notify(ctx, fmt.Sprintf("Import stopped: %s no longer exists.", path))
	return fmt.Errorf("%w: %s", ErrFileVanished, path)
}

func (d *Driver) emit(ev Event) {
	for _, o := range d.observers {
		o.Observe(ev)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
