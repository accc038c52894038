package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessLister returns the live processes of the machine.
type ProcessLister func(ctx context.Context) ([]*process.Process, error)

// App controls the host photo application and lingering importer processes
// by process name.
type App struct {
	appName      string
	importerName string
	list         ProcessLister
}

// NewApp creates a controller for the app and importer process names.
func NewApp(appName, importerName string) *App {
	return &App{appName: appName, importerName: importerName, list: process.ProcessesWithContext}
}

// Running reports whether a process named like the host app exists.
func (a *App) Running(ctx context.Context) (bool, error) {
	procs, err := a.find(ctx, a.appName)
	if err != nil {
		return false, err
	}
	return len(procs) > 0, nil
}

// Terminate sends SIGTERM to every host app process.
func (a *App) Terminate(ctx context.Context) error {
	procs, err := a.find(ctx, a.appName)
	if err != nil {
		return err
	}
	var errs []error
	for _, p := range procs {
		if err := p.TerminateWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("terminate %s (pid %d): %w", a.appName, p.Pid, err))
			continue
		}
		slog.Debug("App.Terminate: terminated", "name", a.appName, "pid", p.Pid)
	}
	return errors.Join(errs...)
}

// StopImporter kills every importer process that is still alive.
func (a *App) StopImporter(ctx context.Context) error {
	if a.importerName == "" {
		return nil
	}
	procs, err := a.find(ctx, a.importerName)
	if err != nil {
		return err
	}
	var errs []error
	for _, p := range procs {
		if err := p.KillWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("kill %s (pid %d): %w", a.importerName, p.Pid, err))
			continue
		}
		slog.Warn("App.StopImporter: killed stuck importer", "name", a.importerName, "pid", p.Pid)
	}
	return errors.Join(errs...)
}

func (a *App) find(ctx context.Context, name string) ([]*process.Process, error) {
	procs, err := a.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}
	var matched []*process.Process
	for _, p := range procs {
		// Processes can exit between listing and reading their name.
		n, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if n == name {
			matched = append(matched, p)
		}
	}
	return matched, nil
}
