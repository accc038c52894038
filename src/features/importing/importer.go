package importing

import (
	"context"
	"time"
)

// Result is the typed result of one external import command.
type Result struct {
	ExitCode int
	Output   string // combined stdout and stderr
	TimedOut bool
	Elapsed  time.Duration
}

// Importer runs the external single-file import command.
type Importer interface {
	// Import imports exactly one file. A non-nil error means the command
	// could not be run at all; exit status and timeouts are reported in Result.
	Import(ctx context.Context, path string, timeout time.Duration) (Result, error)
}

// HostApp controls the photo application the importer talks to.
type HostApp interface {
	// Running reports whether the host application has a live process.
	Running(ctx context.Context) (bool, error)
	// Terminate stops the host application.
	Terminate(ctx context.Context) error
	// StopImporter kills importer processes left behind by a timed out command.
	StopImporter(ctx context.Context) error
}

// SpaceGuard blocks until there is enough free space to import.
type SpaceGuard interface {
	EnsureSpace(ctx context.Context) error
}

// Notifier sends best-effort operator alerts.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// Console shows discrete messages to the operator.
type Console interface {
	Message(format string, args ...any)
}

// Observer receives every driver event. Observers never influence control flow.
type Observer interface {
	Observe(ev Event)
}

const mib = 1024 * 1024

// ImportTimeout is max(minTimeout, perMiB × size in MiB).
func ImportTimeout(size int64, minTimeout, perMiB time.Duration) time.Duration {
	scaled := time.Duration(float64(size) / mib * float64(perMiB))
	return max(minTimeout, scaled)
}
