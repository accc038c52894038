package importing

import (
	"errors"
	"time"

	"github.com/contre95/photoimport/src/media"
)

// ErrFileVanished stops a run when a queued file no longer exists.
var ErrFileVanished = errors.New("file vanished during the run")

// State is the lifecycle of one work item inside the driver.
type State string

const (
	Pending            State = "pending"
	Running            State = "running"
	TimedOut           State = "timed_out"
	Succeeded          State = "succeeded"
	DuplicateSucceeded State = "duplicate_succeeded"
	Failed             State = "failed"
)

// StateFor maps a terminal outcome to its driver state.
func StateFor(o media.Outcome) State {
	switch o {
	case media.Success:
		return Succeeded
	case media.SuccessDuplicate:
		return DuplicateSucceeded
	case media.TimedOut:
		return TimedOut
	default:
		return Failed
	}
}

// Stats contains the counters of one run.
type Stats struct {
	Total      int `json:"total"`
	Processed  int `json:"processed"`
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Errors     int `json:"errors"`
	Timeouts   int `json:"timeouts"`
	Restarts   int `json:"restarts"`
	Skipped    int `json:"skipped"`
}

// Remaining is the number of items not yet dispatched.
func (s Stats) Remaining() int {
	return s.Total - s.Processed - s.Skipped
}

// EventKind tells observers what happened.
type EventKind string

const (
	EventOutcome EventKind = "outcome"
	EventRestart EventKind = "restart"
)

// RestartReason says why the host application was restarted.
type RestartReason string

const (
	RestartBatch   RestartReason = "batch"
	RestartTimeout RestartReason = "timeout"
)

// Event is emitted after every outcome and every host restart.
type Event struct {
	Kind     EventKind
	Path     string
	Outcome  media.Outcome
	Duration time.Duration
	Reason   RestartReason
	Stats    Stats
}
