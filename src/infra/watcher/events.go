package watcher

import (
	"time"
)

// FileEventType represents the type of file system event
type FileEventType string

const (
	FileCreated FileEventType = "created"
)

// FileEvent is emitted once per debounced burst of new files.
type FileEvent struct {
	Root      string
	Paths     []string
	EventType FileEventType
	Timestamp time.Time
}
