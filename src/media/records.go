package media

import (
	"context"
	"path/filepath"
	"strings"
)

// RecordSet names one of the two persisted collections of attempted files.
type RecordSet string

const (
	Imported RecordSet = "imported"
	Errored  RecordSet = "errored"
)

// Records is the loaded content of a RecordStore.
type Records struct {
	Imported map[string]struct{}
	Errored  map[string]struct{}
}

// NewRecords returns empty record sets.
func NewRecords() *Records {
	return &Records{
		Imported: make(map[string]struct{}),
		Errored:  make(map[string]struct{}),
	}
}

// Add puts a path into the given set. Paths are cleaned so that records
// written by older runs compare equal to freshly walked paths.
func (r *Records) Add(set RecordSet, path string) {
	path = NormalizePath(path)
	if path == "" {
		return
	}
	switch set {
	case Imported:
		r.Imported[path] = struct{}{}
	case Errored:
		r.Errored[path] = struct{}{}
	}
}

// Contains reports whether path is in the given set.
func (r *Records) Contains(set RecordSet, path string) bool {
	path = NormalizePath(path)
	switch set {
	case Imported:
		_, ok := r.Imported[path]
		return ok
	case Errored:
		_, ok := r.Errored[path]
		return ok
	}
	return false
}

// Set returns the underlying map for a record set.
func (r *Records) Set(set RecordSet) map[string]struct{} {
	if set == Imported {
		return r.Imported
	}
	return r.Errored
}

// NormalizePath is the only normalization applied to work items and records:
// lexical cleaning. Symlinks are not resolved and case is preserved.
func NormalizePath(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}

// Recordable reports whether path fits the line-oriented record files.
// Names with line breaks would split into several records.
func Recordable(path string) bool {
	return !strings.ContainsAny(path, "\n\r")
}

// RecordStore persists which files were imported or failed.
// It's the primary repository interface of the import domain.
type RecordStore interface {
	// Load reads both record sets in full.
	Load(ctx context.Context) (*Records, error)
	// Append adds a path to a record set.
	Append(ctx context.Context, set RecordSet, path string) error
	// Flush makes every appended path durable.
	Flush(ctx context.Context) error
	// Close flushes and releases the underlying storage.
	Close() error
}
