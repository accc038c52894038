package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type extFilter struct{}

func (extFilter) Allows(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".jpg")
}

func (extFilter) Excludes(dirName string) bool {
	return dirName == "@eaDir"
}

func startWatcher(t *testing.T, root string) chan FileEvent {
	t.Helper()
	events := make(chan FileEvent, 1)
	w, err := NewWatcher(extFilter{}, 50*time.Millisecond, events)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx, root))
	t.Cleanup(func() {
		w.Stop()
		cancel()
	})
	return events
}

func waitEvent(t *testing.T, events chan FileEvent) FileEvent {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("no file event")
		return FileEvent{}
	}
}

func TestWatcher_DebouncesSupportedFiles(t *testing.T) {
	root := t.TempDir()
	events := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.jpg"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.JPG"), []byte("x"), 0o644))

	ev := waitEvent(t, events)
	assert.Equal(t, root, ev.Root)
	assert.Equal(t, FileCreated, ev.EventType)
	assert.ElementsMatch(t, []string{filepath.Join(root, "a.jpg"), filepath.Join(root, "b.JPG")}, ev.Paths)
}

func TestWatcher_IgnoresUnsupportedFiles(t *testing.T) {
	root := t.TempDir()
	events := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_WatchesNewSubdirectories(t *testing.T) {
	root := t.TempDir()
	events := startWatcher(t, root)

	sub := filepath.Join(root, "2024")
	require.NoError(t, os.Mkdir(sub, 0o755))
	waitEvent(t, events)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "c.jpg"), []byte("x"), 0o644))
	ev := waitEvent(t, events)
	assert.Contains(t, ev.Paths, filepath.Join(sub, "c.jpg"))
}

func TestWatcher_SkipsExcludedDirectories(t *testing.T) {
	root := t.TempDir()
	excluded := filepath.Join(root, "@eaDir")
	require.NoError(t, os.Mkdir(excluded, 0o755))
	events := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(excluded, "thumb.jpg"), []byte("x"), 0o644))

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}
