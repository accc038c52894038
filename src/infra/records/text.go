package records

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/contre95/photoimport/src/media"
)

// TextStore keeps each record set in its own line-delimited text file,
// one path per line, opened for append.
type TextStore struct {
	mu    sync.Mutex
	paths map[media.RecordSet]string
	files map[media.RecordSet]*os.File
	bufs  map[media.RecordSet]*bufio.Writer
}

// NewTextStore opens (creating if needed) the two record files.
func NewTextStore(importedPath, erroredPath string) (*TextStore, error) {
	s := &TextStore{
		paths: map[media.RecordSet]string{media.Imported: importedPath, media.Errored: erroredPath},
		files: make(map[media.RecordSet]*os.File),
		bufs:  make(map[media.RecordSet]*bufio.Writer),
	}
	for set, path := range s.paths {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to open %s record file: %w", set, err)
		}
		s.files[set] = f
		s.bufs[set] = bufio.NewWriter(f)
	}
	return s, nil
}

// Load reads both files. A missing file is an empty set.
func (s *TextStore) Load(ctx context.Context) (*media.Records, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := media.NewRecords()
	for set, path := range s.paths {
		if err := readLines(path, func(line string) { records.Add(set, line) }); err != nil {
			return nil, fmt.Errorf("failed to read %s records: %w", set, err)
		}
	}
	return records, nil
}

func readLines(path string, fn func(string)) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
			fn(line)
		}
	}
	return scanner.Err()
}

// Append buffers a path for the given set.
func (s *TextStore) Append(ctx context.Context, set media.RecordSet, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf, ok := s.bufs[set]
	if !ok {
		return fmt.Errorf("unknown record set %q", set)
	}
	if !media.Recordable(path) {
		return fmt.Errorf("path contains a line break: %q", path)
	}
	_, err := buf.WriteString(path + "\n")
	return err
}

// Flush writes buffered lines and syncs both files to disk.
func (s *TextStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush()
}

func (s *TextStore) flush() error {
	for set, buf := range s.bufs {
		if buf.Buffered() == 0 {
			continue
		}
		if err := buf.Flush(); err != nil {
			return fmt.Errorf("failed to flush %s records: %w", set, err)
		}
		if err := s.files[set].Sync(); err != nil {
			return fmt.Errorf("failed to sync %s records: %w", set, err)
		}
	}
	return nil
}

// Close flushes and closes both files.
func (s *TextStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	errs := []error{s.flush()}
	for _, f := range s.files {
		errs = append(errs, f.Close())
	}
	return errors.Join(errs...)
}
