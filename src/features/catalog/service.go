package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/contre95/photoimport/src/features/config"
	"github.com/contre95/photoimport/src/media"
	"github.com/samber/lo"
	"github.com/samber/lo/mutable"
	"github.com/spf13/afero"
)

// Filter enumerates candidate files under a root and removes the ones that
// should not be dispatched.
type Filter struct {
	fs                 afero.Fs
	allowed            map[string]bool
	excludedDirs       map[string]bool
	excludedBundleExts map[string]bool
}

// NewFilter creates a catalog filter from the catalog configuration.
func NewFilter(fs afero.Fs, cfg config.Catalog) *Filter {
	return &Filter{
		fs:                 fs,
		allowed:            lowerSet(cfg.AllowedExtensions),
		excludedDirs:       lo.SliceToMap(cfg.ExcludedDirs, func(d string) (string, bool) { return d, true }),
		excludedBundleExts: lowerSet(cfg.ExcludedBundleExtensions),
	}
}

func lowerSet(exts []string) map[string]bool {
	return lo.SliceToMap(exts, func(e string) (string, bool) { return strings.ToLower(e), true })
}

// List returns every file under root in random order. Excluded directories
// and bundle packages are pruned before descending. A root that is a file
// yields just that file.
func (f *Filter) List(root string) ([]string, error) {
	info, err := f.fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{media.NormalizePath(root)}, nil
	}

	var files []string
	err = afero.Walk(f.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			slog.Warn("Filter.List: could not walk path", "path", path, "error", err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if path != root && f.excluded(info.Name()) {
				slog.Debug("Filter.List: pruning excluded directory", "path", path)
				return filepath.SkipDir
			}
			return nil
		}
		files = append(files, media.NormalizePath(path))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	// Random order surfaces a sample of the remaining work early on re-runs.
	mutable.Shuffle(files)
	return files, nil
}

func (f *Filter) excluded(dirName string) bool {
	if f.excludedDirs[dirName] {
		return true
	}
	ext := strings.ToLower(filepath.Ext(dirName))
	return ext != "" && f.excludedBundleExts[ext]
}

// FilterByExtension keeps the files whose extension is allowed, case
// insensitively. The distinct ignored extensions are returned sorted.
func (f *Filter) FilterByExtension(files []string) ([]string, []string) {
	kept := make([]string, 0, len(files))
	var ignored []string
	for _, file := range files {
		ext := strings.ToLower(filepath.Ext(file))
		if f.allowed[ext] {
			kept = append(kept, file)
		} else {
			ignored = append(ignored, ext)
		}
	}
	ignored = lo.Uniq(ignored)
	slices.Sort(ignored)
	return kept, ignored
}

// Exclude drops the files present in a record set.
func Exclude(files []string, records *media.Records, set media.RecordSet) []string {
	return lo.Filter(files, func(file string, _ int) bool {
		return !records.Contains(set, file)
	})
}

// Plan builds the work queue: extension filter, then previously imported,
// then previously errored.
func (f *Filter) Plan(ctx context.Context, root string, store media.RecordStore) (Plan, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	files, err := f.List(abs)
	if err != nil {
		return Plan{}, err
	}
	records, err := store.Load(ctx)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to load records: %w", err)
	}

	supported, ignored := f.FilterByExtension(files)
	notImported := Exclude(supported, records, media.Imported)
	remaining := Exclude(notImported, records, media.Errored)
	remaining, unrecordable := lo.FilterReject(remaining, func(file string, _ int) bool {
		return media.Recordable(file)
	})
	for _, file := range unrecordable {
		slog.Warn("Filter.Plan: skipping file with a line break in its name", "path", file)
	}

	plan := Plan{
		Root:               abs,
		Candidates:         remaining,
		Found:              len(files),
		Supported:          len(supported),
		PreviouslyImported: len(supported) - len(notImported),
		PreviouslyErrored:  len(notImported) - len(remaining),
		IgnoredExtensions:  ignored,
		Unrecordable:       unrecordable,
	}
	slog.Info("Catalog planned",
		"root", abs,
		"found", plan.Found,
		"supported", plan.Supported,
		"previously_imported", plan.PreviouslyImported,
		"previously_errored", plan.PreviouslyErrored,
		"unrecordable", len(plan.Unrecordable),
		"to_import", plan.Remaining(),
	)
	return plan, nil
}

// Allows reports whether a file name has an allowed extension.
func (f *Filter) Allows(path string) bool {
	return f.allowed[strings.ToLower(filepath.Ext(path))]
}

// Excludes reports whether a directory name is pruned from walks.
func (f *Filter) Excludes(dirName string) bool {
	return f.excluded(dirName)
}
