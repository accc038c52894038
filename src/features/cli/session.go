package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/contre95/photoimport/src/features/catalog"
	"github.com/contre95/photoimport/src/features/config"
	"github.com/contre95/photoimport/src/features/importing"
	"github.com/contre95/photoimport/src/features/metrics"
	"github.com/contre95/photoimport/src/features/notifying"
	"github.com/contre95/photoimport/src/features/progress"
	"github.com/contre95/photoimport/src/features/storage"
	"github.com/contre95/photoimport/src/infra/disk"
	"github.com/contre95/photoimport/src/infra/host"
	"github.com/contre95/photoimport/src/infra/importer"
	"github.com/contre95/photoimport/src/infra/notify"
	"github.com/contre95/photoimport/src/infra/operator"
	"github.com/contre95/photoimport/src/infra/records"
	"github.com/contre95/photoimport/src/media"
	"github.com/spf13/afero"
)

// session holds every collaborator of one command invocation.
type session struct {
	cfg      *config.Config
	filter   *catalog.Filter
	store    media.RecordStore
	importer *importer.CommandImporter
	probe    *disk.Probe
	guard    *storage.Guard
	notifier *notifying.Service
	reporter *progress.Reporter
	metrics  *metrics.Run
	driver   *importing.Driver
}

func newSession(cfg *config.Config) (*session, error) {
	fs := afero.NewOsFs()

	sender, err := newSender(cfg.Notify)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPrecondition, err)
	}
	probe, err := disk.NewProbe(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPrecondition, err)
	}
	store, err := newRecordStore(cfg.Records)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:      cfg,
		filter:   catalog.NewFilter(fs, cfg.Catalog),
		store:    store,
		importer: importer.NewCommandImporter(cfg.Import.Command, cfg.Import.Args),
		probe:    probe,
		notifier: notifying.NewService(sender, cfg.Notify),
		reporter: progress.NewReporter(os.Stdout),
		metrics:  metrics.NewRun(),
	}
	s.guard = storage.NewGuard(cfg.Storage, probe, operator.NewKeypress(os.Stdin), s.notifier, s.reporter)
	s.driver = importing.NewDriver(
		cfg.Import, fs, s.importer,
		host.NewApp(cfg.Import.HostApp, cfg.Import.ImporterProcess),
		s.guard, s.store, s.notifier, s.reporter,
		s.reporter, s.metrics,
	)
	return s, nil
}

func newSender(cfg config.Notify) (notifying.Sender, error) {
	switch cfg.Backend {
	case "telegram":
		bot, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return bot, nil
	case "command":
		cmd, err := notify.NewCommand(cfg.Command)
		if err != nil {
			return nil, err
		}
		return cmd, nil
	default:
		return notify.NewIMessage(), nil
	}
}

func newRecordStore(cfg config.Records) (media.RecordStore, error) {
	switch cfg.Backend {
	case "sqlite":
		store, err := records.NewSqliteStore(cfg.SqlitePath, runID)
		if err != nil {
			return nil, fmt.Errorf("failed to open record database: %w", err)
		}
		return store, nil
	default:
		store, err := records.NewTextStore(cfg.ImportedPath, cfg.ErroredPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open record files: %w", err)
		}
		return store, nil
	}
}

// preflight checks everything a run needs before the first file is touched.
func (s *session) preflight(ctx context.Context, args []string) (string, error) {
	if err := s.importer.Check(ctx); err != nil {
		return "", fmt.Errorf("%w: %w", ErrPrecondition, err)
	}
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("%w: please provide the folder path as the first argument", ErrPrecondition)
	}
	root := args[0]
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: the folder %s does not exist", ErrPrecondition, root)
		}
		return "", fmt.Errorf("%w: %w", ErrPrecondition, err)
	}
	return root, nil
}

// pass plans root and imports whatever is left.
func (s *session) pass(ctx context.Context, root string) (importing.Stats, error) {
	plan, err := s.filter.Plan(ctx, root, s.store)
	if err != nil {
		return importing.Stats{}, err
	}

	fmt.Printf("Total %d files found.\n", plan.Found)
	fmt.Printf("Supported extensions (case insensitive): %s\n", strings.Join(s.cfg.Catalog.AllowedExtensions, ", "))
	if len(plan.IgnoredExtensions) > 0 {
		fmt.Printf("Ignoring the following extensions (case insensitive): %s\n", strings.Join(plan.IgnoredExtensions, ", "))
	}
	fmt.Printf("Skipping %d already imported and %d previously errored files.\n", plan.PreviouslyImported, plan.PreviouslyErrored)
	for _, file := range plan.Unrecordable {
		fmt.Printf("Skipping %q: file names with line breaks cannot be recorded.\n", file)
	}
	fmt.Printf("Total %d files to import.\n", plan.Remaining())

	if plan.Remaining() == 0 {
		return importing.Stats{}, nil
	}

	stats, runErr := s.driver.Run(ctx, plan.Candidates)
	if stats.Processed > 0 {
		s.reporter.Finish(stats)
	}
	if err := s.metrics.WriteTextfile(s.cfg.Metrics.TextfilePath); err != nil {
		slog.Warn("failed to write metrics textfile", "path", s.cfg.Metrics.TextfilePath, "error", err)
	}
	return stats, runErr
}

func (s *session) Close() error {
	return s.store.Close()
}
