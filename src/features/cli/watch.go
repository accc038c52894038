package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/contre95/photoimport/src/infra/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <folder>",
	Short: "Import a folder, then keep importing files as they appear",
	Long: `Run an import pass over a folder and keep watching it afterwards.

New supported files trigger another pass once the folder has been quiet for
the configured debounce period. Stop with Ctrl-C.

Examples:
  photoimport watch ~/Pictures/Inbox`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, err := newSession(cfgManager.Get())
	if err != nil {
		return err
	}
	defer s.Close()

	root, err := s.preflight(ctx, args)
	if err != nil {
		return err
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return err
	}

	// One queued pass is enough; later events are folded into it.
	events := make(chan watcher.FileEvent, 1)
	w, err := watcher.NewWatcher(s.filter, s.cfg.Watch.Debounce, events)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Start(ctx, root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	defer w.Stop()

	if _, err := s.pass(ctx, root); err != nil {
		return err
	}
	fmt.Printf("Watching %s for new files. Press Ctrl-C to stop.\n", root)

	for {
		select {
		case <-ctx.Done():
			fmt.Println("Done.")
			return nil
		case ev := <-events:
			slog.Info("New files detected, starting import pass", "root", ev.Root, "files", len(ev.Paths))
			if _, err := s.pass(ctx, root); err != nil {
				if ctx.Err() != nil {
					fmt.Println("Done.")
					return nil
				}
				return err
			}
		}
	}
}
