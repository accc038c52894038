package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <folder>",
	Short: "Import every new media file below a folder",
	Long: `Run a single import pass over a folder.

Files already listed in the imported or errored records are skipped, so
running the same command again only picks up what is new.

Examples:
  APPLE_ID=me@icloud.com photoimport run ~/Downloads/Photos
  photoimport run --config ./photoimport.yaml /Volumes/Archive`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
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

	if _, err := s.pass(ctx, root); err != nil {
		return err
	}
	fmt.Println("Done.")
	return nil
}
