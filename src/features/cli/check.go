package cli

import (
	"fmt"

	units "github.com/docker/go-units"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [folder]",
	Short: "Verify the importer, recipient, folder and free space",
	Long: `Run the checks a run performs before importing anything and report the
free space against the configured threshold. Nothing is imported.

Examples:
  photoimport check
  photoimport check ~/Downloads/Photos`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := cfgManager.Get()

	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.importer.Check(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrPrecondition, err)
	}
	fmt.Printf("Importer:  %s ok\n", cfg.Import.Command)
	fmt.Printf("Notify:    %s to %s\n", cfg.Notify.Backend, cfg.Notify.Recipient)

	if len(args) > 0 {
		root, err := s.preflight(ctx, args)
		if err != nil {
			return err
		}
		fmt.Printf("Folder:    %s ok\n", root)
	}

	free, err := s.probe.FreeBytes(ctx)
	if err != nil {
		return fmt.Errorf("failed to read free space of %s: %w", s.probe.Path(), err)
	}
	status := "ok"
	if free < s.guard.Threshold() {
		status = "below threshold, a run would wait"
	}
	fmt.Printf("Storage:   %s free on %s, threshold %s (%s)\n",
		units.BytesSize(float64(free)), s.probe.Path(), units.BytesSize(float64(s.guard.Threshold())), status)
	return nil
}
