// Package cli provides the command-line interface for photoimport.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/contre95/photoimport/src/features/config"
	"github.com/contre95/photoimport/src/features/logging"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// ErrPrecondition marks failures detected before any file is dispatched.
var ErrPrecondition = errors.New("precondition failed")

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	configPath string
	verbose    bool

	// Global config and run identity
	cfgManager *config.Manager
	runID      string
	closeLog   = func() error { return nil }
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "photoimport",
	Short: "Incrementally import a media folder into a photo library",
	Long: `Photoimport walks a folder, filters it down to supported media that was not
processed before, and feeds the files one by one to an external importer
(osxphotos driving Apple Photos by default).

It waits for free disk space before every file, kills imports that hang,
restarts the host application periodically and keeps a record of imported
and errored files so later runs only pick up what is new.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}

		mgr, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPrecondition, err)
		}
		cfgManager = mgr

		runID = uuid.NewString()
		logger, closer := logging.SetupLogger(cfgManager, runID, verbose)
		slog.SetDefault(logger)
		closeLog = closer
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := closeLog(); err != nil {
			slog.Warn("failed to close run log", "error", err)
		}
	},
}

// Execute adds all child commands to the root command and runs it with ctx,
// which is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "photoimport.yaml", "config file, written with defaults when missing")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(configCmd)
}
