package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configWrite bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults and environment overrides are
applied. Secrets are redacted.

With --write the effective configuration is saved back to the config file,
filling in every key the file leaves out. Environment overrides are saved too.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configWrite {
			if err := cfgManager.Save(configPath); err != nil {
				return fmt.Errorf("failed to write %s: %w", configPath, err)
			}
			fmt.Printf("Configuration written to %s\n", configPath)
			return nil
		}
		fmt.Printf("# %s\n%s", configPath, cfgManager.GetYAML())
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&configWrite, "write", false, "save the effective configuration to the config file")
}
