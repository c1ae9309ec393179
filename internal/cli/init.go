package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/keeper/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Init creates the configuration directory and a default config.yaml in it.
An existing config.yaml is left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	configDir, err := a.configDir()
	if err != nil {
		return sysErr(fmt.Errorf("resolve config dir: %w", err))
	}

	written, err := writeConfigIfMissing(configDir)
	if err != nil {
		return sysErr(err)
	}

	path := paths.ConfigFile(configDir)
	if written {
		a.logger.Info("config written", "path", path)
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Config already exists at %s\n", path)
	}
	return nil
}
