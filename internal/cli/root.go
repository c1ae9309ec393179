// Package cli implements the keeper command-line interface: config and
// logging setup, the one-shot report command, and the interactive shell.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/keeper/internal/logging"
	"github.com/mesh-intelligence/keeper/internal/paths"
	"github.com/mesh-intelligence/keeper/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	backend   string
	capacity  int
	logLevel  string
	logFormat string
	jsonMode  bool
}

// app carries state shared by the commands of one root command.
type app struct {
	flags    rootFlags
	settings settings
	logger   *slog.Logger
}

// systemError marks failures of the environment rather than of the input.
type systemError struct {
	err error
}

func (e *systemError) Error() string { return e.err.Error() }
func (e *systemError) Unwrap() error { return e.err }

func sysErr(err error) error {
	if err == nil {
		return nil
	}
	return &systemError{err: err}
}

// NewRootCmd creates the top-level "keeper" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: logging.Discard()}

	root := &cobra.Command{
		Use:   "keeper",
		Short: "keeper tracks items and quantities in memory",
		Long: `keeper is an in-memory inventory registry. Items carry an ID, a name,
a quantity, and free-form properties. Nothing is stored on disk: seed a
session from a manifest file, or work interactively in the shell.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.backend, "backend", "", "inventory backend: memory or sqlite")
	pf.IntVar(&a.flags.capacity, "capacity", 0, "maximum number of items (0 = unbounded)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "log format: text or json")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newReportCmd(a))
	root.AddCommand(newShellCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "keeper:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode maps an error returned by a command to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se *systemError
	if errors.As(err, &se) {
		return exitSysError
	}
	return exitUserError
}

// setup resolves the config directory, loads configuration, and builds the
// logger. The version command needs none of it.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysErr(fmt.Errorf("resolve config dir: %w", err))
	}

	s, err := loadConfig(configDir, cmd.Flags())
	if err != nil {
		return err
	}
	a.settings = s

	logger, err := logging.New(s.Logging, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	a.logger = logger
	a.logger.Debug("config loaded",
		"config_dir", configDir,
		"config_file", s.File,
		"backend", s.Inventory.Backend,
		"capacity", s.Inventory.Capacity,
	)
	return nil
}

// configDir returns the resolved configuration directory.
func (a *app) configDir() (string, error) {
	return paths.ResolveConfigDir(a.flags.configDir)
}

// openInventory opens an empty inventory with the loaded settings.
func (a *app) openInventory() (types.Inventory[any], error) {
	inv, err := openInventory(a.settings.Inventory)
	if err != nil {
		return nil, sysErr(err)
	}
	return inv, nil
}
