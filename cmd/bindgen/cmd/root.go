// Package cmd implements the bindgen command line.
package cmd

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/am"
	"github.com/teranos/bindgen/bindgen"
	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/logger"
)

var (
	configPath string
	jsonLog    bool
	verbosity  int
)

// RootCmd is the bindgen entry point
var RootCmd = &cobra.Command{
	Use:   "bindgen",
	Short: "Generate C headers for a library's exported surface",
	Long: `bindgen - Generate C headers for a library's exported surface.

bindgen reads a declaration stream (YAML, one entry per module) describing
the items a library exports, and writes one C header per module plus an
aggregate header that includes them all in dependency order.

Only items marked for export are translated: functions with stable linkage
(no_mangle) and a C-compatible ABI, and types with C layout (repr(C)).

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (BINDGEN_* prefix)
3. Project config (bindgen.toml, searched upwards from the working directory)
4. Default values

Examples:
  bindgen generate                  # Write headers to include/
  bindgen generate --watch          # Regenerate on every change
  bindgen check                     # Fail if include/ is out of date
  bindgen config                    # Show effective configuration`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that load the config re-initialize from it
		if err := logger.Initialize(jsonLog, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: bindgen.toml in this or a parent directory)")
	RootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "Log as JSON")
	RootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")

	RootCmd.AddCommand(GenerateCmd)
	RootCmd.AddCommand(CheckCmd)
	RootCmd.AddCommand(InitCmd)
	RootCmd.AddCommand(ConfigCmd)
	RootCmd.AddCommand(VersionCmd)
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	if err := RootCmd.Execute(); err != nil {
		reportError(err)
		return 1
	}
	return 0
}

// loadConfig loads configuration with cmd's flags bound over file and env
// values, then re-initializes the logger from the result.
func loadConfig(cmd *cobra.Command) (*am.Config, error) {
	cfg, err := am.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, errors.WithHint(err, "run 'bindgen init' to write a default bindgen.toml")
	}
	if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Verbosity); err != nil {
		return nil, errors.Wrap(err, "failed to initialize logger")
	}
	logger.Infow("configuration loaded",
		logger.FieldPath, cfg.ConfigFile,
		"verbosity", logger.LevelName(cfg.Log.Verbosity))
	return cfg, nil
}

// reportError prints err for a terminal, rendering diagnostics with their
// location and hints
func reportError(err error) {
	if diag, ok := bindgen.AsDiagnostic(err); ok {
		if msg := err.Error(); msg != diag.Error() {
			pterm.Error.Println(msg)
		}
		pterm.Fprintln(os.Stderr, diag.FormatTerminal())
		return
	}

	pterm.Error.Println(err.Error())
	if hint := errors.FlattenHints(err); hint != "" {
		pterm.Info.Println(hint)
	}
}
