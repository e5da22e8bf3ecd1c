package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/am"
	"github.com/teranos/bindgen/errors"
)

var configJSON bool

// ConfigCmd shows the effective configuration and where each value came from
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show effective configuration",
	Long: `Show every configuration setting, its effective value and the source
that provided it (default, file, environment or flag).

Examples:
  bindgen config                          # Table of settings
  BINDGEN_LIB_NAME=app bindgen config     # See an env override win
  bindgen config --json                   # Machine-readable`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	ConfigCmd.Flags().BoolVarP(&configJSON, "json", "j", false, "Output as JSON")
}

func runConfig(cmd *cobra.Command, args []string) error {
	v, err := am.NewViper(configPath, cmd.Flags())
	if err != nil {
		return err
	}
	info := am.Introspect(v, cmd.Flags())
	out := cmd.OutOrStdout()

	if configJSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal configuration")
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if info.ConfigFile != "" {
		fmt.Fprintf(out, "Config file: %s\n\n", info.ConfigFile)
	} else {
		fmt.Fprintf(out, "Config file: none (no %s found)\n\n", am.ConfigFileName)
	}
	for _, s := range info.Settings {
		fmt.Fprintf(out, "%-20s %-24v %s (%s)\n", s.Key, s.Value, s.Source, s.SourcePath)
	}
	return nil
}
