package cmd

import (
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/am"
)

// InitCmd writes a default configuration file
var InitCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default bindgen.toml",
	Long: `Write a bindgen.toml holding every setting at its default value.

An existing file is backed up first (bindgen.toml.back1, rotating up to
.back3).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		path := filepath.Join(dir, am.ConfigFileName)

		if err := am.WriteDefault(path); err != nil {
			return err
		}
		pterm.Fprintln(cmd.OutOrStdout(), pterm.Green("✓")+" Wrote "+path)
		return nil
	},
}
