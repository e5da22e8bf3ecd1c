package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/am"
	"github.com/teranos/bindgen/bindgen"
)

// CheckCmd checks if generated headers are up to date
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check if generated headers are up to date",
	Long: `Check if the headers in the output directory match a fresh run.

Headers are generated in memory and compared byte for byte; nothing is
written. Headers on disk that the run no longer produces are reported as
stale.

Exit codes:
  0 - Headers are up to date
  1 - Headers are out of date, or generation failed

Examples:
  bindgen check                  # Check include/
  bindgen check -o gen/include   # Check another directory`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	CheckCmd.Flags().StringP("input", "i", am.DefaultInput, "Declaration stream to read")
	CheckCmd.Flags().StringP("output", "o", am.DefaultOutputDir, "Directory holding the generated headers")
	CheckCmd.Flags().String("lib-name", am.DefaultLibName, "Library name (aggregate header and root module directory)")
	CheckCmd.Flags().String("custom-code-file", "", "File whose contents are placed at the top of the aggregate header")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	outputs, err := buildOutputs(cfg)
	if err != nil {
		return err
	}

	result, err := bindgen.CompareOutputs(outputs, cfg.Output.Dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result.UpToDate {
		pterm.Fprintln(out, pterm.Green("✓")+" Headers are up to date")
		return nil
	}

	pterm.Fprintln(out, pterm.Red("✗")+" Headers are out of date")
	printFiles(cmd, "differ", result.Differences)
	printFiles(cmd, "missing", result.Missing)
	printFiles(cmd, "stale", result.Stale)

	return result.Err()
}

func printFiles(cmd *cobra.Command, label string, files []string) {
	if len(files) == 0 {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s:\n", label)
	for _, f := range files {
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", f)
	}
}
