package cmd

import (
	"context"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/am"
	"github.com/teranos/bindgen/bindgen"
	"github.com/teranos/bindgen/bindgen/c"
	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/internal/util"
	"github.com/teranos/bindgen/internal/watch"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/syntax"
)

var generateWatch bool

// GenerateCmd writes headers for the declaration stream
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate C headers",
	Long: `Generate C headers from a declaration stream.

Writes one header per module (ffi/net → <output>/<lib>/net.h) and an
aggregate <output>/<lib>.h including every module header, producers first.
Existing files are overwritten; nothing is written when any item fails.

Examples:
  bindgen generate                          # Use bindgen.toml or defaults
  bindgen generate -i api.yaml -o include   # Explicit input and output
  bindgen generate --lib-name safe_app      # Rename the aggregate header
  bindgen generate --watch                  # Regenerate on every change`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().StringP("input", "i", am.DefaultInput, "Declaration stream to read")
	GenerateCmd.Flags().StringP("output", "o", am.DefaultOutputDir, "Directory to write headers into")
	GenerateCmd.Flags().String("lib-name", am.DefaultLibName, "Library name (aggregate header and root module directory)")
	GenerateCmd.Flags().String("custom-code-file", "", "File whose contents are placed at the top of the aggregate header")
	GenerateCmd.Flags().BoolVarP(&generateWatch, "watch", "w", false, "Regenerate when the input or config changes")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if !generateWatch {
		return generateOnce(cmd.OutOrStdout(), cfg)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return watchAndGenerate(ctx, cmd, cfg)
}

// newBackend creates the language backend for a run
func newBackend(cfg *am.Config) (bindgen.Lang, error) {
	lang := c.NewLangC()
	lang.SetLibName(cfg.LibName)

	code, err := cfg.ResolveCustomCode()
	if err != nil {
		return nil, err
	}
	if code != "" {
		lang.AddCustomCode(code)
	}
	return lang, nil
}

// buildOutputs runs the whole pipeline in memory
func buildOutputs(cfg *am.Config) (bindgen.Outputs, error) {
	stream, err := syntax.DecodeFile(cfg.Input)
	if err != nil {
		return nil, err
	}

	lang, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}
	return bindgen.Generate(lang, stream)
}

func generateOnce(out io.Writer, cfg *am.Config) error {
	start := time.Now()

	outputs, err := buildOutputs(cfg)
	if err != nil {
		return err
	}

	written, err := bindgen.WriteOutputs(outputs, cfg.Output.Dir)
	if err != nil {
		return err
	}

	log := logger.ChildLogger(logger.ComponentLogger("generate"), logger.FieldPath, cfg.Output.Dir)
	for _, path := range written {
		pterm.Fprintln(out, pterm.Green("✓")+" Generated "+filepath.ToSlash(path))
	}
	if logger.ShouldLogTrace(cfg.Log.Verbosity) {
		for _, header := range util.SortedKeys(outputs) {
			log.Debugw("rendered header", logger.FieldHeader, header, "text", outputs[header])
		}
	}
	log.Infow("headers written",
		logger.FieldCount, len(written),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return nil
}

// watchAndGenerate generates once, then again after every settled change
// to the watched files. Failures are reported and watching continues.
func watchAndGenerate(ctx context.Context, cmd *cobra.Command, cfg *am.Config) error {
	out := cmd.OutOrStdout()
	current := cfg

	regenerate := func() {
		if err := generateOnce(out, current); err != nil {
			reportError(err)
		}
	}
	regenerate()

	changes := make(chan []string, 1)
	w, err := watch.New(cfg.WatchPaths(), cfg.Watch.Debounce(), func(changed []string) {
		select {
		case changes <- changed:
		default:
			// A regeneration is already queued and will see this change
		}
	})
	if err != nil {
		return errors.Wrap(err, "failed to start watcher")
	}

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	pterm.Info.Printf("Watching %d files, press Ctrl+C to stop\n", len(cfg.WatchPaths()))

	for {
		select {
		case err := <-done:
			return err
		case changed := <-changes:
			logger.Infow("regenerating", logger.FieldFile, changed)

			// The config may have changed too; keep the last good one
			if reloaded, err := loadConfig(cmd); err != nil {
				reportError(err)
			} else {
				current = reloaded
			}
			regenerate()
		}
	}
}
