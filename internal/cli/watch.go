package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/csplice/internal/config"
	"github.com/mvp-joe/csplice/internal/pipeline"
	"github.com/mvp-joe/csplice/internal/watcher"
)

// watchCmd re-runs the pipeline whenever the input or a header changes.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run preprocessing when the input or its headers change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		return runWatch(ctx, newLogger(cmd.ErrOrStderr()), cfg)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// runWatch runs once, then on every debounced change until ctx is done.
// Failed runs are logged and do not stop watching.
func runWatch(ctx context.Context, logger *log.Logger, cfg *config.Config) error {
	p, err := pipeline.New(cfg, pipeline.WithLogger(logger), pipeline.WithVerbose(verbose))
	if err != nil {
		return err
	}
	defer p.Close()

	w, err := watcher.NewFileWatcher(watchOptions(cfg))
	if err != nil {
		return err
	}
	defer w.Stop()

	run := func() {
		report, err := p.RunConfigured()
		if err != nil {
			logger.Printf("Error during preprocessing: %v", err)
			return
		}
		logger.Printf("Preprocessing complete. Output: %s", report.Output)
	}

	run()

	if err := w.Start(ctx, func(files []string) {
		logger.Printf("Reprocessing due to changes in %d file(s)...", len(files))
		p.Forget()
		run()
	}); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}

// watchOptions watches the input's directory and every include dir for the
// input file and allowed headers, ignoring the output to avoid feedback.
func watchOptions(cfg *config.Config) watcher.Options {
	dirs := []string{filepath.Dir(cfg.IO.Input)}
	dirs = append(dirs, cfg.Include.Dirs...)

	// No allow-list means any header may be inlined, so any file may matter.
	var patterns []string
	if len(cfg.Include.Allow) > 0 {
		patterns = append([]string{filepath.Base(cfg.IO.Input)}, cfg.Include.Allow...)
	}

	return watcher.Options{
		Dirs:     dirs,
		Patterns: patterns,
		Ignore:   []string{cfg.IO.Output},
		Debounce: time.Duration(cfg.Watch.DebounceMs) * time.Millisecond,
	}
}
