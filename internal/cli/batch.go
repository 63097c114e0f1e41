package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/csplice/internal/config"
	"github.com/mvp-joe/csplice/internal/pipeline"
)

// OutputPrefix names batch outputs: dir/main.c -> dir/preprocessed_main.c.
const OutputPrefix = "preprocessed_"

var batchQuiet bool

// batchCmd runs the pipeline on every file matching a glob.
var batchCmd = &cobra.Command{
	Use:   "batch <glob>",
	Short: "Preprocess every file matching a glob",
	Long: `Runs the pipeline once per matching file below the working directory.
Each file gets its own output next to it, prefixed with "preprocessed_".
The glob is matched against slash-separated relative paths, e.g. "src/**/*.c".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		files, err := matchFiles(wd, args[0])
		if err != nil {
			return err
		}
		return runBatch(cmd.OutOrStdout(), newLogger(cmd.ErrOrStderr()), cfg, files)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().BoolVarP(&batchQuiet, "quiet", "q", false, "hide the progress bar")
}

// matchFiles returns files below root whose relative path matches pattern,
// skipping earlier outputs.
func matchFiles(root, pattern string) ([]string, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), OutputPrefix) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if g.Match(filepath.ToSlash(rel)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// outputFor returns the batch output path for input.
func outputFor(input string) string {
	return filepath.Join(filepath.Dir(input), OutputPrefix+filepath.Base(input))
}

// runBatch processes files one after another. A failing file is reported and
// the rest still run; the joined failures are returned at the end.
func runBatch(out io.Writer, logger *log.Logger, cfg *config.Config, files []string) error {
	if len(files) == 0 {
		fmt.Fprintln(out, "No files matched.")
		return nil
	}

	p, err := pipeline.New(cfg, pipeline.WithLogger(logger), pipeline.WithVerbose(verbose))
	if err != nil {
		return err
	}
	defer p.Close()

	bar := newBatchBar(out, len(files), batchQuiet)

	var errs []error
	for _, file := range files {
		if _, err := p.Run(file, outputFor(file)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", file, err))
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	fmt.Fprintf(out, "Preprocessed %d of %d file(s)\n", len(files)-len(errs), len(files))
	return errors.Join(errs...)
}

func newBatchBar(out io.Writer, total int, quiet bool) *progressbar.ProgressBar {
	if quiet {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("Preprocessing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(out)
		}),
	)
}
