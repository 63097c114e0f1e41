package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/csplice/internal/config"
	"github.com/mvp-joe/csplice/internal/pipeline"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd runs the pipeline once on the configured input and output paths.
var rootCmd = &cobra.Command{
	Use:   "csplice",
	Short: "Inline includes, reorder functions and rewrite macros in a C file",
	Long: `csplice reads main.c, inlines quoted includes, orders the function
definitions it finds, rewrites #define lines into cfg markers and string
constants, and writes preprocessed_main.c.

Paths and recognition patterns come from .csplice/config.yml or CSPLICE_*
environment variables.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, err = runPreprocess(cmd.OutOrStdout(), newLogger(cmd.ErrOrStderr()), cfg)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error during preprocessing: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .csplice/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads configuration from --config or the working directory.
func loadConfig() (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	if cfgFile != "" {
		return config.NewFileLoader(wd, cfgFile).Load()
	}
	return config.NewLoader(wd).Load()
}

func newLogger(w io.Writer) *log.Logger {
	return log.New(w, "", log.LstdFlags)
}

// runPreprocess builds a pipeline from cfg and runs it once.
func runPreprocess(out io.Writer, logger *log.Logger, cfg *config.Config) (*pipeline.Report, error) {
	p, err := pipeline.New(cfg, pipeline.WithLogger(logger), pipeline.WithVerbose(verbose))
	if err != nil {
		return nil, err
	}
	defer p.Close()

	report, err := p.RunConfigured()
	if err != nil {
		return report, err
	}

	fmt.Fprintf(out, "Preprocessing complete. Output: %s\n", report.Output)
	return report, nil
}
