package pipeline

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/mvp-joe/csplice/internal/config"
	"github.com/mvp-joe/csplice/internal/extract"
	"github.com/mvp-joe/csplice/internal/graph"
	"github.com/mvp-joe/csplice/internal/include"
	"github.com/mvp-joe/csplice/internal/macro"
	"github.com/mvp-joe/csplice/internal/pattern"
	"github.com/mvp-joe/csplice/internal/reassemble"
	"github.com/mvp-joe/csplice/internal/source"
)

// Stage names used in StageError.
const (
	StageRead       = "read"
	StageExtract    = "extract"
	StageGraph      = "graph"
	StageSort       = "sort"
	StageReassemble = "reassemble"
	StageWrite      = "write"
)

// StageError identifies the stage that stopped a run.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Report summarizes one run.
type Report struct {
	RunID    string
	Input    string
	Output   string
	Elements int
	Order    []string
	Warnings []error // recoverable problems, e.g. *include.MissingIncludeError
}

// Pipeline runs inline → extract → graph → sort → reassemble → macro.
// Stages run sequentially and each receives a fresh copy of the text.
type Pipeline struct {
	cfg       *config.Config
	inliner   *include.Inliner
	extractor *extract.Extractor
	macros    *macro.Transformer
	build     BuildFunc
	logger    *log.Logger
	verbose   bool
}

// BuildFunc creates the dependency graph for elements in extraction order.
type BuildFunc func(elements []extract.CodeElement) (*graph.DependencyGraph, error)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the diagnostic logger. Warnings and verbose output go here.
func WithLogger(logger *log.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithVerbose enables per-stage progress logging.
func WithVerbose(verbose bool) Option {
	return func(p *Pipeline) {
		p.verbose = verbose
	}
}

// WithDetector replaces the detector chosen by the configuration.
func WithDetector(d extract.Detector) Option {
	return func(p *Pipeline) {
		p.extractor = extract.NewExtractor(d)
	}
}

// WithGraphBuilder replaces the linear-chain graph builder.
func WithGraphBuilder(build BuildFunc) Option {
	return func(p *Pipeline) {
		p.build = build
	}
}

// New compiles the recognition patterns and wires the stages. A pattern that
// fails to compile returns a *pattern.CompilationError before any file I/O.
func New(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	src := cfg.Patterns()
	if src.Function == "" && strings.EqualFold(cfg.Detect.Strategy, config.StrategyTreeSitter) {
		src.Function = pattern.DefaultFunction
	}
	patterns, err := pattern.Compile(src)
	if err != nil {
		return nil, err
	}

	inliner, err := include.New(patterns.Include, include.Options{
		Allow:     cfg.Include.Allow,
		Dirs:      cfg.Include.Dirs,
		CacheSize: cfg.Include.CacheSize,
	})
	if err != nil {
		return nil, err
	}

	macros, err := macro.NewTransformer(patterns.Define)
	if err != nil {
		inliner.Close()
		return nil, err
	}

	p := &Pipeline{
		cfg:       cfg,
		inliner:   inliner,
		extractor: extract.NewExtractor(newDetector(cfg.Detect.Strategy, patterns.Function)),
		macros:    macros,
		build:     graph.Build,
		logger:    log.New(os.Stderr, "", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func newDetector(strategy string, function *regexp.Regexp) extract.Detector {
	if strings.EqualFold(strategy, config.StrategyTreeSitter) {
		return extract.NewTreeSitterDetector()
	}
	return extract.NewRegexDetector(function)
}

// Close releases the include cache.
func (p *Pipeline) Close() {
	p.inliner.Close()
}

// Forget drops cached header contents so the next run rereads them.
func (p *Pipeline) Forget() {
	p.inliner.Forget()
}

// RunConfigured runs the pipeline on the configured input and output paths.
func (p *Pipeline) RunConfigured() (*Report, error) {
	return p.Run(p.cfg.IO.Input, p.cfg.IO.Output)
}

// Run reads input, processes it and writes output. Nothing is written when a
// stage fails.
func (p *Pipeline) Run(input, output string) (*Report, error) {
	text, err := source.Read(input)
	if err != nil {
		return nil, &StageError{Stage: StageRead, Err: err}
	}

	result, report, err := p.Process(text, filepath.Dir(input))
	if err != nil {
		return report, err
	}
	report.Input = input

	if err := source.Write(output, result); err != nil {
		return report, &StageError{Stage: StageWrite, Err: err}
	}
	report.Output = output

	return report, nil
}

// Process runs every in-memory stage on text. Includes resolve against baseDir.
func (p *Pipeline) Process(text source.Text, baseDir string) (source.Text, *Report, error) {
	report := &Report{RunID: uuid.New().String()}

	inlined, missing := p.inliner.Inline(text.Clone(), baseDir)
	for _, m := range missing {
		p.logger.Printf("Warning: %v. Skipping include.", m)
		report.Warnings = append(report.Warnings, m)
	}
	p.debugf(report, "inlined %d line(s) into %d, %d include(s) skipped", len(text), len(inlined), len(missing))

	elements, err := p.extractor.Extract(inlined)
	if err != nil {
		return nil, report, &StageError{Stage: StageExtract, Err: err}
	}
	report.Elements = len(elements)
	p.debugf(report, "extracted %d function(s)", len(elements))

	g, err := p.build(elements)
	if err != nil {
		return nil, report, &StageError{Stage: StageGraph, Err: err}
	}

	order, err := graph.Sort(g)
	if err != nil {
		return nil, report, &StageError{Stage: StageSort, Err: err}
	}
	report.Order = order
	p.debugf(report, "sorted %d element(s) over %d edge(s)", len(order), len(g.Edges()))

	reordered, err := reassemble.Reassemble(order, elements)
	if err != nil {
		return nil, report, &StageError{Stage: StageReassemble, Err: err}
	}

	result := p.macros.Transform(reordered)
	p.debugf(report, "produced %d line(s)", len(result))

	return result, report, nil
}

func (p *Pipeline) debugf(report *Report, format string, args ...any) {
	if !p.verbose {
		return
	}
	p.logger.Printf("[%s] "+format, append([]any{report.RunID}, args...)...)
}
