package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrEmptyPath indicates a missing input or output path
	ErrEmptyPath = errors.New("empty path")

	// ErrSamePath indicates the output would overwrite the input
	ErrSamePath = errors.New("input and output are the same file")

	// ErrEmptyPattern indicates a missing recognition pattern
	ErrEmptyPattern = errors.New("empty pattern")

	// ErrInvalidGlob indicates an include allow pattern that does not compile
	ErrInvalidGlob = errors.New("invalid glob")

	// ErrInvalidStrategy indicates an unsupported detection strategy
	ErrInvalidStrategy = errors.New("invalid detection strategy")

	// ErrInvalidCacheSize indicates a non-positive include cache size
	ErrInvalidCacheSize = errors.New("invalid cache size")

	// ErrInvalidDebounce indicates a non-positive watch debounce
	ErrInvalidDebounce = errors.New("invalid debounce")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateIO(&cfg.IO); err != nil {
		errs = append(errs, err)
	}
	if err := validateInclude(&cfg.Include); err != nil {
		errs = append(errs, err)
	}
	if err := validateDetect(&cfg.Detect); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(cfg.Macro.Pattern) == "" {
		errs = append(errs, fmt.Errorf("%w: macro.pattern is required", ErrEmptyPattern))
	}
	if cfg.Watch.DebounceMs <= 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms must be positive, got %d", ErrInvalidDebounce, cfg.Watch.DebounceMs))
	}

	return joinErrors(errs)
}

func validateIO(cfg *IOConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Input) == "" {
		errs = append(errs, fmt.Errorf("%w: io.input is required", ErrEmptyPath))
	}
	if strings.TrimSpace(cfg.Output) == "" {
		errs = append(errs, fmt.Errorf("%w: io.output is required", ErrEmptyPath))
	}
	if cfg.Input != "" && filepath.Clean(cfg.Input) == filepath.Clean(cfg.Output) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrSamePath, cfg.Input))
	}

	return joinErrors(errs)
}

func validateInclude(cfg *IncludeConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Pattern) == "" {
		errs = append(errs, fmt.Errorf("%w: include.pattern is required", ErrEmptyPattern))
	}
	for _, p := range cfg.Allow {
		if _, err := glob.Compile(p); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidGlob, p, err))
		}
	}
	if cfg.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: cache_size must be positive, got %d", ErrInvalidCacheSize, cfg.CacheSize))
	}

	return joinErrors(errs)
}

func validateDetect(cfg *DetectConfig) error {
	var errs []error

	switch strings.ToLower(cfg.Strategy) {
	case StrategyRegex:
		if strings.TrimSpace(cfg.Pattern) == "" {
			errs = append(errs, fmt.Errorf("%w: detect.pattern is required for the regex strategy", ErrEmptyPattern))
		}
	case StrategyTreeSitter:
	default:
		errs = append(errs, fmt.Errorf("%w: must be '%s' or '%s', got '%s'", ErrInvalidStrategy, StrategyRegex, StrategyTreeSitter, cfg.Strategy))
	}

	return joinErrors(errs)
}

// joinErrors combines multiple errors into a single error that still matches
// each of them with errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return fmt.Errorf("validation failed:\n%w", errors.Join(errs...))
}
