// Package config loads csplice settings.
//
// Priority (highest to lowest):
//  1. Environment variables (CSPLICE_*, nested keys joined with "_")
//  2. Project config (.csplice/config.yml or .csplice/config.yaml)
//  3. Built-in defaults
//
// With no config file and no environment overrides csplice reads main.c and
// writes preprocessed_main.c in the working directory.
package config

import (
	"github.com/mvp-joe/csplice/internal/include"
	"github.com/mvp-joe/csplice/internal/pattern"
)

// Detection strategies.
const (
	StrategyRegex      = "regex"
	StrategyTreeSitter = "treesitter"
)

// Config represents the complete csplice configuration.
type Config struct {
	IO      IOConfig      `yaml:"io" mapstructure:"io"`
	Include IncludeConfig `yaml:"include" mapstructure:"include"`
	Detect  DetectConfig  `yaml:"detect" mapstructure:"detect"`
	Macro   MacroConfig   `yaml:"macro" mapstructure:"macro"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
}

// IOConfig names the fixed input and output files of a run.
type IOConfig struct {
	Input  string `yaml:"input" mapstructure:"input"`
	Output string `yaml:"output" mapstructure:"output"`
}

// IncludeConfig controls include inlining.
type IncludeConfig struct {
	Pattern   string   `yaml:"pattern" mapstructure:"pattern"`       // regex, group 1 is the file name
	Allow     []string `yaml:"allow" mapstructure:"allow"`           // glob patterns for inlinable names
	Dirs      []string `yaml:"dirs" mapstructure:"dirs"`             // searched after the input's directory
	CacheSize int      `yaml:"cache_size" mapstructure:"cache_size"` // headers kept in memory
}

// DetectConfig selects how function-definition lines are found.
type DetectConfig struct {
	Strategy string `yaml:"strategy" mapstructure:"strategy"` // "regex" or "treesitter"
	Pattern  string `yaml:"pattern" mapstructure:"pattern"`   // used by the regex strategy
}

// MacroConfig controls #define rewriting.
type MacroConfig struct {
	Pattern string `yaml:"pattern" mapstructure:"pattern"` // regex, groups 1 and 2 are name and value
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		IO: IOConfig{
			Input:  "main.c",
			Output: "preprocessed_main.c",
		},
		Include: IncludeConfig{
			Pattern:   pattern.DefaultInclude,
			Allow:     []string{"*.h"},
			Dirs:      []string{},
			CacheSize: include.DefaultCacheSize,
		},
		Detect: DetectConfig{
			Strategy: StrategyRegex,
			Pattern:  pattern.DefaultFunction,
		},
		Macro: MacroConfig{
			Pattern: pattern.DefaultDefine,
		},
		Watch: WatchConfig{
			DebounceMs: 300,
		},
	}
}

// Patterns returns the recognition patterns to compile.
func (c *Config) Patterns() pattern.Sources {
	return pattern.Sources{
		Include:  c.Include.Pattern,
		Function: c.Detect.Pattern,
		Define:   c.Macro.Pattern,
	}
}
