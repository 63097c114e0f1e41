package pattern

import (
	"fmt"
	"regexp"
)

// Default recognition patterns.
const (
	// DefaultInclude matches a quoted include and captures the file name.
	DefaultInclude = `#include\s+"(.+)"`

	// DefaultFunction matches a line-local function signature ending in "{".
	DefaultFunction = `(\w+\s+\w+\s*\(.*\)\s*\{)`

	// DefaultDefine captures a macro name and its (possibly empty) value.
	DefaultDefine = `#define\s+(\w+)\s*(.*)`
)

// Sources holds the uncompiled recognition patterns.
type Sources struct {
	Include  string
	Function string
	Define   string
}

// DefaultSources returns the built-in patterns.
func DefaultSources() Sources {
	return Sources{
		Include:  DefaultInclude,
		Function: DefaultFunction,
		Define:   DefaultDefine,
	}
}

// Set is the compiled form of Sources, shared read-only by the stages.
type Set struct {
	Include  *regexp.Regexp
	Function *regexp.Regexp
	Define   *regexp.Regexp
}

// CompilationError reports a recognition pattern that failed to initialize.
type CompilationError struct {
	Name string // "include", "function" or "define"
	Expr string
	Err  error
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("failed to compile %s pattern %q: %v", e.Name, e.Expr, e.Err)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

// Compile compiles every pattern in src. The include pattern must capture the
// file name and the define pattern must capture both name and value.
func Compile(src Sources) (*Set, error) {
	include, err := compile("include", src.Include, 1)
	if err != nil {
		return nil, err
	}
	function, err := compile("function", src.Function, 0)
	if err != nil {
		return nil, err
	}
	define, err := compile("define", src.Define, 2)
	if err != nil {
		return nil, err
	}
	return &Set{Include: include, Function: function, Define: define}, nil
}

// MustCompileDefaults compiles DefaultSources and panics on failure.
func MustCompileDefaults() *Set {
	set, err := Compile(DefaultSources())
	if err != nil {
		panic(err)
	}
	return set
}

func compile(name, expr string, groups int) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, &CompilationError{Name: name, Expr: expr, Err: fmt.Errorf("empty pattern")}
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &CompilationError{Name: name, Expr: expr, Err: err}
	}
	if re.NumSubexp() < groups {
		return nil, &CompilationError{
			Name: name,
			Expr: expr,
			Err:  fmt.Errorf("need at least %d capture group(s), got %d", groups, re.NumSubexp()),
		}
	}
	return re, nil
}
