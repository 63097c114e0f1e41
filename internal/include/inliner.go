package include

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/gobwas/glob"
	"github.com/maypok86/otter"

	"github.com/mvp-joe/csplice/internal/source"
)

// DefaultCacheSize is the number of header files kept in memory.
const DefaultCacheSize = 256

// MissingIncludeError reports an include whose file could not be read.
// It is a warning: the directive is dropped and inlining continues.
type MissingIncludeError struct {
	Name string // file name as written in the directive
	Line int    // 0-based line index of the directive
	Err  error
}

func (e *MissingIncludeError) Error() string {
	return fmt.Sprintf("header file '%s' not found (line %d): %v", e.Name, e.Line+1, e.Err)
}

func (e *MissingIncludeError) Unwrap() error {
	return e.Err
}

// Options configures an Inliner.
type Options struct {
	// Allow lists glob patterns a file name must match to be inlined.
	// Directives naming other files are left untouched. Empty allows all.
	Allow []string

	// Dirs are searched, in order, after the including file's directory.
	Dirs []string

	// CacheSize bounds the header cache. Zero means DefaultCacheSize.
	CacheSize int
}

// Inliner replaces quoted include directives with the referenced file's lines.
// Expansion is a single pass: directives inside inlined content stay as they are.
type Inliner struct {
	pattern *regexp.Regexp
	allow   []glob.Glob
	dirs    []string
	cache   otter.Cache[string, source.Text]
}

// New creates an Inliner. pattern must capture the file name in group 1.
func New(pattern *regexp.Regexp, opts Options) (*Inliner, error) {
	if pattern == nil || pattern.NumSubexp() < 1 {
		return nil, errors.New("include pattern must capture the file name")
	}

	in := &Inliner{
		pattern: pattern,
		dirs:    opts.Dirs,
	}

	for _, p := range opts.Allow {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid include allow pattern %q: %w", p, err)
		}
		in.allow = append(in.allow, g)
	}

	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := otter.MustBuilder[string, source.Text](size).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build include cache: %w", err)
	}
	in.cache = cache

	return in, nil
}

// Inline returns a new Text with every allowed include directive replaced by
// the file's contents. Names are resolved against baseDir, then Options.Dirs.
// Unreadable files drop the directive and are reported in the returned slice.
func (in *Inliner) Inline(text source.Text, baseDir string) (source.Text, []*MissingIncludeError) {
	out := make(source.Text, 0, len(text))
	var missing []*MissingIncludeError

	for idx, line := range text {
		name, ok := in.Directive(line)
		if !ok {
			out = append(out, line)
			continue
		}

		content, err := in.load(name, baseDir)
		if err != nil {
			missing = append(missing, &MissingIncludeError{Name: name, Line: idx, Err: err})
			continue
		}
		out = append(out, content...)
	}

	return out, missing
}

// Directive reports the file name referenced by line if it is an allowed
// include directive.
func (in *Inliner) Directive(line string) (string, bool) {
	m := in.pattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	name := m[1]
	if !in.allowed(name) {
		return "", false
	}
	return name, true
}

// Forget drops all cached header contents, e.g. after files changed on disk.
func (in *Inliner) Forget() {
	in.cache.Clear()
}

// Close releases the cache.
func (in *Inliner) Close() {
	in.cache.Close()
}

func (in *Inliner) allowed(name string) bool {
	if len(in.allow) == 0 {
		return true
	}
	for _, g := range in.allow {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func (in *Inliner) load(name, baseDir string) (source.Text, error) {
	var firstErr error
	for _, path := range in.candidates(name, baseDir) {
		if content, ok := in.cache.Get(path); ok {
			return content, nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		content := source.Split(string(data))
		in.cache.Set(path, content)
		return content, nil
	}
	return nil, firstErr
}

func (in *Inliner) candidates(name, baseDir string) []string {
	if filepath.IsAbs(name) {
		return []string{filepath.Clean(name)}
	}
	paths := make([]string, 0, len(in.dirs)+1)
	paths = append(paths, filepath.Join(baseDir, name))
	for _, dir := range in.dirs {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths
}
