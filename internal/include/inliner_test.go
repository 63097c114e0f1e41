package include

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/csplice/internal/pattern"
	"github.com/mvp-joe/csplice/internal/source"
)

// Test Plan for Inliner:
// - Existing header replaces the directive with all of its lines
// - Missing header drops the directive and reports a warning
// - Non-directive lines pass through unchanged
// - Names outside the allow-list are not treated as directives
// - Includes inside inlined content are not expanded (single level)
// - Configured include dirs are searched after the base dir
// - Headers are cached until Forget is called
// - Invalid allow patterns fail construction

func newInliner(t *testing.T, opts Options) *Inliner {
	t.Helper()
	in, err := New(regexp.MustCompile(pattern.DefaultInclude), opts)
	require.NoError(t, err)
	t.Cleanup(in.Close)
	return in
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestInline_ReplacesDirective(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "util.h"), "#define UTIL\nint util(void);\n")

	in := newInliner(t, Options{Allow: []string{"*.h"}})
	out, missing := in.Inline(source.Text{"// top", `#include "util.h"`, "int main() {"}, dir)

	assert.Empty(t, missing)
	assert.Equal(t, source.Text{"// top", "#define UTIL", "int util(void);", "int main() {"}, out)
}

func TestInline_MissingHeaderDropsLine(t *testing.T) {
	t.Parallel()

	in := newInliner(t, Options{Allow: []string{"*.h"}})
	out, missing := in.Inline(source.Text{`#include "nope.h"`, "int main() {"}, t.TempDir())

	assert.Equal(t, source.Text{"int main() {"}, out)
	require.Len(t, missing, 1)
	assert.Equal(t, "nope.h", missing[0].Name)
	assert.Equal(t, 0, missing[0].Line)
	assert.True(t, errors.Is(missing[0], os.ErrNotExist))
	assert.Contains(t, missing[0].Error(), "nope.h")
}

func TestInline_PassThrough(t *testing.T) {
	t.Parallel()

	in := newInliner(t, Options{Allow: []string{"*.h"}})
	input := source.Text{"#include <stdio.h>", "", "int x;"}
	out, missing := in.Inline(input, t.TempDir())

	assert.Empty(t, missing)
	assert.Equal(t, input, out)
}

func TestInline_AllowList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "impl.c"), "int impl() {\n")

	in := newInliner(t, Options{Allow: []string{"*.h"}})
	out, missing := in.Inline(source.Text{`#include "impl.c"`}, dir)

	assert.Empty(t, missing)
	assert.Equal(t, source.Text{`#include "impl.c"`}, out)

	_, ok := in.Directive(`#include "sub/dir.h"`)
	assert.True(t, ok)
}

func TestInline_SingleLevel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.h"), "#include \"b.h\"\nint a;\n")
	writeFile(t, filepath.Join(dir, "b.h"), "int b;\n")

	in := newInliner(t, Options{Allow: []string{"*.h"}})
	out, missing := in.Inline(source.Text{`#include "a.h"`}, dir)

	assert.Empty(t, missing)
	assert.Equal(t, source.Text{`#include "b.h"`, "int a;"}, out)
}

func TestInline_SearchDirs(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	extra := t.TempDir()
	writeFile(t, filepath.Join(extra, "cfg.h"), "#define CFG 1\n")

	in := newInliner(t, Options{Dirs: []string{extra}})
	out, missing := in.Inline(source.Text{`#include "cfg.h"`}, base)

	assert.Empty(t, missing)
	assert.Equal(t, source.Text{"#define CFG 1"}, out)
}

func TestInline_CacheAndForget(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	header := filepath.Join(dir, "v.h")
	writeFile(t, header, "int v1;\n")

	in := newInliner(t, Options{})
	first, _ := in.Inline(source.Text{`#include "v.h"`}, dir)
	assert.Equal(t, source.Text{"int v1;"}, first)

	writeFile(t, header, "int v2;\n")
	cached, _ := in.Inline(source.Text{`#include "v.h"`}, dir)
	assert.Equal(t, source.Text{"int v1;"}, cached)

	in.Forget()
	fresh, _ := in.Inline(source.Text{`#include "v.h"`}, dir)
	assert.Equal(t, source.Text{"int v2;"}, fresh)
}

func TestNew_InvalidAllowPattern(t *testing.T) {
	t.Parallel()

	_, err := New(regexp.MustCompile(pattern.DefaultInclude), Options{Allow: []string{"[*.h"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allow pattern")
}
