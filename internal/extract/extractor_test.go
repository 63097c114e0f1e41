package extract

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/csplice/internal/pattern"
	"github.com/mvp-joe/csplice/internal/source"
)

// Test Plan for Extractor:
// - Regex detector finds single-line signatures with an opening brace
// - IDs derive from line index and are unique
// - Raw text is kept verbatim, input untouched
// - Multi-line signatures are not recognized
// - Declarations without a brace are not recognized
// - Detector errors are wrapped
// - Out-of-range detector results are rejected
// - Tree-sitter detector agrees with the regex detector on simple input
// - Tree-sitter detector ignores braces on the following line

func regexExtractor() *Extractor {
	return NewExtractor(NewRegexDetector(regexp.MustCompile(pattern.DefaultFunction)))
}

func TestExtract_SingleLineSignatures(t *testing.T) {
	t.Parallel()

	text := source.Text{
		"#include <stdio.h>",
		"int f() {",
		"    return 1;",
		"}",
		"static void g(int a, char *b) {",
		"}",
	}

	elements, err := regexExtractor().Extract(text)
	require.NoError(t, err)
	require.Len(t, elements, 2)

	assert.Equal(t, CodeElement{ID: "Function_1", OriginLine: 1, RawText: "int f() {"}, elements[0])
	assert.Equal(t, CodeElement{ID: "Function_4", OriginLine: 4, RawText: "static void g(int a, char *b) {"}, elements[1])
}

func TestExtract_LeavesInputUntouched(t *testing.T) {
	t.Parallel()

	text := source.Text{"  int f()  {  "}
	before := text.Clone()

	elements, err := regexExtractor().Extract(text)
	require.NoError(t, err)
	require.Len(t, elements, 1)
	assert.Equal(t, "  int f()  {  ", elements[0].RawText)
	assert.Equal(t, before, text)
}

func TestExtract_MultiLineSignatureNotRecognized(t *testing.T) {
	t.Parallel()

	text := source.Text{
		"int f(int a,",
		"      int b) {",
		"int g()",
		"{",
		"int h(void);",
	}

	elements, err := regexExtractor().Extract(text)
	require.NoError(t, err)
	assert.Empty(t, elements)
}

type failingDetector struct{}

func (failingDetector) Detect(source.Text) ([]int, error) {
	return nil, errors.New("boom")
}

type outOfRangeDetector struct{}

func (outOfRangeDetector) Detect(source.Text) ([]int, error) {
	return []int{5}, nil
}

func TestExtract_DetectorErrors(t *testing.T) {
	t.Parallel()

	_, err := NewExtractor(failingDetector{}).Extract(source.Text{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	_, err = NewExtractor(outOfRangeDetector{}).Extract(source.Text{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside text")
}

func TestTreeSitterDetector_MatchesRegexOnSimpleInput(t *testing.T) {
	t.Parallel()

	text := source.Text{
		"int f() {",
		"    return 1;",
		"}",
		"int g(int x) {",
		"    return x;",
		"}",
	}

	want, err := regexExtractor().Extract(text)
	require.NoError(t, err)

	got, err := NewExtractor(NewTreeSitterDetector()).Extract(text)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTreeSitterDetector_BraceOnNextLine(t *testing.T) {
	t.Parallel()

	text := source.Text{
		"int f()",
		"{",
		"    return 1;",
		"}",
	}

	elements, err := NewExtractor(NewTreeSitterDetector()).Extract(text)
	require.NoError(t, err)
	assert.Empty(t, elements)
}
