package macro

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/csplice/internal/pattern"
	"github.com/mvp-joe/csplice/internal/source"
)

// Test Plan for Transformer:
// - Flag macro becomes a cfg marker
// - Valued macro becomes a string constant, even when numeric
// - Trailing whitespace does not turn a flag into a value
// - Quotes and backslashes in values stay a valid literal
// - Non-define lines pass through
// - Text without defines is unchanged (idempotent)
// - Same line always yields the same output
// - Pattern without enough groups is rejected

func newTransformer(t *testing.T) *Transformer {
	t.Helper()
	tr, err := NewTransformer(regexp.MustCompile(pattern.DefaultDefine))
	require.NoError(t, err)
	return tr
}

func TestTransform_FlagMacro(t *testing.T) {
	t.Parallel()

	out := newTransformer(t).Transform(source.Text{"#define DEBUG"})
	assert.Equal(t, source.Text{"#[cfg(DEBUG)]"}, out)
}

func TestTransform_ValuedMacro(t *testing.T) {
	t.Parallel()

	out := newTransformer(t).Transform(source.Text{"#define MAX 100", "#define NAME hello world"})
	assert.Equal(t, source.Text{
		`const MAX: &str = "100";`,
		`const NAME: &str = "hello world";`,
	}, out)
}

func TestParse_TrailingWhitespace(t *testing.T) {
	t.Parallel()

	tr := newTransformer(t)

	def, ok := tr.Parse("#define DEBUG   ")
	require.True(t, ok)
	assert.True(t, def.IsFlag())

	def, ok = tr.Parse("#define MAX 100 \t")
	require.True(t, ok)
	assert.Equal(t, Definition{Name: "MAX", Value: "100"}, def)
}

func TestRender_EscapesLiteral(t *testing.T) {
	t.Parallel()

	def := Definition{Name: "GREETING", Value: `"hi\n"`}
	assert.Equal(t, `const GREETING: &str = "\"hi\\n\"";`, def.Render())
}

func TestTransform_PassThroughAndIdempotent(t *testing.T) {
	t.Parallel()

	tr := newTransformer(t)
	text := source.Text{"// Function start: Function_0", "int f() {", "", "#undef X"}

	once := tr.Transform(text)
	assert.Equal(t, text, once)
	assert.Equal(t, once, tr.Transform(once))
}

func TestTransform_Deterministic(t *testing.T) {
	t.Parallel()

	tr := newTransformer(t)
	in := source.Text{"#define X", "#define X 5"}
	assert.Equal(t, tr.Transform(in), tr.Transform(in))
	assert.Equal(t, source.Text{"#[cfg(X)]", `const X: &str = "5";`}, tr.Transform(in))
}

func TestNewTransformer_RejectsPattern(t *testing.T) {
	t.Parallel()

	_, err := NewTransformer(regexp.MustCompile(`#define\s+(\w+)`))
	assert.Error(t, err)
}
