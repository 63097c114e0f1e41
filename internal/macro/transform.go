package macro

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mvp-joe/csplice/internal/source"
)

// Definition is a parsed #define line. An empty Value marks a flag-style macro.
type Definition struct {
	Name  string
	Value string
}

// IsFlag reports whether the macro has no value.
func (d Definition) IsFlag() bool {
	return d.Value == ""
}

// Render returns the declarative replacement for d: a conditional-compilation
// marker for flags, otherwise a string constant. Values are never interpreted.
func (d Definition) Render() string {
	if d.IsFlag() {
		return fmt.Sprintf("#[cfg(%s)]", d.Name)
	}
	return fmt.Sprintf("const %s: &str = \"%s\";", d.Name, literalEscaper.Replace(d.Value))
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Transformer rewrites #define lines.
type Transformer struct {
	pattern *regexp.Regexp
}

// NewTransformer creates a Transformer. pattern must capture the macro name in
// group 1 and its value in group 2.
func NewTransformer(pattern *regexp.Regexp) (*Transformer, error) {
	if pattern == nil || pattern.NumSubexp() < 2 {
		return nil, errors.New("define pattern must capture name and value")
	}
	return &Transformer{pattern: pattern}, nil
}

// Parse extracts the definition on line, if any. Trailing whitespace is not
// part of the value.
func (t *Transformer) Parse(line string) (Definition, bool) {
	m := t.pattern.FindStringSubmatch(line)
	if m == nil {
		return Definition{}, false
	}
	return Definition{
		Name:  m[1],
		Value: strings.TrimRight(m[2], " \t"),
	}, true
}

// Transform returns a new Text in which every #define line is replaced by its
// rendering. Other lines are copied unchanged.
func (t *Transformer) Transform(text source.Text) source.Text {
	out := make(source.Text, 0, len(text))
	for _, line := range text {
		if def, ok := t.Parse(line); ok {
			out = append(out, def.Render())
			continue
		}
		out = append(out, line)
	}
	return out
}
