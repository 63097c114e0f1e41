package source

import (
	"fmt"
	"os"
	"strings"
)

// Text is an ordered sequence of source lines without their line terminators.
// Stages never modify a Text they receive; they return a new one.
type Text []string

// Split breaks s into lines. A trailing "\r" is stripped from each line and a
// final line terminator does not produce an extra empty line.
func Split(s string) Text {
	if s == "" {
		return Text{}
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return Text(lines)
}

// String renders the text with every line terminated by "\n".
func (t Text) String() string {
	var b strings.Builder
	for _, line := range t {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// Clone returns a copy that shares no backing storage with t.
func (t Text) Clone() Text {
	out := make(Text, len(t))
	copy(out, t)
	return out
}

// IOError reports a failure to read the primary input or write the output.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Read loads the file at path as a Text.
func Read(path string) (Text, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return Split(string(data)), nil
}

// Write stores t at path, replacing any existing file.
func Write(path string, t Text) error {
	if err := os.WriteFile(path, []byte(t.String()), 0644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
