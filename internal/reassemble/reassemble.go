package reassemble

import (
	"errors"
	"fmt"

	"github.com/mvp-joe/csplice/internal/extract"
	"github.com/mvp-joe/csplice/internal/source"
)

// MarkerPrefix starts the comment line emitted before each element.
const MarkerPrefix = "// Function start: "

// ErrUnknownElement indicates an identity in the order with no matching element.
var ErrUnknownElement = errors.New("unknown element")

// Marker returns the marker line for an element identity.
func Marker(id string) string {
	return MarkerPrefix + id
}

// Reassemble emits, for each identity in order, its marker line followed by
// the element's raw text. Lines that are not elements are not reproduced.
func Reassemble(order []string, elements []extract.CodeElement) (source.Text, error) {
	byID := make(map[string]extract.CodeElement, len(elements))
	for _, e := range elements {
		byID[e.ID] = e
	}

	out := make(source.Text, 0, 2*len(order))
	for _, id := range order {
		e, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownElement, id)
		}
		out = append(out, Marker(e.ID), e.RawText)
	}
	return out, nil
}
