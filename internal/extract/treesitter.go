package extract

import (
	"fmt"
	"sort"

	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"

	"github.com/mvp-joe/csplice/internal/source"
)

// TreeSitterDetector uses the tree-sitter C grammar. A line is reported when a
// function_definition starts on it and the opening brace of its body sits on
// the same line, so detection stays line-local like RegexDetector.
type TreeSitterDetector struct {
	language *sitter.Language
}

// NewTreeSitterDetector creates a detector for C sources.
func NewTreeSitterDetector() *TreeSitterDetector {
	return &TreeSitterDetector{
		language: sitter.NewLanguage(c.Language()),
	}
}

func (d *TreeSitterDetector) Detect(text source.Text) ([]int, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(d.language); err != nil {
		return nil, fmt.Errorf("failed to load C grammar: %w", err)
	}

	src := []byte(text.String())
	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse source")
	}
	defer tree.Close()

	seen := make(map[int]bool)
	walkTree(tree.RootNode(), func(n *sitter.Node) bool {
		if n.Kind() != "function_definition" {
			return true
		}
		row := int(n.StartPosition().Row)
		body := n.ChildByFieldName("body")
		if body != nil && int(body.StartPosition().Row) == row {
			seen[row] = true
		}
		// Function bodies cannot contain further definitions.
		return false
	})

	lines := make([]int, 0, len(seen))
	for row := range seen {
		if row < len(text) {
			lines = append(lines, row)
		}
	}
	sort.Ints(lines)
	return lines, nil
}

// walkTree visits node and its descendants depth-first. Returning false from
// visitor skips the node's children.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}
