package extract

import (
	"fmt"
	"regexp"

	"github.com/mvp-joe/csplice/internal/source"
)

// CodeElement is one detected function-definition line.
type CodeElement struct {
	ID         string // unique within one run, derived from OriginLine
	OriginLine int    // 0-based index into the text it was extracted from
	RawText    string // the line verbatim
}

// ElementID returns the identity assigned to an element found at line idx.
func ElementID(idx int) string {
	return fmt.Sprintf("Function_%d", idx)
}

// Detector decides which lines of a text start a function definition.
// Detection is line-local: a signature spread over several lines is not
// reported. Returned indexes must be ascending and unique.
type Detector interface {
	Detect(text source.Text) ([]int, error)
}

// Extractor turns detected lines into CodeElements. It never alters a line.
type Extractor struct {
	detector Detector
}

// NewExtractor creates an Extractor backed by detector.
func NewExtractor(detector Detector) *Extractor {
	return &Extractor{detector: detector}
}

// Extract returns the elements of text in line order.
func (e *Extractor) Extract(text source.Text) ([]CodeElement, error) {
	lines, err := e.detector.Detect(text)
	if err != nil {
		return nil, fmt.Errorf("failed to detect functions: %w", err)
	}

	elements := make([]CodeElement, 0, len(lines))
	for _, idx := range lines {
		if idx < 0 || idx >= len(text) {
			return nil, fmt.Errorf("detector returned line %d outside text of %d lines", idx, len(text))
		}
		elements = append(elements, CodeElement{
			ID:         ElementID(idx),
			OriginLine: idx,
			RawText:    text[idx],
		})
	}
	return elements, nil
}

// RegexDetector reports every line matched by a pattern.
type RegexDetector struct {
	pattern *regexp.Regexp
}

// NewRegexDetector creates a detector for pattern.
func NewRegexDetector(pattern *regexp.Regexp) *RegexDetector {
	return &RegexDetector{pattern: pattern}
}

func (d *RegexDetector) Detect(text source.Text) ([]int, error) {
	var lines []int
	for idx, line := range text {
		if d.pattern.MatchString(line) {
			lines = append(lines, idx)
		}
	}
	return lines, nil
}
