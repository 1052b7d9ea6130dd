package parser

import (
	"strings"

	"resume-parser-go/internal/taxonomy"
	"resume-parser-go/internal/types"
)

// Segmenter splits normalized text into an ordered sequence of labeled
// sections using header detection. The sections cover the whole input with
// no gaps or overlaps: concatenating their Raw spans in order reconstructs
// the input byte for byte.
type Segmenter struct {
	tax       *taxonomy.Taxonomy
	threshold float64
}

// NewSegmenter creates a Segmenter with the given header confidence
// threshold. Lines whose header match scores at or below the threshold stay
// part of the current section body.
func NewSegmenter(tax *taxonomy.Taxonomy, threshold float64) *Segmenter {
	return &Segmenter{tax: tax, threshold: threshold}
}

// Segment scans the text line by line. Everything before the first detected
// header becomes a reserved "contact" preamble section; each detected
// header starts a new section labeled with its category.
func (s *Segmenter) Segment(text string) []types.Section {
	if text == "" {
		return nil
	}

	var sections []types.Section
	lines := strings.SplitAfter(text, "\n")

	current := types.Section{Label: types.CategoryContact, StartOffset: 0}
	var raw strings.Builder
	var body strings.Builder
	offset := 0

	flush := func(end int) {
		if raw.Len() == 0 {
			return
		}
		current.Raw = raw.String()
		current.Body = body.String()
		current.EndOffset = end
		sections = append(sections, current)
		raw.Reset()
		body.Reset()
	}

	for _, line := range lines {
		if line == "" {
			continue
		}
		match, isHeader := s.tax.MatchHeader(line)
		if isHeader && match.Confidence > s.threshold {
			flush(offset)
			current = types.Section{
				Label:       match.Category,
				Heading:     strings.TrimSpace(line),
				StartOffset: offset,
			}
			raw.WriteString(line)
		} else {
			raw.WriteString(line)
			body.WriteString(line)
		}
		offset += len(line)
	}
	flush(offset)

	return sections
}
