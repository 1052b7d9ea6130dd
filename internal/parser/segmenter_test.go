package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser-go/internal/taxonomy"
	"resume-parser-go/internal/types"
)

const sampleResume = `Jane Smith
jane.smith@email.com
(555) 987-6543

Education
Master of Science in Computer Science
Stanford University (2019)

Work Experience
Senior Software Engineer | TechCorp Inc | 2020-2023
• Led a team of five developers
• Shipped the billing platform rewrite

Technical Skills
Python, Go, Kubernetes, PostgreSQL
`

func TestSegmentReconstructsInput(t *testing.T) {
	seg := NewSegmenter(taxonomy.Default(), 0.7)

	inputs := []string{
		sampleResume,
		"no headers at all, just one paragraph of text\nwith a second line\n",
		"Education\nonly one section\n",
		"text without trailing newline",
	}
	for _, input := range inputs {
		sections := seg.Segment(input)
		var b strings.Builder
		for _, s := range sections {
			b.WriteString(s.Raw)
		}
		assert.Equal(t, input, b.String(), "concatenated sections must reconstruct the input")

		// Offsets cover the text with no gaps or overlaps.
		offset := 0
		for _, s := range sections {
			assert.Equal(t, offset, s.StartOffset)
			assert.Equal(t, s.Raw, input[s.StartOffset:s.EndOffset])
			offset = s.EndOffset
		}
		assert.Equal(t, len(input), offset)
	}
}

func TestSegmentLabels(t *testing.T) {
	seg := NewSegmenter(taxonomy.Default(), 0.7)
	sections := seg.Segment(sampleResume)
	require.Len(t, sections, 4)

	assert.Equal(t, types.CategoryContact, sections[0].Label)
	assert.Empty(t, sections[0].Heading)
	assert.Contains(t, sections[0].Body, "Jane Smith")

	assert.Equal(t, types.CategoryEducation, sections[1].Label)
	assert.Equal(t, "Education", sections[1].Heading)
	assert.Contains(t, sections[1].Body, "Stanford University")
	assert.NotContains(t, sections[1].Body, "Education\n")

	assert.Equal(t, types.CategoryExperience, sections[2].Label)
	assert.Equal(t, types.CategorySkills, sections[3].Label)
}

func TestSegmentNoHeaders(t *testing.T) {
	seg := NewSegmenter(taxonomy.Default(), 0.7)
	sections := seg.Segment("just some text\nacross two lines\n")
	require.Len(t, sections, 1)
	assert.Equal(t, types.CategoryContact, sections[0].Label)
}

func TestSegmentHeuristicHeadingRespectsThreshold(t *testing.T) {
	text := "Jane Smith\n\nPersonal Interests\nhiking and photography\n\nEducation\nStanford University\n"

	// At the default threshold a layout-only heading stays in the current
	// section body.
	strict := NewSegmenter(taxonomy.Default(), 0.7)
	sections := strict.Segment(text)
	require.Len(t, sections, 2)
	assert.Equal(t, types.CategoryContact, sections[0].Label)
	assert.Contains(t, sections[0].Body, "Personal Interests")
	assert.Equal(t, types.CategoryEducation, sections[1].Label)

	// A lower threshold lets it start an unclassified section.
	loose := NewSegmenter(taxonomy.Default(), 0.4)
	sections = loose.Segment(text)
	require.Len(t, sections, 3)
	assert.Equal(t, types.CategoryUnclassified, sections[1].Label)
	assert.Equal(t, "Personal Interests", sections[1].Heading)
}

func TestSegmentEmptyInput(t *testing.T) {
	seg := NewSegmenter(taxonomy.Default(), 0.7)
	assert.Nil(t, seg.Segment(""))
}
