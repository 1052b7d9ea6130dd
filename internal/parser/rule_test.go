package parser

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser-go/internal/taxonomy"
	"resume-parser-go/internal/types"
)

func newTestRuleParser(t *testing.T) *RuleBasedParser {
	t.Helper()
	tax := taxonomy.Default()
	pats, err := NewPatterns(tax)
	require.NoError(t, err)
	return NewRuleBasedParser(tax, pats, 0.7, 0)
}

func TestRuleParseEndToEnd(t *testing.T) {
	p := newTestRuleParser(t)

	text := "Jane Smith\njane.smith@email.com\n(555) 987-6543\n\nEducation\nMaster of Science in Computer Science\nStanford University (2019)"
	rec, err := p.Parse(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, "Jane Smith", rec.Name)
	assert.Equal(t, "jane.smith@email.com", rec.Email)
	assert.Equal(t, "(555) 987-6543", rec.Phone)

	require.Len(t, rec.Education, 1)
	assert.Equal(t, "Stanford University", rec.Education[0].Institution)
	assert.Equal(t, "2019", rec.Education[0].Year)

	assert.Equal(t, types.ParsingRule, rec.Metadata.ParsingMethod)
	assert.Equal(t, len(text), rec.Metadata.TextLength)
	assert.Equal(t, 2, rec.Metadata.SectionsDetected)
}

func TestRuleParseFullResume(t *testing.T) {
	p := newTestRuleParser(t)

	rec, err := p.Parse(context.Background(), sampleResume)
	require.NoError(t, err)

	assert.Equal(t, "Jane Smith", rec.Name)
	require.Len(t, rec.Experience, 1)
	assert.Equal(t, "Senior Software Engineer", rec.Experience[0].Title)
	assert.Equal(t, "TechCorp Inc", rec.Experience[0].Company)
	assert.Len(t, rec.Experience[0].Description, 2)

	require.Contains(t, rec.Skills, "programming_languages")
	assert.ElementsMatch(t, []string{"python", "go"}, rec.Skills["programming_languages"])
	assert.Contains(t, rec.Skills["devops_tools"], "kubernetes")
	assert.Contains(t, rec.Skills["databases"], "postgresql")
}

func TestRuleParseIdempotent(t *testing.T) {
	p := newTestRuleParser(t)

	first, err := p.Parse(context.Background(), sampleResume)
	require.NoError(t, err)
	second, err := p.Parse(context.Background(), sampleResume)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRuleParseNoEmptyValuesLeak(t *testing.T) {
	p := newTestRuleParser(t)

	inputs := []string{
		sampleResume,
		"just plain prose with no structure at all",
		"Skills\n, , | |\n",
		"Education\n\n\n",
	}
	for _, input := range inputs {
		rec, err := p.Parse(context.Background(), input)
		require.NoError(t, err)

		for cat, kws := range rec.Skills {
			assert.NotEmpty(t, kws, "skills category %q is empty for input %q", cat, input)
			for _, kw := range kws {
				assert.NotEmpty(t, kw)
			}
		}
		for _, cert := range rec.Certifications {
			assert.NotEmpty(t, cert)
		}
		for _, e := range rec.Education {
			assert.True(t, e.Degree != "" || e.Institution != "",
				"education entry with no degree and no institution for input %q", input)
		}
	}
}

func TestRuleParseCancelledContext(t *testing.T) {
	p := newTestRuleParser(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Parse(ctx, sampleResume)
	assert.Error(t, err)
}
