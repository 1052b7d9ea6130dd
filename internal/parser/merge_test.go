package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser-go/internal/types"
)

func TestMergeContactPrefersRule(t *testing.T) {
	rule := &types.ResumeRecord{Name: "Jane Smith", Email: "jane@example.com"}
	semantic := &types.ResumeRecord{Name: "J. Smith", Phone: "(555) 987-6543"}

	out := Merge(rule, semantic)
	assert.Equal(t, "Jane Smith", out.Name)
	assert.Equal(t, "jane@example.com", out.Email)
	assert.Equal(t, "(555) 987-6543", out.Phone, "semantic fills fields the rule path missed")
	assert.Equal(t, types.ParsingMerged, out.Metadata.ParsingMethod)
}

func TestMergeEducationDedupsByNormalizedSignature(t *testing.T) {
	rule := &types.ResumeRecord{Education: []types.Education{
		{Degree: "PhD", Institution: "MIT", Year: "2023"},
	}}
	semantic := &types.ResumeRecord{Education: []types.Education{
		{Degree: "PhD", Institution: "M.I.T."},
		{Degree: "Bachelor of Arts", Institution: "State College"},
	}}

	out := Merge(rule, semantic)
	require.Len(t, out.Education, 2, "MIT and M.I.T. are the same institution")
	assert.Equal(t, "MIT", out.Education[0].Institution)
	assert.Equal(t, "2023", out.Education[0].Year, "the more populated entry wins")
	assert.Equal(t, "State College", out.Education[1].Institution)
}

func TestMergeKeepsMorePopulatedEntryOnCollision(t *testing.T) {
	rule := &types.ResumeRecord{Experience: []types.Experience{
		{Title: "Software Engineer", Company: "Acme Corp"},
	}}
	semantic := &types.ResumeRecord{Experience: []types.Experience{
		{Title: "software engineer", Company: "ACME CORP", Duration: "2020-2023",
			Description: []string{"Built the billing system"}},
	}}

	out := Merge(rule, semantic)
	require.Len(t, out.Experience, 1)
	assert.Equal(t, "2020-2023", out.Experience[0].Duration)
	assert.Len(t, out.Experience[0].Description, 1)
}

func TestMergeSkillsUnionCaseInsensitive(t *testing.T) {
	rule := &types.ResumeRecord{Skills: map[string][]string{
		"programming_languages": {"python", "go"},
	}}
	semantic := &types.ResumeRecord{Skills: map[string][]string{
		"programming_languages": {"Python", "java"},
		"databases":             {"postgresql"},
	}}

	out := Merge(rule, semantic)
	assert.Equal(t, []string{"python", "go", "java"}, out.Skills["programming_languages"])
	assert.Equal(t, []string{"postgresql"}, out.Skills["databases"])
}

func TestMergeCertificationsDedup(t *testing.T) {
	rule := &types.ResumeRecord{Certifications: []string{"AWS Certified Solutions Architect"}}
	semantic := &types.ResumeRecord{Certifications: []string{
		"aws certified solutions architect",
		"Certified Kubernetes Administrator",
	}}

	out := Merge(rule, semantic)
	assert.Equal(t, []string{
		"AWS Certified Solutions Architect",
		"Certified Kubernetes Administrator",
	}, out.Certifications)
}

func TestMergeEmptyRecords(t *testing.T) {
	out := Merge(&types.ResumeRecord{}, &types.ResumeRecord{})
	assert.Nil(t, out.Skills)
	assert.Empty(t, out.Education)
	assert.Empty(t, out.Certifications)
}

func TestMergeMetadataCombinesBothPaths(t *testing.T) {
	rule := &types.ResumeRecord{Metadata: types.Metadata{
		ParsingMethod: types.ParsingRule, TextLength: 120, SectionsDetected: 3,
	}}
	semantic := &types.ResumeRecord{Metadata: types.Metadata{
		ParsingMethod: types.ParsingSemantic, TextLength: 120, ChunksProcessed: 5,
	}}

	out := Merge(rule, semantic)
	assert.Equal(t, types.ParsingMerged, out.Metadata.ParsingMethod)
	assert.Equal(t, 120, out.Metadata.TextLength)
	assert.Equal(t, 3, out.Metadata.SectionsDetected)
	assert.Equal(t, 5, out.Metadata.ChunksProcessed)
}

func TestCompareFlags(t *testing.T) {
	rule := &types.ResumeRecord{
		Name: "Jane Smith", Email: "JANE@example.com", Phone: "(555) 987-6543",
		Skills:   map[string][]string{"programming_languages": {"python", "go"}},
		Metadata: types.Metadata{SectionsDetected: 3},
	}
	semantic := &types.ResumeRecord{
		Name: "jane smith", Email: "jane@example.com", Phone: "555-987-6543",
		Skills:   map[string][]string{"databases": {"postgresql"}},
		Metadata: types.Metadata{SectionsDetected: 2},
	}

	cmp := Compare(rule, semantic)
	assert.True(t, cmp.Contact.NameMatch)
	assert.True(t, cmp.Contact.EmailMatch)
	assert.False(t, cmp.Contact.PhoneMatch, "phone comparison is exact")
	assert.Equal(t, 2, cmp.RuleSkillCount)
	assert.Equal(t, 1, cmp.SemanticSkillCount)
	assert.Equal(t, 3, cmp.RuleSections)
	assert.Equal(t, 2, cmp.SemanticSections)
}
