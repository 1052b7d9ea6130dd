package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser-go/internal/taxonomy"
	"resume-parser-go/internal/types"
)

// stubEmbedder returns fixed vectors per text, so similarity outcomes are
// fully controlled. Unmapped texts get a diagonal vector that sits far
// from every axis-aligned exemplar.
type stubEmbedder struct {
	vectors map[string][]float64
	err     error
	calls   int
}

func (s *stubEmbedder) EmbedStrings(_ context.Context, texts []string) ([][]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.calls++
	out := make([][]float64, len(texts))
	for i, text := range texts {
		if v, ok := s.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = []float64{1, 1, 1}
		}
	}
	return out, nil
}

// classifierTaxonomy has two exemplars for education and three for
// experience, so epsilon ties must resolve toward education.
func classifierTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.New(taxonomy.Data{
		Sections: []taxonomy.SectionEntry{
			{
				Key:       types.CategoryEducation,
				Synonyms:  []string{"education"},
				Exemplars: []string{"edu phrase one", "edu phrase two"},
			},
			{
				Key:       types.CategoryExperience,
				Synonyms:  []string{"experience"},
				Exemplars: []string{"work phrase one", "work phrase two", "work phrase three"},
			},
		},
		Skills: []taxonomy.SkillEntry{
			{Key: "programming_languages", Keywords: []string{"python", "go"}},
		},
		ContactPatterns: map[string][]string{
			"email": {`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`},
		},
	})
	require.NoError(t, err)
	return tax
}

func classifierEmbedder() *stubEmbedder {
	return &stubEmbedder{vectors: map[string][]float64{
		"edu phrase one":    {1, 0, 0},
		"edu phrase two":    {0.9, 0.1, 0},
		"work phrase one":   {0, 1, 0},
		"work phrase two":   {0, 0.9, 0.1},
		"work phrase three": {0.1, 0.9, 0},
	}}
}

func TestClassifyAssignsNearestCategory(t *testing.T) {
	tax := classifierTaxonomy(t)
	emb := classifierEmbedder()
	emb.vectors["studied computer science"] = []float64{0.95, 0.05, 0}
	emb.vectors["built backend services"] = []float64{0.05, 0.95, 0}

	idx, err := BuildCategoryIndex(context.Background(), emb, tax)
	require.NoError(t, err)
	c := NewClassifier(tax, idx, 0.7, 0.01)

	chunks := []types.Chunk{
		{Index: 0, Text: "studied computer science"},
		{Index: 1, Text: "built backend services"},
	}
	cls, err := c.ClassifyChunks(context.Background(), emb, chunks)
	require.NoError(t, err)
	require.Len(t, cls, 2)

	assert.Equal(t, types.CategoryEducation, cls[0].Category)
	assert.Greater(t, cls[0].Confidence, 0.7)
	assert.Equal(t, types.CategoryExperience, cls[1].Category)

	// Embeddings get attached to the chunks.
	assert.NotNil(t, chunks[0].Embedding)
}

func TestClassifyBelowThresholdIsUnclassified(t *testing.T) {
	tax := classifierTaxonomy(t)
	emb := classifierEmbedder()

	idx, err := BuildCategoryIndex(context.Background(), emb, tax)
	require.NoError(t, err)
	c := NewClassifier(tax, idx, 0.7, 0.01)

	// The stub's fallback diagonal vector scores ~0.58 against every
	// exemplar, below the threshold.
	cls, err := c.ClassifyChunks(context.Background(), emb, []types.Chunk{
		{Index: 0, Text: "completely unrelated content"},
	})
	require.NoError(t, err)
	require.Len(t, cls, 1)
	assert.Equal(t, types.CategoryUnclassified, cls[0].Category)
	assert.Less(t, cls[0].Confidence, 0.7)
	assert.Equal(t, 0, cls[0].Rank)
}

func TestClassifyEpsilonTiePrefersSmallerExemplarSet(t *testing.T) {
	tax := classifierTaxonomy(t)
	emb := classifierEmbedder()
	// Equidistant from the education and experience axes.
	emb.vectors["ambiguous text"] = []float64{1, 1, 0}

	idx, err := BuildCategoryIndex(context.Background(), emb, tax)
	require.NoError(t, err)
	c := NewClassifier(tax, idx, 0.6, 0.01)

	cls, err := c.ClassifyChunks(context.Background(), emb, []types.Chunk{
		{Index: 0, Text: "ambiguous text"},
	})
	require.NoError(t, err)
	require.Len(t, cls, 1)
	assert.Equal(t, types.CategoryEducation, cls[0].Category,
		"tie must resolve to the category with fewer exemplars")
}

func TestClassifyRanksByConfidence(t *testing.T) {
	tax := classifierTaxonomy(t)
	emb := classifierEmbedder()
	emb.vectors["strong education match"] = []float64{1, 0, 0}
	emb.vectors["weaker experience match"] = []float64{0.2, 0.8, 0}

	idx, err := BuildCategoryIndex(context.Background(), emb, tax)
	require.NoError(t, err)
	c := NewClassifier(tax, idx, 0.7, 0.01)

	cls, err := c.ClassifyChunks(context.Background(), emb, []types.Chunk{
		{Index: 0, Text: "weaker experience match"},
		{Index: 1, Text: "strong education match"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, cls[0].Rank)
	assert.Equal(t, 1, cls[1].Rank)
}

func TestClassifyBatchesEmbedderCalls(t *testing.T) {
	tax := classifierTaxonomy(t)
	emb := classifierEmbedder()

	idx, err := BuildCategoryIndex(context.Background(), emb, tax)
	require.NoError(t, err)
	require.Equal(t, 1, emb.calls, "index build embeds all exemplars in one batch")

	c := NewClassifier(tax, idx, 0.7, 0.01)
	_, err = c.ClassifyChunks(context.Background(), emb, []types.Chunk{
		{Index: 0, Text: "a"}, {Index: 1, Text: "b"}, {Index: 2, Text: "c"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, emb.calls, "all chunks embed in one batch")
}

func TestBuildCategoryIndexPropagatesEmbedderError(t *testing.T) {
	tax := classifierTaxonomy(t)
	emb := &stubEmbedder{err: assert.AnError}
	_, err := BuildCategoryIndex(context.Background(), emb, tax)
	assert.ErrorIs(t, err, assert.AnError)
}
