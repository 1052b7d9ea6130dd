package parser

import (
	"context"
	"fmt"
	"math"
	"sort"

	"resume-parser-go/internal/embedding"
	"resume-parser-go/internal/taxonomy"
	"resume-parser-go/internal/types"
)

const (
	defaultConfidenceThreshold = 0.70
	defaultTieEpsilon          = 0.01
)

// CategoryIndex holds the embedded exemplar phrases for every taxonomy
// category, as one flat list searched with a single nearest-neighbor pass
// so categories compete directly. Vectors are unit-normalized at build
// time, making cosine similarity a plain dot product. The index is
// immutable after construction and safe for concurrent readers.
type CategoryIndex struct {
	categories []types.Category
	vectors    [][]float64
}

// BuildCategoryIndex embeds all exemplar phrases in one batch and builds
// the search index. The index depends only on the taxonomy and the model,
// so callers should build it once and reuse it across parse calls.
func BuildCategoryIndex(ctx context.Context, emb embedding.TextEmbedder, tax *taxonomy.Taxonomy) (*CategoryIndex, error) {
	exemplars := tax.Exemplars()
	if len(exemplars) == 0 {
		return nil, fmt.Errorf("taxonomy has no exemplar phrases")
	}
	texts := make([]string, len(exemplars))
	for i, ex := range exemplars {
		texts[i] = ex.Phrase
	}

	vectors, err := emb.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding exemplars: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("exemplar embedding count mismatch: got %d for %d phrases", len(vectors), len(texts))
	}

	idx := &CategoryIndex{
		categories: make([]types.Category, len(exemplars)),
		vectors:    make([][]float64, len(exemplars)),
	}
	for i, ex := range exemplars {
		v := normalize(vectors[i])
		if v == nil {
			return nil, fmt.Errorf("exemplar %q produced a zero vector", ex.Phrase)
		}
		idx.categories[i] = ex.Category
		idx.vectors[i] = v
	}
	return idx, nil
}

// normalize returns a unit-length copy of v, or nil for a zero vector.
func normalize(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return nil
	}
	norm := math.Sqrt(sum)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// Classifier assigns chunks to taxonomy categories by nearest-exemplar
// cosine similarity.
type Classifier struct {
	tax       *taxonomy.Taxonomy
	idx       *CategoryIndex
	threshold float64
	epsilon   float64
}

// NewClassifier builds a Classifier over a prebuilt index. threshold is
// the minimum similarity for an assignment to stick; epsilon is the margin
// within which two categories count as tied. Non-positive values select
// the defaults.
func NewClassifier(tax *taxonomy.Taxonomy, idx *CategoryIndex, threshold, epsilon float64) *Classifier {
	if threshold <= 0 {
		threshold = defaultConfidenceThreshold
	}
	if epsilon <= 0 {
		epsilon = defaultTieEpsilon
	}
	return &Classifier{tax: tax, idx: idx, threshold: threshold, epsilon: epsilon}
}

// ClassifyChunks embeds every chunk in one batched call and assigns each
// to its nearest category. Chunks whose best similarity does not exceed
// the threshold come back labeled unclassified. The returned slice is
// ordered by chunk index; Rank orders classified chunks by descending
// confidence.
func (c *Classifier) ClassifyChunks(ctx context.Context, emb embedding.TextEmbedder, chunks []types.Chunk) ([]types.Classification, error) {
	if len(chunks) == 0 {
		return nil, nil
	}
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	vectors, err := emb.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("chunk embedding count mismatch: got %d for %d chunks", len(vectors), len(chunks))
	}

	out := make([]types.Classification, len(chunks))
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
		cat, score := c.nearest(normalize(vectors[i]))
		cls := types.Classification{ChunkIndex: chunks[i].Index, Category: types.CategoryUnclassified, Confidence: score}
		if cat != "" && score > c.threshold {
			cls.Category = cat
		}
		out[i] = cls
	}

	rankByConfidence(out)
	return out, nil
}

// nearest returns the winning category and the best similarity over the
// whole exemplar union. Categories whose best exemplar lands within
// epsilon of the winner tie; ties prefer the category with the smaller
// (more specific) exemplar set, then taxonomy declaration order.
func (c *Classifier) nearest(vec []float64) (types.Category, float64) {
	if vec == nil {
		return "", 0
	}
	best := make(map[types.Category]float64)
	var top float64
	var topSet bool
	for i, ev := range c.idx.vectors {
		score := dot(vec, ev)
		cat := c.idx.categories[i]
		if s, ok := best[cat]; !ok || score > s {
			best[cat] = score
		}
		if !topSet || score > top {
			top = score
			topSet = true
		}
	}
	if !topSet {
		return "", 0
	}

	var winner types.Category
	for cat, score := range best {
		if top-score > c.epsilon {
			continue
		}
		if winner == "" || c.prefers(cat, winner) {
			winner = cat
		}
	}
	return winner, top
}

// prefers reports whether a beats b under the tie-break policy.
func (c *Classifier) prefers(a, b types.Category) bool {
	ca, cb := c.tax.ExemplarCount(a), c.tax.ExemplarCount(b)
	if ca != cb {
		return ca < cb
	}
	return c.tax.DeclarationRank(a) < c.tax.DeclarationRank(b)
}

// rankByConfidence fills Rank: classified chunks sorted by descending
// confidence get ranks from 1; unclassified chunks keep rank 0.
func rankByConfidence(cls []types.Classification) {
	order := make([]int, 0, len(cls))
	for i := range cls {
		if cls[i].Category != types.CategoryUnclassified {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return cls[order[a]].Confidence > cls[order[b]].Confidence
	})
	for rank, i := range order {
		cls[i].Rank = rank + 1
	}
}
