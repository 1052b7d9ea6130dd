package parser

import (
	"context"
	"strings"

	"resume-parser-go/internal/embedding"
	"resume-parser-go/internal/taxonomy"
	"resume-parser-go/internal/types"
)

// SemanticParser is the embedding-driven extraction path: it chunks the
// document independent of headers, classifies each chunk against the
// taxonomy's exemplar index, then runs the same field extractors as the
// rule path on each category's concatenated chunks. It differs from the
// rule path only in how text is attributed to categories.
type SemanticParser struct {
	tax        *taxonomy.Taxonomy
	fields     *FieldExtractor
	chunker    *Chunker
	classifier *Classifier
}

// NewSemanticParser wires the semantic path over a prebuilt classifier.
func NewSemanticParser(tax *taxonomy.Taxonomy, fields *FieldExtractor, chunker *Chunker, classifier *Classifier) *SemanticParser {
	return &SemanticParser{tax: tax, fields: fields, chunker: chunker, classifier: classifier}
}

// Parse extracts a structured record using chunk classification. The
// embedder is called once for all chunks together. Unclassified chunks
// never contribute to structured fields. Errors from the embedder
// propagate unchanged so callers can distinguish unavailability from
// real failures.
func (p *SemanticParser) Parse(ctx context.Context, emb embedding.TextEmbedder, text string) (*types.ResumeRecord, error) {
	chunks := p.chunker.Chunk(text)
	classifications, err := p.classifier.ClassifyChunks(ctx, emb, chunks)
	if err != nil {
		return nil, err
	}

	rec := &types.ResumeRecord{
		Metadata: types.Metadata{
			ParsingMethod:   types.ParsingSemantic,
			TextLength:      len(text),
			ChunksProcessed: len(chunks),
		},
	}

	contact := p.fields.Contact(text)
	rec.Name = contact.Name
	rec.Email = contact.Email
	rec.Phone = contact.Phone
	rec.LinkedIn = contact.LinkedIn
	rec.GitHub = contact.GitHub

	// Group classified chunks by category in document order, then extract
	// fields from each group's concatenated text.
	groups := make(map[types.Category][]string)
	var order []types.Category
	for i, cls := range classifications {
		if cls.Category == types.CategoryUnclassified {
			continue
		}
		if _, ok := groups[cls.Category]; !ok {
			order = append(order, cls.Category)
		}
		groups[cls.Category] = append(groups[cls.Category], chunks[i].Text)
	}
	rec.Metadata.SectionsDetected = len(order)
	for _, cat := range order {
		p.fields.Apply(rec, cat, strings.Join(groups[cat], "\n"))
	}
	return rec, nil
}
