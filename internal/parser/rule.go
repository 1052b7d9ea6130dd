package parser

import (
	"context"

	"resume-parser-go/internal/taxonomy"
	"resume-parser-go/internal/types"
)

// RuleBasedParser is the deterministic extraction path: it segments the
// document by section headers, then runs the shared field extractors on
// each labeled section's body. It needs no external service and never
// fails on well-formed text.
type RuleBasedParser struct {
	tax    *taxonomy.Taxonomy
	pats   *Patterns
	seg    *Segmenter
	fields *FieldExtractor
}

// NewRuleBasedParser wires the rule path. headerThreshold is the section
// header confidence cutoff; maxSkills caps total extracted skills.
func NewRuleBasedParser(tax *taxonomy.Taxonomy, pats *Patterns, headerThreshold float64, maxSkills int) *RuleBasedParser {
	return &RuleBasedParser{
		tax:    tax,
		pats:   pats,
		seg:    NewSegmenter(tax, headerThreshold),
		fields: NewFieldExtractor(tax, pats, maxSkills),
	}
}

// Parse extracts a structured record from normalized text. Contact fields
// are matched over the whole document, so resumes that put an email in the
// footer still resolve. A field the extractors cannot locate is omitted
// from the record rather than aborting the parse.
func (p *RuleBasedParser) Parse(ctx context.Context, text string) (*types.ResumeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sections := p.seg.Segment(text)
	rec := &types.ResumeRecord{
		Metadata: types.Metadata{
			ParsingMethod:    types.ParsingRule,
			TextLength:       len(text),
			SectionsDetected: len(sections),
		},
	}

	contact := p.fields.Contact(text)
	rec.Name = contact.Name
	rec.Email = contact.Email
	rec.Phone = contact.Phone
	rec.LinkedIn = contact.LinkedIn
	rec.GitHub = contact.GitHub

	for _, sec := range sections {
		p.fields.Apply(rec, sec.Label, sec.Body)
	}
	return rec, nil
}
