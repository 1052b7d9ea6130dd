package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"resume-parser-go/internal/embedding"
	"resume-parser-go/internal/taxonomy"
	"resume-parser-go/internal/types"
)

// ErrEmptyInput reports that the document text was empty, whitespace-only
// or not valid UTF-8. It is a caller error, distinct from any internal
// extraction failure.
var ErrEmptyInput = errors.New("empty or invalid input text")

const defaultHeaderThreshold = 0.7

// EngineConfig carries the tunable extraction parameters. Zero values
// select the documented defaults.
type EngineConfig struct {
	// HeaderThreshold is the section header confidence cutoff for the
	// rule path.
	HeaderThreshold float64
	// ConfidenceThreshold is the minimum chunk similarity for the
	// semantic path to accept a category assignment.
	ConfidenceThreshold float64
	// TieEpsilon is the similarity margin within which two categories
	// count as tied.
	TieEpsilon float64
	// MinChunkChars and MaxChunkChars bound chunk sizes.
	MinChunkChars int
	MaxChunkChars int
	// MaxSkills caps the total number of extracted skills.
	MaxSkills int
}

// Result is what one parse call produces. Comparison is non-nil only for
// method="both" runs where both paths completed.
type Result struct {
	Record     *types.ResumeRecord `json:"record"`
	Comparison *types.Comparison   `json:"comparison,omitempty"`
}

// Engine runs the extraction pipeline. It is safe for concurrent use: the
// taxonomy, patterns and exemplar index are read-only after construction,
// and each Parse call works on its own state.
type Engine struct {
	tax     *taxonomy.Taxonomy
	cfg     EngineConfig
	rule    *RuleBasedParser
	fields  *FieldExtractor
	chunker *Chunker
	emb     embedding.TextEmbedder
	logger  zerolog.Logger
	tracer  trace.Tracer

	mu       sync.Mutex
	semantic *SemanticParser
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEmbedder attaches the embedding capability. Without it the engine
// serves rule-based extraction only.
func WithEmbedder(emb embedding.TextEmbedder) EngineOption {
	return func(e *Engine) {
		e.emb = emb
	}
}

// WithEngineLogger attaches a logger.
func WithEngineLogger(logger zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine builds an Engine over the given taxonomy.
func NewEngine(tax *taxonomy.Taxonomy, cfg EngineConfig, opts ...EngineOption) (*Engine, error) {
	pats, err := NewPatterns(tax)
	if err != nil {
		return nil, fmt.Errorf("compiling extraction patterns: %w", err)
	}
	if cfg.HeaderThreshold <= 0 {
		cfg.HeaderThreshold = defaultHeaderThreshold
	}
	e := &Engine{
		tax:     tax,
		cfg:     cfg,
		rule:    NewRuleBasedParser(tax, pats, cfg.HeaderThreshold, cfg.MaxSkills),
		fields:  NewFieldExtractor(tax, pats, cfg.MaxSkills),
		chunker: NewChunker(cfg.MinChunkChars, cfg.MaxChunkChars),
		logger:  zerolog.Nop(),
		tracer:  otel.Tracer("resume-parser-go/internal/parser"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Parse extracts a structured record from normalized text using the
// requested method. When the semantic path is requested but the embedding
// capability is absent or unreachable, the engine degrades to rule-based
// output and records that in the metadata instead of failing the parse.
func (e *Engine) Parse(ctx context.Context, text string, method types.ParseMethod) (*Result, error) {
	if !utf8.ValidString(text) || strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if method == "" {
		method = types.MethodRule
	}

	ctx, span := e.tracer.Start(ctx, "engine.Parse",
		trace.WithAttributes(
			attribute.String("parse.method", string(method)),
			attribute.Int("parse.text_length", len(text)),
		))
	defer span.End()

	switch method {
	case types.MethodRule:
		rec, err := e.parseRule(ctx, text)
		if err != nil {
			return nil, err
		}
		return &Result{Record: rec}, nil

	case types.MethodSemantic:
		rec, err := e.parseSemantic(ctx, text)
		if err == nil {
			return &Result{Record: rec}, nil
		}
		if !errors.Is(err, embedding.ErrUnavailable) {
			return nil, err
		}
		e.logger.Warn().Err(err).Msg("embedder unavailable, falling back to rule-based parsing")
		rec, err = e.parseRule(ctx, text)
		if err != nil {
			return nil, err
		}
		return &Result{Record: rec}, nil

	case types.MethodBoth:
		ruleRec, err := e.parseRule(ctx, text)
		if err != nil {
			return nil, err
		}
		semRec, err := e.parseSemantic(ctx, text)
		if err != nil {
			if errors.Is(err, embedding.ErrUnavailable) {
				e.logger.Warn().Err(err).Msg("embedder unavailable, returning rule-based record only")
				return &Result{Record: ruleRec}, nil
			}
			return nil, err
		}
		return &Result{
			Record:     Merge(ruleRec, semRec),
			Comparison: Compare(ruleRec, semRec),
		}, nil

	default:
		return nil, fmt.Errorf("unknown parse method %q", method)
	}
}

func (e *Engine) parseRule(ctx context.Context, text string) (*types.ResumeRecord, error) {
	ctx, span := e.tracer.Start(ctx, "engine.parseRule")
	defer span.End()
	rec, err := e.rule.Parse(ctx, text)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("parse.sections", rec.Metadata.SectionsDetected))
	return rec, nil
}

func (e *Engine) parseSemantic(ctx context.Context, text string) (*types.ResumeRecord, error) {
	if e.emb == nil {
		return nil, fmt.Errorf("no embedder configured: %w", embedding.ErrUnavailable)
	}
	ctx, span := e.tracer.Start(ctx, "engine.parseSemantic")
	defer span.End()

	sem, err := e.semanticParser(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := sem.Parse(ctx, e.emb, text)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("parse.chunks", rec.Metadata.ChunksProcessed))
	return rec, nil
}

// semanticParser lazily builds the exemplar index on first use and reuses
// it for every later call; the taxonomy is immutable so the index never
// goes stale. A failed build is not cached, so a transient embedder outage
// only degrades the calls it overlaps.
func (e *Engine) semanticParser(ctx context.Context) (*SemanticParser, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.semantic != nil {
		return e.semantic, nil
	}

	ctx, span := e.tracer.Start(ctx, "engine.buildCategoryIndex")
	defer span.End()

	idx, err := BuildCategoryIndex(ctx, e.emb, e.tax)
	if err != nil {
		return nil, err
	}
	classifier := NewClassifier(e.tax, idx, e.cfg.ConfidenceThreshold, e.cfg.TieEpsilon)
	e.semantic = NewSemanticParser(e.tax, e.fields, e.chunker, classifier)
	e.logger.Debug().Int("exemplars", len(idx.vectors)).Msg("built category similarity index")
	return e.semantic, nil
}
