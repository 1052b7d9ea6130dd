// Package embedding defines the text embedding capability the semantic
// extraction path depends on, plus concrete implementations. The capability
// is optional: when no embedder is configured or the backing service cannot
// be reached, callers degrade to rule-based extraction.
package embedding

import (
	"context"
	"errors"

	einoembed "github.com/cloudwego/eino/components/embedding"
)

// ErrUnavailable marks the embedding capability as absent or unreachable.
// Callers test for it with errors.Is and fall back to rule-based parsing;
// any other error is a real failure and propagates.
var ErrUnavailable = errors.New("embedding service unavailable")

// TextEmbedder converts texts to vectors. The returned slice has the same
// length and order as the input. Implementations must be deterministic for
// identical input under a fixed model.
type TextEmbedder interface {
	EmbedStrings(ctx context.Context, texts []string) ([][]float64, error)
}

// EinoAdapter exposes any eino embedding component as a TextEmbedder, so
// models wired through the eino component ecosystem plug into the semantic
// path unchanged.
type EinoAdapter struct {
	inner einoembed.Embedder
}

var _ TextEmbedder = (*EinoAdapter)(nil)

// NewEinoAdapter wraps an eino embedder.
func NewEinoAdapter(inner einoembed.Embedder) *EinoAdapter {
	return &EinoAdapter{inner: inner}
}

// EmbedStrings delegates to the wrapped eino component.
func (a *EinoAdapter) EmbedStrings(ctx context.Context, texts []string) ([][]float64, error) {
	if a.inner == nil {
		return nil, ErrUnavailable
	}
	return a.inner.EmbedStrings(ctx, texts)
}
