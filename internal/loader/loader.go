// Package loader turns source documents into normalized UTF-8 text for the
// extraction engine: consistent line breaks, no control characters, blank
// runs collapsed.
package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	einoparser "github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	"github.com/rs/zerolog"
)

// Format identifies the source document format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatTxt  Format = "txt"
	FormatDocx Format = "docx"
)

// Document is the loader's output: whitespace-normalized text plus
// provenance.
type Document struct {
	Text       string
	Format     Format
	SourceName string
}

// Loader extracts and normalizes text from resume files. PDF extraction
// goes through the eino PDF parser configured for whole-document text;
// plain text and markdown go through eino's text parser.
type Loader struct {
	pdf    *pdf.PDFParser
	text   einoparser.Parser
	logger zerolog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger attaches a logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New builds a Loader.
func New(ctx context.Context, opts ...Option) (*Loader, error) {
	// ToPages false: the extractors want the whole document as one
	// continuous string, not per-page fragments.
	pdfParser, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
	if err != nil {
		return nil, fmt.Errorf("creating pdf parser: %w", err)
	}
	l := &Loader{
		pdf:    pdfParser,
		text:   einoparser.TextParser{},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// LoadFile reads a document from disk, inferring the format from the file
// extension.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Document, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return l.Load(ctx, f, filepath.Base(path), format)
}

// FormatForPath maps a file extension to a supported format.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return FormatPDF, nil
	case ".txt", ".md", ".text":
		return FormatTxt, nil
	case ".docx", ".doc":
		return FormatDocx, nil
	default:
		return "", fmt.Errorf("unsupported file type %q (expected .pdf, .txt or .md)", filepath.Ext(path))
	}
}

// Load extracts text from a reader in the given format and normalizes it.
func (l *Loader) Load(ctx context.Context, r io.Reader, sourceName string, format Format) (*Document, error) {
	start := time.Now()
	var raw string
	switch format {
	case FormatPDF:
		text, err := l.parseWith(ctx, l.pdf, r, sourceName)
		if err != nil {
			return nil, fmt.Errorf("extracting pdf text from %s: %w", sourceName, err)
		}
		raw = text
	case FormatTxt:
		text, err := l.parseWith(ctx, l.text, r, sourceName)
		if err != nil {
			return nil, fmt.Errorf("reading text from %s: %w", sourceName, err)
		}
		raw = text
	case FormatDocx:
		return nil, fmt.Errorf("docx extraction is not supported; convert %s to pdf or plain text first", sourceName)
	default:
		return nil, fmt.Errorf("unknown document format %q", format)
	}

	normalized := NormalizeText(raw)
	if normalized == "" {
		return nil, fmt.Errorf("document %s contains no extractable text", sourceName)
	}
	l.logger.Debug().
		Str("source", sourceName).
		Str("format", string(format)).
		Int("chars", len(normalized)).
		Dur("elapsed", time.Since(start)).
		Msg("loaded document")

	return &Document{Text: normalized, Format: format, SourceName: sourceName}, nil
}

func (l *Loader) parseWith(ctx context.Context, p einoparser.Parser, r io.Reader, uri string) (string, error) {
	docs, err := p.Parse(ctx, r,
		einoparser.WithURI(uri),
		einoparser.WithExtraMeta(map[string]any{"source_name": uri}),
	)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", fmt.Errorf("parser returned no documents")
	}
	var b strings.Builder
	for i, doc := range docs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(doc.Content)
	}
	return b.String(), nil
}

// NormalizeText produces the canonical text form the extraction engine
// expects: LF line endings, control characters dropped, trailing spaces
// trimmed, runs of blank lines collapsed to one.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			continue
		}
		b.WriteRune(r)
	}

	lines := strings.Split(b.String(), "\n")
	out := make([]string, 0, len(lines))
	blank := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			blank++
			if blank > 1 {
				continue
			}
			out = append(out, "")
			continue
		}
		blank = 0
		out = append(out, line)
	}
	trimmed := strings.TrimSpace(strings.Join(out, "\n"))
	if trimmed == "" {
		return ""
	}
	return trimmed + "\n"
}
