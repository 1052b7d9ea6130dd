package parser

import (
	"strings"

	"resume-parser-go/internal/types"
)

const (
	defaultMinChunkChars = 40
	defaultMaxChunkChars = 600
)

// Chunker splits normalized text into ordered, non-overlapping units for
// similarity classification. It never consults header detection, so it
// works on documents with no recognizable headers at all.
type Chunker struct {
	minChars int
	maxChars int
}

// NewChunker builds a Chunker. Zero values select the defaults; minChars
// keeps single words from being embedded on their own, maxChars bounds the
// text handed to the embedder per chunk.
func NewChunker(minChars, maxChars int) *Chunker {
	if minChars <= 0 {
		minChars = defaultMinChunkChars
	}
	if maxChars <= minChars {
		maxChars = defaultMaxChunkChars
	}
	return &Chunker{minChars: minChars, maxChars: maxChars}
}

// Chunk splits text at paragraph and bullet boundaries, merges adjacent
// short units until each chunk reaches the minimum size, and re-splits
// oversized units at sentence boundaries.
func (c *Chunker) Chunk(text string) []types.Chunk {
	units := c.splitUnits(text)
	units = c.mergeShort(units)

	var chunks []types.Chunk
	for _, u := range units {
		for _, piece := range c.splitLong(u) {
			chunks = append(chunks, types.Chunk{Index: len(chunks), Text: piece})
		}
	}
	return chunks
}

// splitUnits breaks the text into paragraph units. Blank lines always end a
// unit; a bullet line starts a new unit so list items classify separately
// from the prose above them.
func (c *Chunker) splitUnits(text string) []string {
	var units []string
	var buf []string
	flush := func() {
		if len(buf) == 0 {
			return
		}
		if u := strings.TrimSpace(strings.Join(buf, "\n")); u != "" {
			units = append(units, u)
		}
		buf = buf[:0]
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, " \t")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		if isBulletLine(trimmed) {
			flush()
		}
		buf = append(buf, trimmed)
	}
	flush()
	return units
}

func isBulletLine(line string) bool {
	if line == "" {
		return false
	}
	switch []rune(line)[0] {
	case '•', '◦', '▪', '▫', '∙', '·', '*', '-', '+':
		return true
	}
	return false
}

// mergeShort joins adjacent units until each merged unit reaches minChars.
// A short trailing unit folds into the previous chunk rather than being
// emitted alone.
func (c *Chunker) mergeShort(units []string) []string {
	var out []string
	var buf strings.Builder
	for _, u := range units {
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(u)
		if buf.Len() >= c.minChars {
			out = append(out, buf.String())
			buf.Reset()
		}
	}
	if buf.Len() > 0 {
		if len(out) > 0 {
			out[len(out)-1] += "\n" + buf.String()
		} else {
			out = append(out, buf.String())
		}
	}
	return out
}

// splitLong re-splits an oversized unit at sentence boundaries, packing
// sentences back together up to maxChars.
func (c *Chunker) splitLong(unit string) []string {
	if len(unit) <= c.maxChars {
		return []string{unit}
	}
	sentences := splitSentences(unit)
	var out []string
	var buf strings.Builder
	for _, s := range sentences {
		if buf.Len() > 0 && buf.Len()+len(s)+1 > c.maxChars {
			out = append(out, buf.String())
			buf.Reset()
		}
		if buf.Len() > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(s)
	}
	if buf.Len() > 0 {
		out = append(out, buf.String())
	}
	return out
}

func splitSentences(text string) []string {
	var out []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
			if i+1 < len(runes) && runes[i+1] != ' ' && runes[i+1] != '\n' {
				continue
			}
			if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}
