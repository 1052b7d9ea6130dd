package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkParagraphSplit(t *testing.T) {
	c := NewChunker(10, 600)

	chunks := c.Chunk("first paragraph with enough text\n\nsecond paragraph, also long enough\n")
	require.Len(t, chunks, 2)
	assert.Equal(t, "first paragraph with enough text", chunks[0].Text)
	assert.Equal(t, "second paragraph, also long enough", chunks[1].Text)
}

func TestChunkIndicesOrdered(t *testing.T) {
	c := NewChunker(10, 600)

	chunks := c.Chunk(sampleResume)
	require.NotEmpty(t, chunks)
	for i, ch := range chunks {
		assert.Equal(t, i, ch.Index)
		assert.NotEmpty(t, strings.TrimSpace(ch.Text))
		assert.Nil(t, ch.Embedding, "embedding stays absent until the embedder runs")
	}
}

func TestChunkBulletsSplitSeparately(t *testing.T) {
	c := NewChunker(10, 600)

	chunks := c.Chunk("Introductory line of prose text\n• first bullet item with detail\n• second bullet item with detail\n")
	require.Len(t, chunks, 3)
	assert.True(t, strings.HasPrefix(chunks[1].Text, "•"))
}

func TestChunkMergesShortUnits(t *testing.T) {
	c := NewChunker(40, 600)

	// Tiny fragments fold together instead of embedding single words.
	chunks := c.Chunk("one\n\ntwo\n\nthree\n\nfour five six seven eight nine ten eleven\n")
	for _, ch := range chunks {
		assert.GreaterOrEqual(t, len(ch.Text), 10)
	}
	require.NotEmpty(t, chunks)
	assert.Contains(t, chunks[0].Text, "one")
}

func TestChunkTrailingShortUnitFolds(t *testing.T) {
	c := NewChunker(40, 600)

	chunks := c.Chunk("a long enough opening paragraph that clears the minimum\n\nok\n")
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Text, "ok")
}

func TestChunkSplitsOversizedUnits(t *testing.T) {
	c := NewChunker(10, 80)

	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteString("This sentence pads the paragraph with more text. ")
	}
	chunks := c.Chunk(b.String())
	require.Greater(t, len(chunks), 1)
	for _, ch := range chunks {
		assert.LessOrEqual(t, len(ch.Text), 80)
	}
}

func TestChunkHeaderlessDocument(t *testing.T) {
	c := NewChunker(10, 600)

	chunks := c.Chunk("no headings anywhere in this document\njust lines of running prose\n\nand a second block of text here\n")
	assert.Len(t, chunks, 2)
}

func TestChunkEmpty(t *testing.T) {
	c := NewChunker(10, 600)
	assert.Empty(t, c.Chunk(""))
	assert.Empty(t, c.Chunk("   \n\n  \n"))
}
