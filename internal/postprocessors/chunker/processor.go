// Package chunker provides a fixed-size text splitter.
package chunker

import (
	"iter"
	"unicode/utf8"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 2000

// Chunker splits text at fixed character (rune) offsets with no overlap.
// Concatenating the chunks reproduces the input exactly.
type Chunker struct {
	chunkSize int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters. Non-positive sizes are ignored.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the processor name.
func (c *Chunker) Name() string {
	return "chunker"
}

// Size returns the configured chunk size.
func (c *Chunker) Size() int {
	return c.chunkSize
}

// Split returns a lazy sequence of chunks. Each range over the
// sequence starts from the beginning of text.
func (c *Chunker) Split(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := 0
		for start < len(text) {
			end := start
			for n := 0; n < c.chunkSize && end < len(text); n++ {
				_, w := utf8.DecodeRuneInString(text[end:])
				end += w
			}
			if !yield(text[start:end]) {
				return
			}
			start = end
		}
	}
}

// Count returns the number of chunks Split would yield.
func (c *Chunker) Count(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + c.chunkSize - 1) / c.chunkSize
}
