package embedgen

import (
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

// chunker splits document content into overlapping pieces sized for the embedder.
type chunker struct {
	splitter textsplitter.TextSplitter
}

func newChunker(size, overlap int) *chunker {
	return &chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
		),
	}
}

// split returns the non-blank chunks of text in document order.
func (c *chunker) split(text string) ([]string, error) {
	parts, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, err
	}

	chunks := parts[:0]
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		chunks = append(chunks, part)
	}
	return chunks, nil
}
