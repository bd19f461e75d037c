package ingestion

import (
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

// separators are tried in order: paragraphs, lines, words, characters.
var separators = []string{"\n\n", "\n", " ", ""}

type chunker struct {
	splitter textsplitter.RecursiveCharacter
}

func newChunker(size, overlap int) *chunker {
	return &chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
			textsplitter.WithSeparators(separators),
		),
	}
}

// split returns the non-blank chunks of text.
func (c *chunker) split(text string) ([]string, error) {
	chunks, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, err
	}
	result := chunks[:0]
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) != "" {
			result = append(result, chunk)
		}
	}
	return result, nil
}
