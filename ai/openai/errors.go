package openai

import "errors"

// ErrEmptyEmbedding indicates the embedding service returned fewer vectors
// than texts.
var ErrEmptyEmbedding = errors.New("embedding service returned no vector")
