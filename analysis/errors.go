package analysis

import "errors"

var (
	// ErrSearcherRequired is returned when a candidate searcher is not provided.
	ErrSearcherRequired = errors.New("candidate searcher required")

	// ErrRankerRequired is returned when a candidate ranker is not provided.
	ErrRankerRequired = errors.New("candidate ranker required")

	// ErrExplainerRequired is returned when an explainer is not provided.
	ErrExplainerRequired = errors.New("explainer required")

	// ErrDictionaryRequired is returned when a reference dictionary is not provided.
	ErrDictionaryRequired = errors.New("reference dictionary required")

	// ErrInvalidProfile is returned for a profile with an unknown subject,
	// an invalid namespace or non-positive limits.
	ErrInvalidProfile = errors.New("invalid analysis profile")
)
