package ai

import "errors"

var (
	// ErrMalformedResponse indicates the language model returned a response
	// that does not match the expected schema.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrUnknownSubject indicates an unsupported Subject value or name.
	ErrUnknownSubject = errors.New("unknown subject")

	// ErrEmptyQuery indicates a request without query text.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrNoCandidates indicates an explanation was requested for an empty
	// shortlist.
	ErrNoCandidates = errors.New("no candidates to explain")
)
