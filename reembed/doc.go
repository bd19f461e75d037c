// Package reembed regenerates the vectors of stored documents, typically
// after switching to a new embedding model.
//
// A namespace is walked in ID order in fixed-size pages. Each page is
// embedded with retry and exponential backoff, normalized to unit length and
// written back in place. Progress is reported to an io.Writer.
package reembed
