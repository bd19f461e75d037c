// Package ingestion loads reference tables into the document store.
//
// Each table row is rendered with document.Format, split into chunks with a
// recursive character splitter, and the chunks are embedded and stored in
// batches. Batches run concurrently on a worker pool; Ingest waits for all of
// them and reports every failed batch.
package ingestion
