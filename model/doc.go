// Package model defines the shared data types produced by the document
// pipeline: typed, positioned content elements, the processed-document
// aggregate that owns them, and aggregate statistics.
//
// Elements are ordered: within a page the sequence preserves extraction
// order. For slide formats reading order across non-adjacent shapes is a
// heuristic only, not a guarantee.
//
// A ProcessedDocument is built once per pipeline invocation and is not
// mutated after construction. Downstream consumers (summarization,
// question answering) treat it as read-only input.
package model
