// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError = "error"
	FieldPath  = "path"
	FieldFile  = "file"

	// Position fields.
	FieldOffset = "offset"
	FieldSize   = "size"
	FieldMark   = "mark"

	// Search fields.
	FieldPattern = "pattern"
	FieldMatch   = "match"
	FieldHex     = "hex"

	// Diff fields.
	FieldDiffs   = "diffs"
	FieldSkipped = "skipped"

	// Edit fields.
	FieldDelta  = "delta"
	FieldChunks = "chunks"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
