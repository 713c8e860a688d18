// Package diag defines the diagnostic model shared by the lexer, the parser,
// the registry expansion passes and the workspace driver.
//
// A Diagnostic carries a Severity, a stable numeric Code (rendered as
// LEX/SYN/SEM/IO/PRJ/OBS identifiers), a short message and the primary
// source.Span. Notes point at secondary locations, e.g. the import site of a
// missing dependency.
//
// Producers emit through a Reporter (usually BagReporter or DedupReporter) so
// they stay independent of storage. A Bag collects the diagnostics of one
// pass and can sort and deduplicate them for deterministic output.
//
// Rendering lives in internal/diagfmt; this package does no IO.
package diag
