// Package diag defines the diagnostic model shared by the lexer and the
// token-tree parser.
//
// Diagnostic is the central record: a Severity, a compact numeric Code with a
// stable string form, a short Message, the Primary span and optional Notes
// pointing at related locations (for example the opening delimiter of an
// unclosed group).
//
// Producers emit diagnostics through the Reporter interface; BagReporter
// collects them into a bounded Bag. Package diag does not format or print
// anything; callers resolve spans with source.File and decide how to surface
// the findings.
package diag
