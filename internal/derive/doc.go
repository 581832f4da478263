// Package derive sorts the trait lists of #[derive(...)] attributes.
//
// For every outer derive attribute the flat token list between the
// parentheses is segmented into groups (one trait path each) and separators
// (the comma and the trivia glued to it). Groups are stable-sorted by their
// last path segment, separators stay where they were, and the rebuilt list
// is diffed against the original to produce a minimal text edit. All edits
// of a file are merged and applied once, so bytes outside the derive lists
// are never touched.
//
// The package is pure: it reads a source.File and returns new content.
package derive
