// Package source defines the concrete input/output handles that sit
// around the matcher core: where a document's text came from, how its
// indentation should be interpreted, and what a completed per-file scan
// produced.
package source

import "github.com/walteh/structgrep/internal/matcher"

// Kind classifies where a document's text came from.
type Kind int

const (
	// File is text read from a path on disk.
	File Kind = iota
	// Stdin is text read from standard input, requested with "-" or
	// --stdin.
	Stdin
	// String is text supplied directly, e.g. in a test.
	String
)

// Origin is one unit of text to scan: a path (when Kind is File), the
// full text content, and enough identity for the renderer to label
// output.
type Origin struct {
	Kind Kind
	Path string
	Text string
}

// IndentStyle describes how a document's leading whitespace maps to
// indentation depth: which byte is the indent unit, and how many of
// them make one level.
type IndentStyle struct {
	Unit  byte
	Width int
}

// DefaultIndentStyle is used when no .editorconfig entry applies.
var DefaultIndentStyle = IndentStyle{Unit: ' ', Width: 4}

// ScanResult is what the search driver produces for one Origin: either
// its matches, or the error that prevented scanning it. A multi-file
// run collects one ScanResult per Origin without letting one file's
// error abort its siblings.
type ScanResult struct {
	Source  Origin
	Matches []matcher.Match
	Err     error
}
