// Package render prints matcher.Match results to a writer, in the
// default plain-text form, an ANSI-highlighted form, or newline-delimited
// JSON. Grounded on the teacher's pkg/hover/pkg/diagnostic presentation
// style (slice the source by the reported range, decorate it, print it)
// reworked for grep-style terminal output rather than an editor
// protocol response.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/walteh/structgrep/internal/matcher"
	"github.com/walteh/structgrep/internal/source"
)

const (
	matchStyle   = "\x1b[1;33m"
	captureStyle = "\x1b[4;36m"
	resetStyle   = "\x1b[0m"
)

// AutoHighlightWriter wraps f for ANSI output on Windows consoles via
// go-colorable, and reports whether highlighting should default on: a
// real terminal, not a pipe or redirected file.
func AutoHighlightWriter(f *os.File) (io.Writer, bool) {
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return colorable.NewColorable(f), true
	}
	return f, false
}

// Text prints origin's matches in the default path:line: + source-slice
// form, optionally wrapping the matched span and each capture in ANSI
// styling.
func Text(w io.Writer, origin source.Origin, matches []matcher.Match, highlight bool) error {
	for i, m := range matches {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s:%d:\n", origin.Path, m.Region.Start.Line+1); err != nil {
			return err
		}
		slice := origin.Text[m.Region.Start.Offset:m.Region.End.Offset]
		if highlight {
			slice = highlightSlice(origin.Text, m)
		}
		if _, err := fmt.Fprintln(w, slice); err != nil {
			return err
		}
	}
	return nil
}

// highlightSlice wraps the whole match in matchStyle and each capture's
// span, relative to the match, in a nested captureStyle.
func highlightSlice(text string, m matcher.Match) string {
	start, end := m.Region.Start.Offset, m.Region.End.Offset
	body := text[start:end]

	var cuts []styleCut
	for _, c := range m.Captures {
		if c.Loc.Start.Offset < start || c.Loc.End.Offset > end {
			continue
		}
		cuts = append(cuts, styleCut{at: c.Loc.Start.Offset - start, style: captureStyle})
		cuts = append(cuts, styleCut{at: c.Loc.End.Offset - start, style: resetStyle + matchStyle})
	}
	sortCuts(cuts)

	out := matchStyle
	last := 0
	for _, c := range cuts {
		out += body[last:c.at]
		out += c.style
		last = c.at
	}
	out += body[last:]
	out += resetStyle
	return out
}

// styleCut marks the byte offset, relative to a match's body, where an
// ANSI style change takes effect.
type styleCut struct {
	at    int
	style string
}

func sortCuts(cuts []styleCut) {
	for i := 1; i < len(cuts); i++ {
		for j := i; j > 0 && cuts[j-1].at > cuts[j].at; j-- {
			cuts[j-1], cuts[j] = cuts[j], cuts[j-1]
		}
	}
}

type jsonCapture struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Line  int    `json:"line"`
	Col   int    `json:"column"`
}

type jsonMatch struct {
	ID       string        `json:"id"`
	Path     string        `json:"path"`
	Line     int           `json:"line"`
	Column   int           `json:"column"`
	EndLine  int           `json:"end_line"`
	EndCol   int           `json:"end_column"`
	Captures []jsonCapture `json:"captures"`
}

// JSON writes one JSON object per match, each tagged with a google/uuid
// id derived from the path and the region's byte offsets, so a
// downstream tool can correlate a match across incremental re-runs of
// the same scan.
func JSON(w io.Writer, origin source.Origin, matches []matcher.Match) error {
	enc := json.NewEncoder(w)
	for _, m := range matches {
		jm := jsonMatch{
			ID: uuid.NewSHA1(uuid.NameSpaceURL,
				[]byte(fmt.Sprintf("%s:%d-%d", origin.Path, m.Region.Start.Offset, m.Region.End.Offset))).String(),
			Path:    origin.Path,
			Line:    m.Region.Start.Line + 1,
			Column:  m.Region.Start.Column + 1,
			EndLine: m.Region.End.Line + 1,
			EndCol:  m.Region.End.Column + 1,
		}
		for _, c := range m.Captures {
			jm.Captures = append(jm.Captures, jsonCapture{
				Name: c.Name, Value: c.Value,
				Line: c.Loc.Start.Line + 1, Col: c.Loc.Start.Column + 1,
			})
		}
		if err := enc.Encode(jm); err != nil {
			return err
		}
	}
	return nil
}
