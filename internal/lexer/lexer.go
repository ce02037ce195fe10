// Package lexer turns raw source text into the document Node tree the
// matcher operates on. It is grounded on the teacher's
// pkg/semantics/template lexer in spirit (stateful line-oriented
// scanning, a position that advances as runes are consumed) but is
// indentation-driven rather than delimiter-driven, since this domain
// has no {{ }} markers to key off of.
package lexer

import (
	"bufio"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/apparentlymart/go-textseg/v13/textseg"
	"github.com/walteh/structgrep/internal/astnode"
	"github.com/walteh/structgrep/internal/loc"
	"github.com/walteh/structgrep/internal/source"
)

// Lex scans text into a document Node sequence: Word/Punct/Byte atoms
// on each non-blank, non-comment line, nested into List blocks whenever
// a line's indentation depth, measured in style units, exceeds its
// predecessor's.
func Lex(text string, style source.IndentStyle, commentPrefixes []string) []astnode.Node {
	type frame struct {
		depth int
		nodes []astnode.Node
	}
	stack := []*frame{{depth: 0}}

	closeTo := func(w int) {
		for len(stack) > 1 && stack[len(stack)-1].depth > w {
			closed := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			parent := stack[len(stack)-1]
			parent.nodes = append(parent.nodes, astnode.List(closed.nodes))
		}
	}

	width := style.Width
	if width <= 0 {
		width = 1
	}

	offset := 0
	for lineNo, raw := range strings.Split(text, "\n") {
		lineStart := offset
		offset += len(raw) + 1 // account for the stripped "\n"

		content, indentUnits := stripIndent(raw, style)
		if content == "" || isCommentOnly(content, commentPrefixes) {
			continue
		}

		contentOffset := lineStart + (len(raw) - len(content))
		contentCol := len(raw) - len(content)
		tokens := tokenizeLine(content, lineNo, contentCol, contentOffset)

		w := indentUnits / width
		closeTo(w)
		top := stack[len(stack)-1]
		if w > top.depth {
			stack = append(stack, &frame{depth: w})
			top = stack[len(stack)-1]
		}
		top.nodes = append(top.nodes, tokens...)
	}
	closeTo(-1)
	return stack[0].nodes
}

// stripIndent removes a line's leading run of spaces and tabs,
// reporting how many of them were the declared indent unit.
func stripIndent(line string, style source.IndentStyle) (string, int) {
	i, units := 0, 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		if line[i] == style.Unit {
			units++
		}
		i++
	}
	return line[i:], units
}

func isCommentOnly(content string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(content, p) {
			return true
		}
	}
	return false
}

// tokenizeLine splits one line's content into Word/Punct/Byte atoms,
// advancing column by grapheme cluster (via go-textseg) rather than by
// byte or rune, so combining marks and other multi-codepoint clusters
// still count as a single column.
func tokenizeLine(content string, line, col0, offset0 int) []astnode.Node {
	var nodes []astnode.Node

	sc := bufio.NewScanner(strings.NewReader(content))
	sc.Buffer(make([]byte, 0, 256), 1<<20)
	sc.Split(textseg.ScanGraphemeClusters)

	var word strings.Builder
	wordStartCol, wordStartOffset := 0, 0
	col, offset := col0, offset0

	flush := func() {
		if word.Len() == 0 {
			return
		}
		nodes = append(nodes, astnode.Atom(astnode.Word, word.String(), loc.Loc{
			Start: loc.Position{Line: line, Column: wordStartCol, Offset: wordStartOffset},
			End:   loc.Position{Line: line, Column: col, Offset: offset},
		}))
		word.Reset()
	}

	for sc.Scan() {
		cl := sc.Text()
		r, size := utf8.DecodeRuneInString(cl)
		switch {
		case r == ' ' || r == '\t':
			flush()
		case isWordRune(r):
			if word.Len() == 0 {
				wordStartCol, wordStartOffset = col, offset
			}
			word.WriteString(cl)
		default:
			flush()
			kind := astnode.Punct
			if r == utf8.RuneError && size <= 1 {
				kind = astnode.Byte
			}
			nodes = append(nodes, astnode.Atom(kind, cl, loc.Loc{
				Start: loc.Position{Line: line, Column: col, Offset: offset},
				End:   loc.Position{Line: line, Column: col + 1, Offset: offset + len(cl)},
			}))
		}
		col++
		offset += len(cl)
	}
	flush()
	return nodes
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
