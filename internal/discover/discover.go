// Package discover resolves a scan root into the list of document
// origins the search driver will run the matcher against. Grounded on
// the teacher's pkg/finder.DefaultFinder, generalized from a fixed
// extension allowlist to include/exclude glob matching and reworked
// onto an afero.Fs so tests can discover against an in-memory
// filesystem instead of touching disk.
package discover

import (
	"bytes"
	"context"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/editorconfig/editorconfig-core-go/v2"
	"github.com/spf13/afero"
	"github.com/walteh/structgrep/internal/source"
	"gitlab.com/tozd/go/errors"
)

// binarySniffLen is how many leading bytes are inspected for a NUL byte
// when deciding whether a file is binary and should be skipped.
const binarySniffLen = 8192

// Walk discovers every file under root whose path matches at least one
// include glob (all files, if include is empty) and no exclude glob,
// reading each into an Origin. Binary files are silently skipped rather
// than erroring, matching spec.md's framing of this as a best-effort
// discovery step, not a correctness-bearing one.
func Walk(ctx context.Context, fs afero.Fs, root string, include, exclude []string) ([]source.Origin, error) {
	var origins []source.Origin

	afs := &afero.Afero{Fs: fs}
	err := afs.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if info.IsDir() {
			return nil
		}
		if !matchesInclude(path, include) || matchesAny(path, exclude) {
			return nil
		}

		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return errors.Errorf("reading %s: %w", path, err)
		}
		if looksBinary(data) {
			return nil
		}

		origins = append(origins, source.Origin{Kind: source.File, Path: path, Text: string(data)})
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("discovering files under %s: %w", root, err)
	}

	sort.Slice(origins, func(i, j int) bool { return origins[i].Path < origins[j].Path })
	return origins, nil
}

// ReadStdin produces the single Origin for --stdin or a "-" path
// argument.
func ReadStdin(r io.Reader) (source.Origin, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return source.Origin{}, errors.Errorf("reading stdin: %w", err)
	}
	return source.Origin{Kind: source.Stdin, Path: "-", Text: string(data)}, nil
}

func matchesInclude(path string, include []string) bool {
	if len(include) == 0 {
		return true
	}
	return matchesAny(path, include)
}

func matchesAny(path string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, path); ok {
			return true
		}
	}
	return false
}

func looksBinary(data []byte) bool {
	if len(data) > binarySniffLen {
		data = data[:binarySniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}

// IndentStyleFor consults .editorconfig for path and translates its
// indent_style/indent_size into the lexer's IndentStyle. A missing or
// inapplicable .editorconfig falls back to source.DefaultIndentStyle
// rather than erroring, since the lexer has a sensible default and a
// project choosing not to carry an .editorconfig is not a failure.
func IndentStyleFor(path string) source.IndentStyle {
	def, err := editorconfig.GetDefinitionForFilename(path)
	if err != nil || def == nil {
		return source.DefaultIndentStyle
	}

	style := source.DefaultIndentStyle
	switch def.IndentStyle {
	case "tab":
		style.Unit = '\t'
	case "space":
		style.Unit = ' '
	}
	if def.IndentSize != "" && def.IndentSize != "tab" {
		if w, err := strconv.Atoi(def.IndentSize); err == nil && w > 0 {
			style.Width = w
		}
	}
	return style
}
