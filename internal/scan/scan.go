// Package scan runs the matcher's search driver over many documents
// concurrently: one goroutine per file, bounded by GOMAXPROCS, each
// with its own lexer pass and matcher invocation sharing no mutable
// state with its siblings. Grounded on spec.md section 5's "no
// cross-invocation state" guarantee, extended here across files rather
// than just within one.
package scan

import (
	"context"
	"runtime"
	"sync"

	"github.com/walteh/structgrep/internal/astnode"
	"github.com/walteh/structgrep/internal/lexer"
	"github.com/walteh/structgrep/internal/matcher"
	"github.com/walteh/structgrep/internal/source"
	"go.uber.org/multierr"
)

// StyleFunc resolves the indentation style to lex an origin with. A nil
// StyleFunc passed to Run lexes every origin with source.DefaultIndentStyle.
type StyleFunc func(source.Origin) source.IndentStyle

// Run lexes and searches every origin against pattern, preserving
// discovery order in the returned slice regardless of which file's
// goroutine finishes first. A context cancellation stops launching new
// per-file work; files already in flight run to completion. The
// returned error aggregates every per-file failure with
// go.uber.org/multierr; it is non-nil exactly when at least one
// ScanResult.Err is set, so a caller can decide the CLI's exit code
// without re-walking the results.
func Run(ctx context.Context, origins []source.Origin, pattern []astnode.Node, styleFor StyleFunc, commentPrefixes []string) ([]source.ScanResult, error) {
	if styleFor == nil {
		styleFor = func(source.Origin) source.IndentStyle { return source.DefaultIndentStyle }
	}
	results := make([]source.ScanResult, len(origins))

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var overall error

	for i, origin := range origins {
		select {
		case <-ctx.Done():
			mu.Lock()
			results[i] = source.ScanResult{Source: origin, Err: ctx.Err()}
			overall = multierr.Append(overall, ctx.Err())
			mu.Unlock()
			continue
		default:
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(i int, origin source.Origin) {
			defer wg.Done()
			defer func() { <-sem }()

			matches, err := searchOne(origin, pattern, styleFor(origin), commentPrefixes)
			result := source.ScanResult{Source: origin, Matches: matches, Err: err}

			mu.Lock()
			results[i] = result
			if err != nil {
				overall = multierr.Append(overall, err)
			}
			mu.Unlock()
		}(i, origin)
	}

	wg.Wait()
	return results, overall
}

func searchOne(origin source.Origin, pattern []astnode.Node, style source.IndentStyle, commentPrefixes []string) ([]matcher.Match, error) {
	document := lexer.Lex(origin.Text, style, commentPrefixes)
	return matcher.Search(pattern, document), nil
}
