package scan_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/structgrep/internal/patternlang"
	"github.com/walteh/structgrep/internal/scan"
	"github.com/walteh/structgrep/internal/source"
)

func TestRun_PreservesDiscoveryOrder(t *testing.T) {
	pattern, err := patternlang.Parse("f($X)")
	require.NoError(t, err)

	origins := []source.Origin{
		{Path: "z.structgrep", Text: "f(1)"},
		{Path: "a.structgrep", Text: "f(2)"},
	}

	results, err := scan.Run(context.Background(), origins, pattern, nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "z.structgrep", results[0].Source.Path)
	assert.Equal(t, "a.structgrep", results[1].Source.Path)
	assert.Len(t, results[0].Matches, 1)
	assert.Len(t, results[1].Matches, 1)
}

func TestRun_Deterministic(t *testing.T) {
	pattern, err := patternlang.Parse("x")
	require.NoError(t, err)
	origins := []source.Origin{{Path: "a", Text: "x"}, {Path: "b", Text: "x"}, {Path: "c", Text: "x"}}

	first, err := scan.Run(context.Background(), origins, pattern, nil, nil)
	require.NoError(t, err)
	second, err := scan.Run(context.Background(), origins, pattern, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
