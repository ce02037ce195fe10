package discover_test

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/structgrep/internal/discover"
)

func TestWalk_IncludeExcludeAndBinarySkip(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/repo/a.structgrep", []byte("f(x){a;}"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/repo/b.txt", []byte("not included"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/repo/vendor/c.structgrep", []byte("f(y){b;}"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/repo/bin.structgrep", []byte("\x00\x01binary"), 0o644))

	origins, err := discover.Walk(context.Background(), fs, "/repo",
		[]string{"**/*.structgrep"}, []string{"**/vendor/**"})
	require.NoError(t, err)

	var paths []string
	for _, o := range origins {
		paths = append(paths, o.Path)
	}
	assert.Equal(t, []string{"/repo/a.structgrep"}, paths)
}

func TestWalk_NoIncludeMatchesEverythingExceptExclude(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/repo/a.go", []byte("a"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/repo/b.go", []byte("b"), 0o644))

	origins, err := discover.Walk(context.Background(), fs, "/repo", nil, []string{"**/b.go"})
	require.NoError(t, err)
	require.Len(t, origins, 1)
	assert.Equal(t, "/repo/a.go", origins[0].Path)
}

func TestReadStdin(t *testing.T) {
	origin, err := discover.ReadStdin(strings.NewReader("f(x){a;}"))
	require.NoError(t, err)
	assert.Equal(t, "f(x){a;}", origin.Text)
	assert.Equal(t, "-", origin.Path)
}
