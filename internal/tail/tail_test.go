package tail

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoro-99/crbl-logger/internal/filter"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func streamLines(t *testing.T, path string, opts Options) []string {
	t.Helper()
	var buf bytes.Buffer
	var chunks []string
	// Stream writes whole lines per call; capture each Write as one chunk.
	w := writerFunc(func(p []byte) (int, error) {
		chunks = append(chunks, string(p))
		return buf.Write(p)
	})
	err := Stream(context.Background(), path, opts, w, nil)
	require.NoError(t, err)
	return chunks
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func TestTailAllScenario(t *testing.T) {
	path := writeTemp(t, "alpha\nbeta\ngamma\n")
	got := streamLines(t, path, Options{N: All})
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, got)
}

func TestTailTwoScenario(t *testing.T) {
	path := writeTemp(t, "alpha\nbeta\ngamma\n")
	got := streamLines(t, path, Options{N: 2})
	assert.Equal(t, []string{"beta", "gamma"}, got)
}

func TestTailMoreThanAvailableFallsBackToZero(t *testing.T) {
	path := writeTemp(t, "alpha\nbeta\ngamma\n")
	got := streamLines(t, path, Options{N: 100})
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, got)
}

func TestTailZeroLinesEmitsNothing(t *testing.T) {
	path := writeTemp(t, "alpha\nbeta\ngamma\n")
	got := streamLines(t, path, Options{N: 0})
	assert.Empty(t, got)
}

func TestEmptyFileEmitsNothing(t *testing.T) {
	path := writeTemp(t, "")
	got := streamLines(t, path, Options{N: All})
	assert.Empty(t, got)
}

func TestFileWithoutTrailingNewline(t *testing.T) {
	path := writeTemp(t, "alpha\nbeta\ngamma")
	got := streamLines(t, path, Options{N: 1})
	assert.Equal(t, []string{"gamma"}, got)
}

func TestAndFilterScenario(t *testing.T) {
	path := writeTemp(t, "err code 500 x\nok code 200 y\nerr code 404 z\n")
	got := streamLines(t, path, Options{N: All, Clauses: filter.Parse([]string{"and|err code"})})
	assert.Equal(t, []string{"err code 500 x", "err code 404 z"}, got)
}

func TestOrFilterCombinedScenario(t *testing.T) {
	path := writeTemp(t, "err code 500 x\nok code 200 y\nerr code 404 z\n")
	got := streamLines(t, path, Options{N: All, Clauses: filter.Parse([]string{"or|500 404", "err"})})
	assert.Equal(t, []string{"err code 500 x", "err code 404 z"}, got)
}

func TestFilteredIsSublistOfUnfiltered(t *testing.T) {
	path := writeTemp(t, "err code 500 x\nok code 200 y\nerr code 404 z\n")
	all := streamLines(t, path, Options{N: All})
	filtered := streamLines(t, path, Options{N: All, Clauses: filter.Parse([]string{"err"})})

	idx := 0
	for _, line := range filtered {
		for idx < len(all) && all[idx] != line {
			idx++
		}
		require.Less(t, idx, len(all), "filtered line %q not found in order within unfiltered output", line)
		idx++
	}
}

func TestTailCountMatchesQuantifiedLaw(t *testing.T) {
	content := "alpha\nbeta\ngamma\ndelta\n"
	path := writeTemp(t, content)

	f, err := os.Open(path)
	require.NoError(t, err)
	total, err := CountLines(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.Equal(t, 4, total)

	for _, n := range []int{0, 1, 2, 4, 100} {
		got := streamLines(t, path, Options{N: n})
		want := n
		if want > total {
			want = total
		}
		assert.Lenf(t, got, want, "n=%d: expected min(n, line_count(F)) = %d lines", n, want)
	}
}

func TestContextCancellationStopsEarly(t *testing.T) {
	path := writeTemp(t, "alpha\nbeta\ngamma\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var got []string
	w := writerFunc(func(p []byte) (int, error) {
		got = append(got, string(p))
		return len(p), nil
	})
	err := Stream(ctx, path, Options{N: All}, w, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
