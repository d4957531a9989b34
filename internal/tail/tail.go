// Package tail implements the tail/filter engine (spec.md §4.5): it
// memory-maps a file read-only, locates the start of the last N lines
// by reverse-scanning for newlines, then forward-scans from there to
// EOF, emitting each line that passes the filter predicate as one
// chunk. Peak memory is independent of line length and file size —
// the mapping and the kernel's page cache carry the cost, not this
// process's heap.
package tail

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/zoro-99/crbl-logger/internal/filter"
)

// All means "the entire file", i.e. the Python original's n == -1.
const All = -1

// Options configures one Stream call.
type Options struct {
	N       int // number of trailing lines, or All
	Clauses []filter.Clause
}

// Stream opens path, memory-maps it, and writes each passing line to
// w as one line (trailing newline stripped). When flush is non-nil it
// is called after every written line, so each write lands in its own
// HTTP chunk. ctx cancellation
// (client disconnect) aborts the scan early without error: spec.md §5
// requires the engine to "tolerate write failures mid-stream by
// abandoning the mapping and returning."
func Stream(ctx context.Context, path string, opts Options, w io.Writer, flush func()) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return nil
	}

	m, err := mapFile(f, info.Size())
	if err != nil {
		return err
	}
	defer m.Close()

	data := m.Bytes()
	start := findStart(data, opts.N)
	return emit(ctx, data, start, opts.Clauses, w, flush)
}

// findStart locates the byte offset of the first line to scan
// forward from, per spec.md §4.5 step 2.
//
// n == All scans the whole file, so start is always 0.
//
// Otherwise, a file's trailing newline terminates its last line
// rather than separating two lines, so it is excluded from the
// reverse newline count; counting it would make "tail 1" of
// "a\nb\n" land on an empty final line instead of "b".
func findStart(data []byte, n int) int {
	if n == All {
		return 0
	}
	if n <= 0 {
		return len(data)
	}

	end := len(data)
	if end > 0 && data[end-1] == '\n' {
		end--
	}

	start := 0
	for found := 0; found < n; found++ {
		idx := bytes.LastIndexByte(data[:end], '\n')
		if idx < 0 {
			return 0
		}
		start = idx + 1
		end = idx
	}
	return start
}

// emit forward-scans lines from start to EOF, emitting each one that
// passes clauses, per spec.md §4.5 steps 3-4.
func emit(ctx context.Context, data []byte, start int, clauses []filter.Clause, w io.Writer, flush func()) error {
	size := len(data)
	pos := start

	for pos < size {
		if err := ctx.Err(); err != nil {
			return nil
		}

		rel := bytes.IndexByte(data[pos:], '\n')
		end := size
		if rel >= 0 {
			end = pos + rel
		}

		line := data[pos:end]
		if filter.Match(line, clauses) {
			if _, err := w.Write(line); err != nil {
				// Client disconnected mid-stream: abandon the
				// mapping and return without error (spec.md §5, §7).
				return nil
			}
			if flush != nil {
				flush()
			}
		}

		if end == size {
			break
		}
		pos = end + 1
	}
	return nil
}

// CountLines reports a file's total line count, used by
// TestTailCountMatchesQuantifiedLaw to check spec.md §8's law: "the
// number of lines emitted with empty filters is min(n, line_count(F))".
func CountLines(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	count := 0
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
