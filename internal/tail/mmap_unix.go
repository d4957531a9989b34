//go:build !windows

package tail

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mapping is the memory-mapped view of a file's contents, scoped to a
// single request (spec.md §5: "strictly request-scoped; never shared
// across requests").
type mapping struct {
	data []byte
}

// mapFile memory-maps size bytes of f read-only, per spec.md §4.5
// step 1.
func mapFile(f *os.File, size int64) (*mapping, error) {
	if size == 0 {
		return &mapping{}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", f.Name(), err)
	}
	return &mapping{data: data}, nil
}

// Bytes returns the mapped region.
func (m *mapping) Bytes() []byte {
	return m.data
}

// Close releases the mapping. Safe to call on an empty mapping.
func (m *mapping) Close() error {
	if m.data == nil {
		return nil
	}
	return unix.Munmap(m.data)
}
