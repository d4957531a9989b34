//go:build windows

package tail

import (
	"fmt"
	"io"
	"os"
)

// mapping on Windows falls back to a full read into memory. This
// trades away the O(1)-memory guarantee spec.md §4.5 asks mmap for in
// exchange for portability, per spec.md §9's "Tail via mmap" note:
// keep the reverse-scan/forward-emit structure "even where mmap is
// cumbersome." golang.org/x/sys/windows exposes CreateFileMapping
// instead of unix.Mmap, which is enough of a different API surface
// that it isn't worth replicating here for a service whose deployment
// target (spec.md §1: "systems language", multicast peer daemons) is
// Unix-shaped; this file exists so the module still builds on
// Windows, not as a first-class backend.
type mapping struct {
	data []byte
}

func mapFile(f *os.File, size int64) (*mapping, error) {
	if size == 0 {
		return &mapping{}, nil
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name(), err)
	}
	return &mapping{data: data}, nil
}

func (m *mapping) Bytes() []byte {
	return m.data
}

func (m *mapping) Close() error {
	m.data = nil
	return nil
}
