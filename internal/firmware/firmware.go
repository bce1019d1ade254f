// Package firmware loads a compiled AVR program from an Intel HEX file
// into a flat flash byte image, ready for the avr package's Executor.
package firmware

import (
	"fmt"
	"os"

	"github.com/marcinbor85/gohex"
)

// Load reads the Intel HEX file at path and lays out its data segments
// into a single contiguous flash image starting at address 0. Gaps
// between segments are left zero-filled.
func Load(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("firmware: open %s: %w", path, err)
	}
	defer f.Close()

	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(f); err != nil {
		return nil, fmt.Errorf("firmware: parse %s: %w", path, err)
	}

	segments := mem.GetDataSegments()

	var top uint32
	for _, seg := range segments {
		if end := seg.Address + uint32(len(seg.Data)); end > top {
			top = end
		}
	}

	flash := make([]byte, top)
	for _, seg := range segments {
		copy(flash[seg.Address:], seg.Data)
	}

	return flash, nil
}
