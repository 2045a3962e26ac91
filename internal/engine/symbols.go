package engine

import (
	"hash/fnv"

	"github.com/abdoElHodaky/matchcore/internal/common"
)

// Fingerprint deterministically maps a symbol name to the uint32 used
// throughout the wire format. A 32-bit FNV-1a
// hash needs no ecosystem dependency — it is a pure stdlib concern, not
// a domain one (see DESIGN.md).
func Fingerprint(symbol string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(symbol))
	return h.Sum32()
}

// registry maps fingerprints to books and enforces the
// fingerprint-collision-is-fatal registration policy via
// common.ErrDuplicateFingerprint.
type registry struct {
	byFP  map[uint32]int // fingerprint -> symbol index
	names []string
}

func newRegistry() *registry {
	return &registry{byFP: make(map[uint32]int)}
}

func (r *registry) register(symbol string) (index int, fp uint32, err error) {
	fp = Fingerprint(symbol)
	if _, exists := r.byFP[fp]; exists {
		return 0, fp, common.ErrDuplicateFingerprint
	}
	index = len(r.names)
	r.byFP[fp] = index
	r.names = append(r.names, symbol)
	return index, fp, nil
}

func (r *registry) indexFor(fp uint32) (int, bool) {
	idx, ok := r.byFP[fp]
	return idx, ok
}
