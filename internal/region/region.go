// Package region implements the shared mapped region that backs the
// order ring, trade ring, market-data snapshots, and price-level
// snapshots. It owns no matching logic; it is the
// mmap'd byte slice plus atomic accessors for the header words and raw
// slot addressing helpers used by internal/ring and internal/engine.
package region

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"github.com/abdoElHodaky/matchcore/internal/common"
	"golang.org/x/sys/unix"
)

// Region is a memory-mapped fixed-size file holding the header, both
// ring buffers, and the dense market-data/price-level arrays.
type Region struct {
	file *os.File
	data []byte
}

// Open maps path read-write, growing/truncating it to TotalSize if
// necessary. If the header's version word is zero the region is
// treated as uninitialized: it is zeroed and the header populated
//. Otherwise the existing header is adopted as-is.
func Open(path string) (*Region, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", common.ErrRegionInit, path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: stat %s: %v", common.ErrRegionInit, path, err)
	}
	if info.Size() < TotalSize {
		if err := f.Truncate(TotalSize); err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: truncate %s: %v", common.ErrRegionInit, path, err)
		}
	}

	data, err := unix.Mmap(int(f.Fd()), 0, TotalSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: mmap %s: %v", common.ErrRegionInit, path, err)
	}

	r := &Region{file: f, data: data}
	if r.Version() == 0 {
		r.reset()
	}
	return r, nil
}

// reset zeroes the whole region and writes a freshly initialized
// header (version=1, next_trade_id=1, status=active).
func (r *Region) reset() {
	for i := range r.data {
		r.data[i] = 0
	}
	r.wordPtr(OffNextTradeID).Store(1)
	r.wordPtr(OffVersion).Store(1)
	r.wordPtr(OffStatus).Store(StatusActive)
}

// Close flushes the region to disk and unmaps it.
func (r *Region) Close() error {
	if err := unix.Msync(r.data, unix.MS_SYNC); err != nil {
		return err
	}
	if err := unix.Munmap(r.data); err != nil {
		return err
	}
	return r.file.Close()
}

// Flush synchronously flushes dirty pages without unmapping.
func (r *Region) Flush() error {
	return unix.Msync(r.data, unix.MS_SYNC)
}

// Bytes exposes the raw mapped slice for ring/market-data/price-level
// readers and writers. Callers must respect the ownership rules in
// (single writer except the order ring's tail/slots).
func (r *Region) Bytes() []byte { return r.data }

func (r *Region) wordPtr(offset int) *atomic.Uint64 {
	return (*atomic.Uint64)(unsafe.Pointer(&r.data[offset]))
}

// Header accessors. Ring head/tail words use acquire/release semantics
// per : the owning side stores with Store after its slot
// writes are complete, and the other side loads with Load before
// reading a slot. On amd64/arm64 plain atomic load/store already give
// the required acquire/release ordering.

func (r *Region) OrderRingHead() uint64        { return r.wordPtr(OffOrderRingHead).Load() }
func (r *Region) SetOrderRingHead(v uint64)     { r.wordPtr(OffOrderRingHead).Store(v) }
func (r *Region) OrderRingTail() uint64        { return r.wordPtr(OffOrderRingTail).Load() }
func (r *Region) SetOrderRingTail(v uint64)     { r.wordPtr(OffOrderRingTail).Store(v) }
func (r *Region) TradeRingHead() uint64        { return r.wordPtr(OffTradeRingHead).Load() }
func (r *Region) SetTradeRingHead(v uint64)     { r.wordPtr(OffTradeRingHead).Store(v) }
func (r *Region) TradeRingTail() uint64        { return r.wordPtr(OffTradeRingTail).Load() }
func (r *Region) SetTradeRingTail(v uint64)     { r.wordPtr(OffTradeRingTail).Store(v) }
func (r *Region) Version() uint64              { return r.wordPtr(OffVersion).Load() }
func (r *Region) Status() uint64               { return r.wordPtr(OffStatus).Load() }
func (r *Region) SetStatus(v uint64)           { r.wordPtr(OffStatus).Store(v) }
func (r *Region) LastUpdateTS() uint64         { return r.wordPtr(OffLastUpdateTS).Load() }
func (r *Region) SetLastUpdateTS(v uint64)     { r.wordPtr(OffLastUpdateTS).Store(v) }

// NextTradeID atomically increments and returns the next trade id
// (header word initialized to 1). The trade ring is single-producer
// (the engine), so a plain add suffices, but Add is atomic regardless
// in case a future multi-writer trade ring relaxes that assumption.
func (r *Region) NextTradeID() uint64 {
	return r.wordPtr(OffNextTradeID).Add(1) - 1
}
