package reststore

import (
	"github.com/abdoElHodaky/matchcore/internal/common"
	"github.com/panjf2000/ants/v2"
)

// op is one queued side-store mutation.
type op struct {
	kind     opKind
	record   Record
	id       uint64
	quantity int64
}

type opKind int

const (
	opAdd opKind = iota
	opUpdateQuantity
	opRemove
)

// AsyncStore fans queued side-store mutations out onto a bounded
// goroutine pool (github.com/panjf2000/ants/v2) so the engine thread
// never blocks on the backing Store. A full queue drops the incoming
// update (already-queued updates are kept) and logs a warning rather
// than applying backpressure to the matching loop.
type AsyncStore struct {
	backend Store
	pool    *ants.Pool
	queue   chan op
	logger  common.Logger
	dropped uint64
}

// NewAsyncStore wraps backend with a bounded async dispatch queue of
// the given depth, drained by a pool of at most `workers` goroutines.
func NewAsyncStore(backend Store, depth, workers int, logger common.Logger) (*AsyncStore, error) {
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = common.NewDefaultLoggerWithPrefix("reststore")
	}
	s := &AsyncStore{
		backend: backend,
		pool:    pool,
		queue:   make(chan op, depth),
		logger:  logger,
	}
	go s.drain()
	return s, nil
}

func (s *AsyncStore) drain() {
	for o := range s.queue {
		o := o
		if err := s.pool.Submit(func() { s.apply(o) }); err != nil {
			s.logger.Warn("reststore pool submit failed", "error", err.Error())
		}
	}
}

func (s *AsyncStore) apply(o op) {
	switch o.kind {
	case opAdd:
		s.backend.Add(o.record)
	case opUpdateQuantity:
		s.backend.UpdateQuantity(o.id, o.quantity)
	case opRemove:
		s.backend.Remove(o.id)
	}
}

func (s *AsyncStore) enqueue(o op) {
	select {
	case s.queue <- o:
	default:
		s.dropped++
		s.logger.Warn("reststore queue full, dropping update", "kind", o.kind)
	}
}

func (s *AsyncStore) Add(r Record)                       { s.enqueue(op{kind: opAdd, record: r}) }
func (s *AsyncStore) UpdateQuantity(id uint64, qty int64) { s.enqueue(op{kind: opUpdateQuantity, id: id, quantity: qty}) }

// Remove enqueues an asynchronous removal. The synchronous return is
// always (Record{}, false): the actual removal happens on the pool,
// after this call has already returned to the (non-blocking) caller.
func (s *AsyncStore) Remove(id uint64) (Record, bool) {
	s.enqueue(op{kind: opRemove, id: id})
	return Record{}, false
}

// Dropped returns the number of updates dropped due to a full queue.
func (s *AsyncStore) Dropped() uint64 { return s.dropped }

// Close stops accepting new work and releases the worker pool.
func (s *AsyncStore) Close() {
	close(s.queue)
	s.pool.Release()
}
