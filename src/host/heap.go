// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package host

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/H0llyW00dzZ/brssl-bridge/src/internal/helper/gc"
)

var (
	// ErrOutOfMemory indicates the heap refused an allocation because it would exceed its limit.
	ErrOutOfMemory = errors.New("host: allocation refused, heap limit reached")

	// ErrNegativeSize indicates an allocation was requested with a negative size.
	ErrNegativeSize = errors.New("host: negative allocation size")

	// ErrReleased is the panic value for a retain or release on a reference whose count already reached zero.
	ErrReleased = errors.New("host: reference already released")

	// ErrNilRef is the panic value for a retain or release on a nil reference.
	ErrNilRef = errors.New("host: nil reference")
)

// Runtime is the capability the bridge consumes from the managed host:
// buffer allocation, length queries, reference counting and external objects
// with a finalizer.
//
// Implementations decide their own thread-safety; [Heap] uses atomic counts.
type Runtime interface {
	// MakeBytes allocates an n-byte buffer with every byte set to fill.
	// The caller owns the single initial reference.
	MakeBytes(n int, fill byte) (*Bytes, error)
	// Length returns the current length of b.
	Length(b *Bytes) int
	// IncRef adds one reference to r.
	IncRef(r Ref)
	// DecRef drops one reference from r and finalizes it when none remain.
	DecRef(r Ref)
	// MakeExternal allocates an object of the given native size whose
	// finalizer runs when its count reaches zero. The caller owns the single
	// initial reference.
	MakeExternal(label string, size int, finalize Finalizer) (*Object, error)
}

// HeapConfig holds heap configuration.
type HeapConfig struct {
	LimitBytes int64   // Maximum live bytes across buffers and external objects (0 = unlimited)
	Pool       gc.Pool // Buffer pool (nil = gc.Default)
}

// HeapStats is a point-in-time view of heap usage.
type HeapStats struct {
	LiveBuffers   int64 // Buffers with a non-zero count
	LiveObjects   int64 // External objects with a non-zero count
	LiveBytes     int64 // Bytes reserved by live allocations
	Allocations   int64 // Successful allocations since creation
	Finalizations int64 // Allocations whose count reached zero
	Refused       int64 // Allocations refused by the limit
}

// Heap is the reference [Runtime]: a reference-counted allocator backed by
// the gc buffer pool.
type Heap struct {
	limit  int64
	pool   gc.Pool
	nextID atomic.Uint64

	mu    sync.Mutex
	stats HeapStats
}

var _ Runtime = (*Heap)(nil)

// NewHeap creates a heap with the given configuration.
func NewHeap(cfg HeapConfig) *Heap {
	p := cfg.Pool
	if p == nil {
		p = gc.Default
	}
	limit := cfg.LimitBytes
	if limit < 0 {
		limit = 0
	}
	return &Heap{limit: limit, pool: p}
}

// reserve accounts for size bytes, reporting false when the limit forbids it.
func (h *Heap) reserve(size int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.limit > 0 && h.stats.LiveBytes+int64(size) > h.limit {
		h.stats.Refused++
		return false
	}
	h.stats.LiveBytes += int64(size)
	h.stats.Allocations++
	return true
}

// unreserve returns size bytes to the budget after a finalization or a failed allocation.
func (h *Heap) unreserve(size int, finalized bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stats.LiveBytes -= int64(size)
	if finalized {
		h.stats.Finalizations++
	} else {
		h.stats.Allocations--
	}
}

func (h *Heap) adjustLive(buffers, objects int64) {
	h.mu.Lock()
	h.stats.LiveBuffers += buffers
	h.stats.LiveObjects += objects
	h.mu.Unlock()
}

// MakeBytes allocates an n-byte buffer filled with fill.
func (h *Heap) MakeBytes(n int, fill byte) (*Bytes, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeSize, n)
	}
	if !h.reserve(n) {
		Logger().Warn("buffer allocation refused", zap.Int("size", n), zap.Int64("limit", h.limit))
		return nil, fmt.Errorf("%w: %d bytes requested", ErrOutOfMemory, n)
	}

	buf := h.pool.Get()
	if err := gc.Fill(buf, n, fill); err != nil {
		gc.Scrub(buf)
		h.pool.Put(buf)
		h.unreserve(n, false)
		return nil, fmt.Errorf("host: failed to size buffer: %w", err)
	}

	b := &Bytes{buf: buf}
	b.id = h.nextID.Add(1)
	b.label = "bytes"
	b.size = n
	b.refs.Store(1)
	b.release = func() {
		gc.Scrub(b.buf)
		h.pool.Put(b.buf)
		b.buf = nil
		h.unreserve(b.size, true)
		h.adjustLive(-1, 0)
	}
	h.adjustLive(1, 0)

	Logger().Debug("buffer allocated", zap.Uint64("id", b.id), zap.Int("size", n))
	return b, nil
}

// Length returns the current length of b.
func (h *Heap) Length(b *Bytes) int { return b.Len() }

// MakeExternal allocates an external object with the given finalizer.
func (h *Heap) MakeExternal(label string, size int, finalize Finalizer) (*Object, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeSize, size)
	}
	if !h.reserve(size) {
		Logger().Warn("external allocation refused", zap.String("label", label), zap.Int("size", size), zap.Int64("limit", h.limit))
		return nil, fmt.Errorf("%w: %s (%d bytes)", ErrOutOfMemory, label, size)
	}

	o := &Object{finalize: finalize}
	o.id = h.nextID.Add(1)
	o.label = label
	o.size = size
	o.refs.Store(1)
	o.release = func() {
		if o.finalize != nil {
			o.finalize()
		}
		h.unreserve(o.size, true)
		h.adjustLive(0, -1)
	}
	h.adjustLive(0, 1)

	Logger().Debug("object allocated", zap.Uint64("id", o.id), zap.String("label", label), zap.Int("size", size))
	return o, nil
}

// blockOf resolves the refcount header of r, panicking with [ErrNilRef] for
// nil interfaces, nil pointers and wrappers whose object was never allocated.
func blockOf(r Ref) *refBlock {
	if r == nil {
		panic(ErrNilRef)
	}
	if v := reflect.ValueOf(r); v.Kind() == reflect.Pointer && v.IsNil() {
		panic(ErrNilRef)
	}
	blk := r.block()
	if blk == nil {
		panic(ErrNilRef)
	}
	return blk
}

// IncRef adds one reference to r.
func (h *Heap) IncRef(r Ref) {
	blk := blockOf(r)
	for {
		cur := blk.refs.Load()
		if cur <= 0 {
			panic(fmt.Errorf("%w: %s #%d", ErrReleased, blk.label, blk.id))
		}
		if blk.refs.CompareAndSwap(cur, cur+1) {
			return
		}
	}
}

// DecRef drops one reference from r. The allocation is finalized by the
// caller's goroutine when the count reaches zero; external finalizers may
// release further references re-entrantly.
func (h *Heap) DecRef(r Ref) {
	blk := blockOf(r)
	for {
		cur := blk.refs.Load()
		if cur <= 0 {
			panic(fmt.Errorf("%w: %s #%d", ErrReleased, blk.label, blk.id))
		}
		if !blk.refs.CompareAndSwap(cur, cur-1) {
			continue
		}
		if cur == 1 {
			Logger().Debug("finalizing", zap.Uint64("id", blk.id), zap.String("label", blk.label))
			blk.release()
		}
		return
	}
}

// RefCount returns the current count of r; zero once it has been finalized.
func (h *Heap) RefCount(r Ref) int32 { return blockOf(r).refs.Load() }

// Stats returns a snapshot of heap usage.
func (h *Heap) Stats() HeapStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

// Copy allocates a buffer on rt holding a copy of p.
func Copy(rt Runtime, p []byte) (*Bytes, error) {
	b, err := rt.MakeBytes(len(p), 0)
	if err != nil {
		return nil, err
	}
	copy(b.Data(), p)
	return b, nil
}
