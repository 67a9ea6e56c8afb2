// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package host models the managed side of the bridge: a reference-counted
// heap that hands out byte buffers and external objects, and finalizes each
// of them exactly when its count drops to zero.
//
// The adapter in package bridge never allocates or frees anything by itself.
// It receives a [Runtime] and calls into it, which keeps the memory model an
// injected capability rather than a process-wide singleton:
//
//	heap := host.NewHeap(host.HeapConfig{LimitBytes: 1 << 20})
//
//	n, _ := host.Copy(heap, modulus) // count = 1, owned by the caller
//	heap.IncRef(n)                   // count = 2
//	heap.DecRef(n)                   // count = 1
//	heap.DecRef(n)                   // count = 0, scrubbed and returned to the pool
//
// Buffer storage comes from the gc helper pool. Released buffers are zeroed
// before reuse, so a stale raw slice kept past the final release reads zeros
// rather than someone else's data.
//
// Misuse of the refcount contract (a release on a dead or nil reference) is a
// programming error and the heap panics with [ErrReleased] or [ErrNilRef].
package host
