// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package host

import (
	"sync/atomic"

	"github.com/H0llyW00dzZ/brssl-bridge/src/internal/helper/gc"
)

// Ref is anything the heap reference-counts.
//
// The interface is sealed: only [Bytes] and [Object] implement it directly,
// and wrapper types satisfy it by embedding a *[Object].
type Ref interface {
	block() *refBlock
}

// refBlock is the refcount header shared by every managed allocation.
type refBlock struct {
	id      uint64
	label   string
	size    int
	refs    atomic.Int32
	release func()
}

// ID returns the heap-unique allocation number.
func (h *refBlock) ID() uint64 { return h.id }

// Label returns the allocation label ("bytes" for buffers).
func (h *refBlock) Label() string { return h.label }

// Bytes is a managed, fixed-length byte buffer.
type Bytes struct {
	refBlock
	buf gc.Buffer
}

func (b *Bytes) block() *refBlock {
	if b == nil {
		return nil
	}
	return &b.refBlock
}

// Data returns the raw contents. The slice aliases heap storage: it stays
// valid only while at least one reference to b is held.
func (b *Bytes) Data() []byte {
	if b.buf == nil {
		return nil
	}
	return b.buf.Bytes()
}

// Len returns the buffer length.
func (b *Bytes) Len() int {
	if b.buf == nil {
		return 0
	}
	return b.buf.Len()
}

// Finalizer runs once, when an external object's count reaches zero.
type Finalizer func()

// Object is an external allocation whose payload lives outside the heap
// (in Go, the wrapper struct embedding it) and whose cleanup is a [Finalizer].
type Object struct {
	refBlock
	finalize Finalizer
}

func (o *Object) block() *refBlock {
	if o == nil {
		return nil
	}
	return &o.refBlock
}
