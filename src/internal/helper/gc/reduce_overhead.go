// Copyright (c) 2024 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gc

import (
	"io"

	"github.com/valyala/bytebufferpool"
)

// Buffer defines the interface for a reusable byte buffer.
// It abstracts the [bytebufferpool.ByteBuffer] type to avoid direct dependencies.
type Buffer interface {
	Write(p []byte) (int, error)
	WriteString(s string) (int, error)
	WriteByte(c byte) error
	WriteTo(w io.Writer) (int64, error)
	ReadFrom(r io.Reader) (int64, error)
	Bytes() []byte
	String() string
	Len() int
	Set(p []byte)
	SetString(s string)
	Reset()
}

// Pool defines the interface for buffer pooling.
// It abstracts the [bytebufferpool.Pool] type to avoid direct dependencies.
//
// Pool implementations must be safe for concurrent use by multiple goroutines.
type Pool interface {
	Get() Buffer
	Put(b Buffer)
}

// pool wraps [bytebufferpool.Pool] to implement Pool interface.
type pool struct{ p *bytebufferpool.Pool }

// Get returns a buffer from the pool.
func (p *pool) Get() Buffer { return p.p.Get() }

// Put returns a buffer to the pool.
func (p *pool) Put(b Buffer) {
	if buf, ok := b.(*bytebufferpool.ByteBuffer); ok {
		p.p.Put(buf)
	}
}

// NewPool returns an isolated pool. Heaps that need their own calibration
// (for example the large engine I/O buffers next to short key material)
// should not share [Default].
func NewPool() Pool { return &pool{p: &bytebufferpool.Pool{}} }

// Default is the default buffer pool used for managed host buffers.
//
// Example usage:
//
//	buf := gc.Default.Get()
//
//	defer func() {
//		gc.Scrub(buf)       // Zero the contents so key material does not linger
//		gc.Default.Put(buf) // Return the buffer to the pool for reuse
//	}()
//
//	if err := gc.Fill(buf, 256, 0); err != nil {
//		return err
//	}
var Default Pool = NewPool()

// fillChunk bounds the scratch slice used by [Fill].
const fillChunk = 512

// Fill resets buf and grows it to exactly n bytes, every byte set to b.
// It writes in bounded chunks so a large I/O buffer does not need a second
// temporary allocation of the same size.
func Fill(buf Buffer, n int, b byte) error {
	buf.Reset()
	if n <= 0 {
		return nil
	}

	var chunk [fillChunk]byte
	if b != 0 {
		for i := range chunk {
			chunk[i] = b
		}
	}

	for remaining := n; remaining > 0; {
		step := min(remaining, fillChunk)
		if _, err := buf.Write(chunk[:step]); err != nil {
			return err
		}
		remaining -= step
	}
	return nil
}

// Scrub overwrites the current contents of buf with zeros and then resets it.
// Released buffers may have held key material; pooled memory is reused by
// unrelated callers.
func Scrub(buf Buffer) {
	clear(buf.Bytes())
	buf.Reset()
}
