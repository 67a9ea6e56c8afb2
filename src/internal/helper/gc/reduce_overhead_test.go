// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or use this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gc

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFill(t *testing.T) {
	tests := []struct {
		name string
		n    int
		fill byte
	}{
		{name: "Empty", n: 0, fill: 0xAA},
		{name: "Negative length", n: -4, fill: 0xAA},
		{name: "Below one chunk", n: 3, fill: 0x01},
		{name: "Exactly one chunk", n: fillChunk, fill: 0x00},
		{name: "Several chunks", n: 3*fillChunk + 7, fill: 0x7F},
		{name: "Engine buffer (16 KiB)", n: 16 * 1024, fill: 0x00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := Default.Get()
			defer func() {
				Scrub(buf)
				Default.Put(buf)
			}()

			buf.WriteString("stale contents")
			require.NoError(t, Fill(buf, tt.n, tt.fill))

			want := max(tt.n, 0)
			assert.Equal(t, want, buf.Len(), "Fill() length")
			assert.Equal(t, bytes.Repeat([]byte{tt.fill}, want), append([]byte{}, buf.Bytes()...))
		})
	}
}

func TestScrubZeroesBackingArray(t *testing.T) {
	buf := Default.Get()
	defer Default.Put(buf)

	buf.WriteString("secret modulus bytes")
	backing := buf.Bytes()

	Scrub(buf)

	assert.Equal(t, 0, buf.Len(), "Scrub() must reset the buffer")
	assert.Equal(t, make([]byte, len(backing)), backing, "Scrub() must zero previous contents")
}

func TestPoolGetPut(t *testing.T) {
	p := NewPool()

	buf1 := p.Get()
	require.NotNil(t, buf1, "Get() returned nil buffer")

	buf1.WriteString("test data")
	assert.Equal(t, 9, buf1.Len(), "WriteString() length")
	Scrub(buf1)
	p.Put(buf1)

	buf2 := p.Get()
	require.NotNil(t, buf2, "Get() returned nil buffer after Put()")
	assert.Equal(t, 0, buf2.Len(), "Buffer from pool should be empty")
	p.Put(buf2)
}

func TestBufferInterface(t *testing.T) {
	buf := Default.Get()
	defer func() {
		Scrub(buf)
		Default.Put(buf)
	}()

	buf.Write([]byte("hello"))
	buf.WriteString(" test")
	buf.WriteByte('!')
	assert.Equal(t, "hello test!", buf.String())

	buf.SetString("replaced")
	assert.Equal(t, "replaced", buf.String())

	buf.Set([]byte("bytes"))
	assert.Equal(t, []byte("bytes"), buf.Bytes())

	var out bytes.Buffer
	n, err := buf.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, "bytes", out.String())

	buf.Reset()
	n, err = buf.ReadFrom(strings.NewReader("from reader"))
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)
}

func TestBufferReadFromError(t *testing.T) {
	buf := Default.Get()
	defer func() {
		Scrub(buf)
		Default.Put(buf)
	}()

	_, err := buf.ReadFrom(&errorReader{err: io.ErrUnexpectedEOF})
	assert.Equal(t, io.ErrUnexpectedEOF, err, "ReadFrom error")
}

// TestPoolPutNonByteBuffer verifies Put ignores foreign Buffer implementations.
func TestPoolPutNonByteBuffer(t *testing.T) {
	foreign := &limitedBuffer{limit: 16}
	Default.Put(foreign)

	buf := Default.Get()
	defer Default.Put(buf)
	assert.NotSame(t, Buffer(foreign), buf)
}

func TestFillWriteError(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		n          int
		wantErr    bool
		wantLen    int
		wantWrites int
	}{
		{name: "fits", limit: 2 * fillChunk, n: 2 * fillChunk, wantLen: 2 * fillChunk, wantWrites: 2},
		{name: "fails on second chunk", limit: fillChunk + 10, n: 3 * fillChunk, wantErr: true, wantLen: fillChunk, wantWrites: 2},
		{name: "zero length", limit: 0, n: 0, wantWrites: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &limitedBuffer{limit: tt.limit}
			err := Fill(buf, tt.n, 0xAA)
			if tt.wantErr {
				assert.ErrorIs(t, err, errBufferFull)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantLen, buf.Len())
			assert.Equal(t, tt.wantWrites, buf.writes)
		})
	}
}

// TestGoroutineCooking verifies the pool is safe for concurrent use (with 100 goroutines sizzling!)
func TestGoroutineCooking(t *testing.T) {
	const goroutines = 100
	const iterations = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := range goroutines {
		go func(id int) {
			defer wg.Done()
			for range iterations {
				buf := Default.Get()
				if err := Fill(buf, 64+id, byte(id)); err != nil {
					t.Error(err)
				}
				if buf.Len() != 64+id {
					t.Errorf("goroutine %d: got len %d", id, buf.Len())
				}
				Scrub(buf)
				Default.Put(buf)
			}
		}(i)
	}

	wg.Wait()
}

func TestPoolInterfaceImplementation(t *testing.T) {
	var _ Pool = &pool{}
	var _ Pool = Default
	var _ Buffer = &limitedBuffer{}
}
