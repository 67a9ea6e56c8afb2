// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gc

import (
	"bytes"
	"errors"
	"io"
)

var errBufferFull = errors.New("limited buffer full")

// limitedBuffer is a Buffer that refuses writes past limit bytes, standing in
// for a backing store that runs out of room halfway through [Fill].
type limitedBuffer struct {
	buf    bytes.Buffer
	limit  int
	writes int
}

func (m *limitedBuffer) Write(p []byte) (int, error) {
	m.writes++
	if m.buf.Len()+len(p) > m.limit {
		return 0, errBufferFull
	}
	return m.buf.Write(p)
}

func (m *limitedBuffer) WriteString(s string) (int, error) { return m.Write([]byte(s)) }

func (m *limitedBuffer) WriteByte(c byte) error {
	_, err := m.Write([]byte{c})
	return err
}

func (m *limitedBuffer) WriteTo(w io.Writer) (int64, error) { return m.buf.WriteTo(w) }
func (m *limitedBuffer) ReadFrom(r io.Reader) (int64, error) { return m.buf.ReadFrom(r) }
func (m *limitedBuffer) Bytes() []byte                      { return m.buf.Bytes() }
func (m *limitedBuffer) String() string                     { return m.buf.String() }
func (m *limitedBuffer) Len() int                           { return m.buf.Len() }
func (m *limitedBuffer) Reset()                             { m.buf.Reset() }

func (m *limitedBuffer) Set(p []byte) {
	m.buf.Reset()
	m.buf.Write(p)
}

func (m *limitedBuffer) SetString(s string) { m.Set([]byte(s)) }

// errorReader fails every read.
type errorReader struct{ err error }

func (e *errorReader) Read(p []byte) (int, error) { return 0, e.err }
