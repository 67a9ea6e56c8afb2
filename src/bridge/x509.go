// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package bridge

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/H0llyW00dzZ/brssl-bridge/src/native"
)

// X509MinimalContext wraps the verifier state. It owns no buffers.
type X509MinimalContext struct {
	object
	lib native.Library
	ctx native.X509MinimalContext
}

// X509MinimalContext allocates a zeroed verifier. It becomes usable once a
// client context is initialised with it.
func (b *Bridge) X509MinimalContext() (*X509MinimalContext, error) {
	xc := &X509MinimalContext{object: object{rt: b.rt}, lib: b.lib}

	obj, err := b.rt.MakeExternal(LabelX509Minimal, int(unsafe.Sizeof(xc.ctx)), nil)
	if err != nil {
		return nil, fmt.Errorf("bridge: x509 minimal context: %w", err)
	}
	xc.Object = obj
	return xc, nil
}

// SetTime fixes the validation time. Call it after [ClientContext.InitFull],
// which resets the verifier.
func (xc *X509MinimalContext) SetTime(t time.Time) { xc.lib.X509MinimalSetTime(&xc.ctx, t) }

// LastError returns the code of the last chain validation.
func (xc *X509MinimalContext) LastError() int32 { return xc.ctx.LastError() }

// Native returns the native verifier state, valid while xc is alive.
func (xc *X509MinimalContext) Native() *native.X509MinimalContext { return &xc.ctx }
