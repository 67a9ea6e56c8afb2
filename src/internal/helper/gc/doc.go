// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package gc provides reusable byte buffer pooling to reduce garbage collection overhead.
// It abstracts the [bytebufferpool] library and is the backing store for every
// managed byte buffer handed out by the host heap: buffers are taken from the
// pool on allocation, sized and filled in place, and scrubbed before they go back
// once their last reference is released.
//
// [bytebufferpool]: https://github.com/valyala/bytebufferpool
package gc
