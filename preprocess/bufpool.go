package preprocess

import (
	"sync"
)

// maxFrameSizes bounds the number of distinct frame sizes pooled, frames of
// further sizes are allocated and left to the GC
const maxFrameSizes = 4

// BufferPool recycles conversion buffers between frames.  Buffers are pooled
// by exact size as a camera delivers frames of one or a few resolutions.
type BufferPool struct {
	mu    sync.Mutex
	pools map[int]*sync.Pool
}

// NewBufferPool returns an empty BufferPool
func NewBufferPool() *BufferPool {
	return &BufferPool{
		pools: make(map[int]*sync.Pool),
	}
}

// pool returns the pool for size, creating it if there is room
func (b *BufferPool) pool(size int, create bool) *sync.Pool {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.pools[size]

	if ok || !create || len(b.pools) >= maxFrameSizes {
		return p
	}

	p = &sync.Pool{
		New: func() any {
			return make([]byte, size)
		},
	}

	b.pools[size] = p
	return p
}

// Get returns a buffer of exactly size bytes.  The contents are not cleared
// as conversion overwrites every byte.
func (b *BufferPool) Get(size int) []byte {

	p := b.pool(size, true)

	if p == nil {
		return make([]byte, size)
	}

	return p.Get().([]byte)
}

// Put returns a buffer from Get to the pool.  Buffers of sizes not pooled
// are dropped.
func (b *BufferPool) Put(buf []byte) {

	p := b.pool(len(buf), false)

	if p == nil || cap(buf) != len(buf) {
		return
	}

	p.Put(buf)
}

// Sizes returns the number of frame sizes currently pooled
func (b *BufferPool) Sizes() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.pools)
}
