// Package pool recycles the byte buffers the tokenizer uses for
// response file contents, so repeated parses stay off the allocator.
package pool

import "sync"

// Pool is a typed wrapper around sync.Pool with an optional reset
// applied before reuse.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(*T)
}

// NewPool creates a pool backed by the given factory.
func NewPool[T any](factory func() *T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any { return factory() },
		},
	}
}

// NewPoolWithReset creates a pool whose objects are reset on Get.
func NewPoolWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := NewPool(factory)
	p.reset = reset
	return p
}

// Get retrieves an object, resetting it first when a reset is set.
func (p *Pool[T]) Get() *T {
	obj := p.pool.Get().(*T)
	if p.reset != nil {
		p.reset(obj)
	}
	return obj
}

// Put returns an object for reuse.
func (p *Pool[T]) Put(obj *T) {
	if obj != nil {
		p.pool.Put(obj)
	}
}

// BufferPool hands out byte slices from capacity buckets. Requests
// beyond the largest bucket get a plain allocation and are not pooled
// on return, so one oversized response file cannot pin memory.
type BufferPool struct {
	pools   map[int]*Pool[[]byte]
	buckets []int
	maxCap  int
}

// NewBufferPool creates a buffer pool with power-of-two buckets from
// 64 bytes to 64 KiB, sized for typical response files.
func NewBufferPool() *BufferPool {
	buckets := []int{64, 256, 1024, 4096, 16384, 65536}

	bp := &BufferPool{
		pools:   make(map[int]*Pool[[]byte], len(buckets)),
		buckets: buckets,
		maxCap:  buckets[len(buckets)-1],
	}
	for _, c := range buckets {
		capacity := c
		bp.pools[capacity] = NewPoolWithReset(
			func() *[]byte {
				buf := make([]byte, 0, capacity)
				return &buf
			},
			func(buf *[]byte) {
				*buf = (*buf)[:0]
			},
		)
	}
	return bp
}

// Get retrieves a buffer with at least the requested capacity.
func (bp *BufferPool) Get(minCap int) *[]byte {
	if minCap > bp.maxCap {
		buf := make([]byte, 0, minCap)
		return &buf
	}
	return bp.pools[bp.bucket(minCap)].Get()
}

// Put returns a buffer to its bucket. Buffers outside the bucket range
// are dropped. The bucket is chosen by rounding capacity down, so a
// pooled buffer always has at least its bucket's capacity.
func (bp *BufferPool) Put(buf *[]byte) {
	if buf == nil {
		return
	}
	c := cap(*buf)
	if c < bp.buckets[0] || c > bp.maxCap {
		return
	}
	bucket := bp.buckets[0]
	for _, b := range bp.buckets {
		if b > c {
			break
		}
		bucket = b
	}
	bp.pools[bucket].Put(buf)
}

func (bp *BufferPool) bucket(minCap int) int {
	for _, b := range bp.buckets {
		if b >= minCap {
			return b
		}
	}
	return bp.maxCap
}

var global = NewBufferPool()

// GetBuffer retrieves a buffer from the shared pool.
func GetBuffer(minCap int) *[]byte {
	return global.Get(minCap)
}

// PutBuffer returns a buffer to the shared pool.
func PutBuffer(buf *[]byte) {
	global.Put(buf)
}
