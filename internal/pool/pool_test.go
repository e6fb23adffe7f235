package pool

import "testing"

func TestPoolReset(t *testing.T) {
	p := NewPoolWithReset(
		func() *[]int {
			s := make([]int, 0, 4)
			return &s
		},
		func(s *[]int) { *s = (*s)[:0] },
	)

	s := p.Get()
	*s = append(*s, 1, 2, 3)
	p.Put(s)

	got := p.Get()
	if len(*got) != 0 {
		t.Errorf("expected reset slice, got len %d", len(*got))
	}
}

func TestBufferPoolCapacity(t *testing.T) {
	bp := NewBufferPool()

	for _, want := range []int{1, 64, 100, 1024, 5000, 65536} {
		buf := bp.Get(want)
		if cap(*buf) < want {
			t.Errorf("Get(%d): capacity %d too small", want, cap(*buf))
		}
		if len(*buf) != 0 {
			t.Errorf("Get(%d): length %d, want 0", want, len(*buf))
		}
		bp.Put(buf)
	}
}

func TestBufferPoolOversized(t *testing.T) {
	bp := NewBufferPool()

	buf := bp.Get(1 << 20)
	if cap(*buf) < 1<<20 {
		t.Fatalf("capacity %d too small", cap(*buf))
	}
	// Must not pin the oversized buffer.
	bp.Put(buf)
}

func TestBufferPoolReuseSatisfiesBucket(t *testing.T) {
	bp := NewBufferPool()

	buf := bp.Get(256)
	*buf = append(*buf, make([]byte, 200)...)
	bp.Put(buf)

	again := bp.Get(256)
	if cap(*again) < 256 {
		t.Errorf("reused buffer capacity %d, want >= 256", cap(*again))
	}
	if len(*again) != 0 {
		t.Errorf("reused buffer length %d, want 0", len(*again))
	}
}

func TestGetPutBuffer(t *testing.T) {
	buf := GetBuffer(128)
	if cap(*buf) < 128 {
		t.Fatalf("capacity %d too small", cap(*buf))
	}
	PutBuffer(buf)
	PutBuffer(nil)
}
