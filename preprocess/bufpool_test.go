package preprocess

import "testing"

func TestBufferPool(t *testing.T) {

	pool := NewBufferPool()

	buf := pool.Get(NV21Size(8, 4))

	if len(buf) != 48 || cap(buf) != 48 {
		t.Fatalf("Get returned len=%d cap=%d, expected 48", len(buf), cap(buf))
	}

	if pool.Sizes() != 1 {
		t.Errorf("expected 1 pooled size, got %d", pool.Sizes())
	}

	pool.Put(buf)

	if again := pool.Get(48); len(again) != 48 {
		t.Errorf("second Get returned len=%d, expected 48", len(again))
	}

	if pool.Sizes() != 1 {
		t.Errorf("same size created another pool, got %d sizes", pool.Sizes())
	}

	// foreign and resliced buffers are dropped without panic
	pool.Put(make([]byte, 7))
	pool.Put(make([]byte, 48, 64))

	if pool.Sizes() != 1 {
		t.Errorf("Put of foreign buffer created a pool, got %d sizes", pool.Sizes())
	}
}

func TestBufferPoolBoundsSizes(t *testing.T) {

	pool := NewBufferPool()

	for i := 1; i <= maxFrameSizes+3; i++ {
		buf := pool.Get(i * 6)

		if len(buf) != i*6 {
			t.Errorf("Get(%d) returned len=%d", i*6, len(buf))
		}

		pool.Put(buf)
	}

	if pool.Sizes() != maxFrameSizes {
		t.Errorf("expected %d pooled sizes, got %d", maxFrameSizes, pool.Sizes())
	}
}
