package pool

import (
	"errors"
	"sync"
	"testing"
)

type size struct{ w, h int }

type buf struct {
	key   size
	dirty bool
}

func newTestPool(max int, dropped *int) *Pool[size, *buf] {
	return New(Config[size, *buf]{
		MaxPerBucket: max,
		Create: func(k size) (*buf, error) {
			if k.w <= 0 || k.h <= 0 {
				return nil, errors.New("invalid size")
			}
			return &buf{key: k}, nil
		},
		Reset: func(b *buf) { b.dirty = false },
		Drop: func(*buf) {
			if dropped != nil {
				*dropped++
			}
		},
	})
}

func TestPool_GetPut_Basic(t *testing.T) {
	p := newTestPool(4, nil)
	k := size{100, 100}

	b1, err := p.Get(k)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Outstanding() != 1 {
		t.Errorf("Outstanding = %d, want 1", p.Outstanding())
	}
	b1.dirty = true
	p.Put(k, b1)
	if p.Outstanding() != 0 {
		t.Errorf("Outstanding after Put = %d, want 0", p.Outstanding())
	}

	b2, _ := p.Get(k)
	if b2 != b1 {
		t.Error("expected the pooled buffer to be reused")
	}
	if b2.dirty {
		t.Error("reused buffer was not reset")
	}
}

func TestPool_BucketsByKey(t *testing.T) {
	p := newTestPool(4, nil)
	a, _ := p.Get(size{10, 10})
	p.Put(size{10, 10}, a)

	b, _ := p.Get(size{20, 20})
	if b == a {
		t.Error("different keys must not share buffers")
	}
}

func TestPool_MaxPerBucket(t *testing.T) {
	dropped := 0
	p := newTestPool(1, &dropped)
	k := size{8, 8}
	a, _ := p.Get(k)
	b, _ := p.Get(k)
	p.Put(k, a)
	p.Put(k, b)
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if p.Idle() != 1 {
		t.Errorf("Idle = %d, want 1", p.Idle())
	}
}

func TestPool_CreateError(t *testing.T) {
	p := newTestPool(0, nil)
	if _, err := p.Get(size{0, 5}); err == nil {
		t.Fatal("expected error for invalid size")
	}
	if p.Outstanding() != 0 {
		t.Error("failed Get must not count as outstanding")
	}
}

func TestPool_Clear(t *testing.T) {
	dropped := 0
	p := newTestPool(0, &dropped)
	for i := 0; i < 3; i++ {
		b, _ := p.Get(size{4, 4})
		defer p.Put(size{4, 4}, b)
	}
	// deferred Puts have not run yet; put a fresh one and clear.
	b, _ := p.Get(size{2, 2})
	p.Put(size{2, 2}, b)
	p.Clear()
	if dropped != 1 || p.Idle() != 0 {
		t.Errorf("dropped = %d idle = %d, want 1 and 0", dropped, p.Idle())
	}
}

func TestPool_Concurrent(t *testing.T) {
	p := newTestPool(8, nil)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				b, err := p.Get(size{32, 32})
				if err != nil {
					t.Error(err)
					return
				}
				p.Put(size{32, 32}, b)
			}
		}()
	}
	wg.Wait()
	if p.Outstanding() != 0 {
		t.Errorf("Outstanding = %d, want 0", p.Outstanding())
	}
}
