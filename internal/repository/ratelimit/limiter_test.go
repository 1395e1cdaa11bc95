package ratelimit

import (
	"strconv"
	"sync"
	"testing"
	"time"
)

func TestAllow_UnderLimit(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		d := l.Allow("client-a")
		if !d.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
}

func TestAllow_RejectsOverLimit(t *testing.T) {
	now := time.Unix(1000, 0)
	l := New(30, time.Minute).WithClock(func() time.Time { return now })

	for i := 0; i < 30; i++ {
		if d := l.Allow("client-a"); !d.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	d := l.Allow("client-a")
	if d.Allowed {
		t.Fatal("31st request should be rejected")
	}
	if retryAfter := d.ResetAt.Sub(now); retryAfter <= 0 {
		t.Errorf("expected positive retry-after, got %v", retryAfter)
	}
}

func TestAllow_WindowSlides(t *testing.T) {
	now := time.Unix(1000, 0)
	l := New(2, time.Minute).WithClock(func() time.Time { return now })

	l.Allow("client-a")
	now = now.Add(30 * time.Second)
	l.Allow("client-a")

	if d := l.Allow("client-a"); d.Allowed {
		t.Fatal("third request inside the window should be rejected")
	}

	// First hit falls out of the window; one slot frees up.
	now = now.Add(31 * time.Second)
	if d := l.Allow("client-a"); !d.Allowed {
		t.Fatal("expected admission after oldest hit left the window")
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	l := New(1, time.Minute)

	if d := l.Allow("client-a"); !d.Allowed {
		t.Fatal("first request for client-a should pass")
	}
	if d := l.Allow("client-b"); !d.Allowed {
		t.Fatal("client-b must not be affected by client-a's counters")
	}
	if d := l.Allow("client-a"); d.Allowed {
		t.Fatal("second request for client-a should be rejected")
	}
}

func TestAllow_RemainingCountsDown(t *testing.T) {
	l := New(3, time.Minute)

	want := []int{2, 1, 0}
	for i, w := range want {
		d := l.Allow("client-a")
		if d.Remaining != w {
			t.Errorf("request %d: Remaining = %d, want %d", i+1, d.Remaining, w)
		}
	}
}

func TestAllow_SweepsStaleKeys(t *testing.T) {
	now := time.Unix(1000, 0)
	l := New(30, time.Minute).WithClock(func() time.Time { return now })

	// One-shot clients, each key seen exactly once.
	for i := 0; i < 10000; i++ {
		l.Allow("client-" + strconv.Itoa(i))
	}

	// All windows fully elapse; a busy client keeps hitting the
	// endpoint, which must eventually trigger a sweep.
	now = now.Add(time.Hour)
	for i := 0; i < sweepEvery; i++ {
		l.Allow("fresh")
	}

	if got := l.Len(); got != 1 {
		t.Errorf("tracked keys after all windows expired = %d, want 1", got)
	}
}

func TestAllow_SweepKeepsActiveKeys(t *testing.T) {
	now := time.Unix(1000, 0)
	l := New(30, time.Minute).WithClock(func() time.Time { return now })

	l.Allow("stale")
	now = now.Add(2 * time.Minute)
	l.Allow("active")

	l.mu.Lock()
	l.sweep(now.Add(-time.Minute))
	l.mu.Unlock()

	if got := l.Len(); got != 1 {
		t.Fatalf("tracked keys after sweep = %d, want 1", got)
	}
	if d := l.Allow("active"); !d.Allowed || d.Remaining != 28 {
		t.Errorf("active client's counters lost by sweep: allowed=%v remaining=%d",
			d.Allowed, d.Remaining)
	}
}

func TestAllow_ConcurrentAccess(t *testing.T) {
	l := New(1000, time.Minute)

	var wg sync.WaitGroup
	allowed := make([]bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			allowed[i] = l.Allow("shared").Allowed
		}(i)
	}
	wg.Wait()

	for i, ok := range allowed {
		if !ok {
			t.Errorf("request %d unexpectedly rejected under the limit", i)
		}
	}
}
