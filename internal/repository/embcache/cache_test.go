package embcache

import (
	"strconv"
	"testing"
	"time"
)

func TestGetSet_RoundTrip(t *testing.T) {
	c := New(10, time.Minute)

	c.Set("bukovec", []float32{0.1, 0.2})

	vec, ok := c.Get("bukovec")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(vec) != 2 || vec[0] != 0.1 {
		t.Errorf("unexpected vector: %v", vec)
	}
}

func TestGet_CaseInsensitiveKey(t *testing.T) {
	c := New(10, time.Minute)

	c.Set("Bukovec", []float32{0.5})

	if _, ok := c.Get("bukovec"); !ok {
		t.Error("expected hit for lowercased key")
	}
	if _, ok := c.Get("BUKOVEC"); !ok {
		t.Error("expected hit for uppercased key")
	}
	if c.Len() != 1 {
		t.Errorf("expected a single shared slot, got %d entries", c.Len())
	}
}

func TestGet_ExpiredEntryRemoved(t *testing.T) {
	now := time.Unix(1000, 0)
	c := New(10, time.Minute).WithClock(func() time.Time { return now })

	c.Set("obvoz", []float32{0.1})

	now = now.Add(time.Minute) // exactly at expiry: treated as absent
	if _, ok := c.Get("obvoz"); ok {
		t.Fatal("expected expired entry to be absent")
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry to be removed, Len() = %d", c.Len())
	}
}

func TestGet_JustBeforeExpiryStillValid(t *testing.T) {
	now := time.Unix(1000, 0)
	c := New(10, time.Minute).WithClock(func() time.Time { return now })

	c.Set("obvoz", []float32{0.1})

	now = now.Add(time.Minute - time.Millisecond)
	if _, ok := c.Get("obvoz"); !ok {
		t.Error("expected entry to still be valid just before expiry")
	}
}

func TestSet_EvictsOldestOnOverflow(t *testing.T) {
	c := New(3, time.Minute)

	for i := 0; i < 4; i++ {
		c.Set("q"+strconv.Itoa(i), []float32{float32(i)})
	}

	if c.Len() != 3 {
		t.Fatalf("expected size capped at 3, got %d", c.Len())
	}
	if _, ok := c.Get("q0"); ok {
		t.Error("expected oldest-inserted entry q0 to be evicted")
	}
	for i := 1; i < 4; i++ {
		if _, ok := c.Get("q" + strconv.Itoa(i)); !ok {
			t.Errorf("expected q%d to survive", i)
		}
	}
}

func TestSet_RefreshOnWriteMovesToBack(t *testing.T) {
	c := New(3, time.Minute)

	c.Set("a", []float32{1})
	c.Set("b", []float32{2})
	c.Set("c", []float32{3})
	c.Set("a", []float32{1.5}) // re-insert moves a to the back
	c.Set("d", []float32{4})   // overflow evicts b, not a

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted after a was refreshed")
	}
	vec, ok := c.Get("a")
	if !ok {
		t.Fatal("expected refreshed a to survive")
	}
	if vec[0] != 1.5 {
		t.Errorf("expected refreshed value, got %v", vec)
	}
}

func TestNew_DefaultsApplied(t *testing.T) {
	c := New(0, 0)
	if c.maxEntries != DefaultMaxEntries {
		t.Errorf("maxEntries = %d, want %d", c.maxEntries, DefaultMaxEntries)
	}
	if c.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultTTL)
	}
}
