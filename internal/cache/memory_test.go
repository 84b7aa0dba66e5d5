package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestTTL_GetSet(t *testing.T) {
	c := NewTTL[string](8, time.Minute)
	defer c.Dispose()

	if _, found := c.Get("missing"); found {
		t.Error("expected miss for unknown key")
	}

	c.Set("a", "alpha", 0)
	val, found := c.Get("a")
	if !found {
		t.Fatal("expected hit for key a")
	}
	if val != "alpha" {
		t.Errorf("expected alpha, got %q", val)
	}
	if !c.Has("a") {
		t.Error("Has should report key a")
	}
}

func TestTTL_Expiry(t *testing.T) {
	c := NewTTL[int](8, time.Minute)
	defer c.Dispose()

	c.Set("short", 42, 10*time.Millisecond)
	if _, found := c.Get("short"); !found {
		t.Fatal("entry should be live before TTL")
	}

	time.Sleep(20 * time.Millisecond)
	if _, found := c.Get("short"); found {
		t.Error("entry should have expired")
	}
}

func TestTTL_EvictsOldestFirst(t *testing.T) {
	c := NewTTL[int](3, time.Minute)
	defer c.Dispose()

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), i, 0)
	}

	// Fourth insert must evict k0, the oldest
	c.Set("k3", 3, 0)

	if c.Has("k0") {
		t.Error("oldest entry k0 should have been evicted")
	}
	for _, key := range []string{"k1", "k2", "k3"} {
		if !c.Has(key) {
			t.Errorf("entry %s should survive eviction", key)
		}
	}
}

func TestTTL_UpdateDoesNotEvict(t *testing.T) {
	c := NewTTL[int](2, time.Minute)
	defer c.Dispose()

	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Set("a", 10, 0) // update, not insert

	if !c.Has("b") {
		t.Error("updating an existing key must not evict")
	}
	if val, _ := c.Get("a"); val != 10 {
		t.Errorf("expected updated value 10, got %d", val)
	}
}

func TestTTL_Stats(t *testing.T) {
	c := NewTTL[string](8, time.Minute)
	defer c.Dispose()

	c.Set("a", "x", 0)
	c.Get("a")       // hit
	c.Get("missing") // miss

	stats := c.Stats()
	if stats.Size != 1 {
		t.Errorf("expected size 1, got %d", stats.Size)
	}
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected 1 hit / 1 miss, got %d/%d", stats.Hits, stats.Misses)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("expected hit rate 0.5, got %f", stats.HitRate)
	}
}

func TestTTL_StatsSizeExcludesExpired(t *testing.T) {
	c := NewTTL[int](8, time.Minute)
	defer c.Dispose()

	c.Set("live", 1, 0)
	c.Set("short", 2, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	// The backing sweeper only runs every few minutes; size must not
	// count the expired entry in the meantime.
	if size := c.Stats().Size; size != 1 {
		t.Errorf("expected size 1 after expiry, got %d", size)
	}
}

func TestTTL_ClearAndDispose(t *testing.T) {
	c := NewTTL[string](8, time.Minute)

	c.Set("a", "x", 0)
	c.Clear()
	if c.Has("a") {
		t.Error("Clear should remove all entries")
	}

	c.Set("b", "y", 0)
	c.Dispose()
	if c.Has("b") {
		t.Error("Dispose should empty the cache")
	}
	c.Set("c", "z", 0)
	if c.Has("c") {
		t.Error("a disposed cache must reject writes")
	}
}
