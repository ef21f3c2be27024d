package memocache

import (
	"fmt"
	"testing"
	"time"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name       string
		maxEntries int
		ttl        time.Duration
		wantErr    bool
	}{
		{"valid", 16, time.Minute, false},
		{"zero size", 0, time.Minute, true},
		{"negative size", -1, time.Minute, true},
		{"zero ttl", 16, 0, true},
		{"negative ttl", 16, -time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.maxEntries, tt.ttl)
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%d, %v) error = %v, wantErr %v", tt.maxEntries, tt.ttl, err, tt.wantErr)
			}
		})
	}
}

func TestCacheGetSet(t *testing.T) {
	c, err := New(8, time.Hour)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("Get() reported a hit for a missing key")
	}

	c.Set("k", "v1")
	if v, ok := c.Get("k"); !ok || v != "v1" {
		t.Errorf("Get() = %v, %v; want v1, true", v, ok)
	}

	c.Set("k", "v2")
	if v, _ := c.Get("k"); v != "v2" {
		t.Errorf("Get() after overwrite = %v, want v2", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d after overwrite, want 1", c.Len())
	}
}

func TestCacheExpiry(t *testing.T) {
	c, _ := New(8, 20*time.Millisecond)
	c.Set("k", "v")

	if _, ok := c.Get("k"); !ok {
		t.Fatal("Get() missed before TTL elapsed")
	}

	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("Get() hit after TTL elapsed")
	}
	// The expired read must have removed the entry, not just hidden it.
	if c.Len() != 0 {
		t.Errorf("Len() = %d after expired read, want 0", c.Len())
	}
}

func TestCacheNoSlidingExpiry(t *testing.T) {
	c, _ := New(8, 50*time.Millisecond)
	c.Set("k", "v")

	// A mid-lifetime read must not push the expiry out.
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("Get() missed before TTL elapsed")
	}

	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("read extended the entry's lifetime")
	}
}

func TestCacheEvictionBound(t *testing.T) {
	const maxEntries = 3
	c, _ := New(maxEntries, time.Hour)

	for i := 0; i < 6; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
		if c.Len() > maxEntries {
			t.Fatalf("Len() = %d after insert %d, exceeds bound %d", c.Len(), i, maxEntries)
		}
		// Distinct write times so expiry order is unambiguous.
		time.Sleep(2 * time.Millisecond)
	}

	// The earliest-expiring entries are gone, the newest survive.
	for i := 0; i < 3; i++ {
		if _, ok := c.Get(fmt.Sprintf("k%d", i)); ok {
			t.Errorf("k%d survived eviction, want evicted", i)
		}
	}
	for i := 3; i < 6; i++ {
		if _, ok := c.Get(fmt.Sprintf("k%d", i)); !ok {
			t.Errorf("k%d evicted, want present", i)
		}
	}
}

func TestCacheOverwriteDoesNotEvict(t *testing.T) {
	c, _ := New(2, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 3)

	if _, ok := c.Get("b"); !ok {
		t.Error("overwrite of existing key evicted an unrelated entry")
	}
	if v, _ := c.Get("a"); v != 3 {
		t.Errorf("Get(a) = %v, want 3", v)
	}
}

func TestCacheDelete(t *testing.T) {
	c, _ := New(8, time.Hour)
	c.Set("k", "v")
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("Get() hit after Delete()")
	}
	c.Delete("k") // deleting an absent key is a no-op
}
