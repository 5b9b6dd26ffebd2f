// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(ttl time.Duration, maxEntries int) (*Cache[string], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[string](ttl, maxEntries)
	c.SetClock(clock.Now)
	return c, clock
}

func TestCache_GetSet(t *testing.T) {
	c, _ := newTestCache(time.Minute, 0)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) ok = true, want false")
	}
	c.Set("k", "v1")
	if got, ok := c.Get("k"); !ok || got != "v1" {
		t.Errorf("Get(k) = %q, %v, want v1, true", got, ok)
	}
	c.Set("k", "v2")
	if got, _ := c.Get("k"); got != "v2" {
		t.Errorf("Get(k) after overwrite = %q, want v2", got)
	}

	stats := c.GetStats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.Keys != 1 {
		t.Errorf("stats = %+v, want 2 hits, 1 miss, 1 key", stats)
	}
}

func TestCache_Expiry(t *testing.T) {
	c, clock := newTestCache(time.Minute, 0)
	c.Set("k", "v")

	clock.Advance(59 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Error("entry expired before its TTL")
	}

	clock.Advance(time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("entry still served at its TTL")
	}
	if stats := c.GetStats(); stats.Keys != 0 || stats.Evictions != 1 {
		t.Errorf("stats = %+v, want expired key evicted", stats)
	}
}

func TestCache_Bounded(t *testing.T) {
	tests := []struct {
		name      string
		advance   time.Duration
		wantKept  []string
		wantGone  []string
		wantEvict int64
	}{
		{
			name:      "evicts entry closest to expiry",
			advance:   0,
			wantKept:  []string{"b", "c", "d"},
			wantGone:  []string{"a"},
			wantEvict: 1,
		},
		{
			name:      "sweeps expired entries first",
			advance:   2 * time.Minute,
			wantKept:  []string{"d"},
			wantGone:  []string{"a", "b", "c"},
			wantEvict: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, clock := newTestCache(time.Minute, 3)
			for _, k := range []string{"a", "b", "c"} {
				c.Set(k, k)
				clock.Advance(time.Millisecond)
			}
			clock.Advance(tt.advance)
			c.Set("d", "d")

			for _, k := range tt.wantKept {
				if _, ok := c.Get(k); !ok {
					t.Errorf("Get(%s) missing, want kept", k)
				}
			}
			for _, k := range tt.wantGone {
				if _, ok := c.Get(k); ok {
					t.Errorf("Get(%s) present, want evicted", k)
				}
			}
			if got := c.GetStats().Evictions; got != tt.wantEvict {
				t.Errorf("Evictions = %d, want %d", got, tt.wantEvict)
			}
		})
	}
}

func TestCache_DeleteClear(t *testing.T) {
	c, _ := newTestCache(time.Minute, 0)
	c.Set("a", "1")
	c.Set("b", "2")

	c.Delete("a")
	c.Delete("never-set")
	if _, ok := c.Get("a"); ok {
		t.Error("Get(a) after Delete ok = true")
	}

	c.Clear()
	if stats := c.GetStats(); stats.Keys != 0 || stats.Evictions != 2 {
		t.Errorf("stats = %+v, want 0 keys, 2 evictions", stats)
	}
}

func TestCache_HitRate(t *testing.T) {
	c, _ := newTestCache(time.Minute, 0)
	if got := c.HitRate(); got != 0 {
		t.Errorf("HitRate() on empty cache = %v, want 0", got)
	}
	c.Set("k", "v")
	c.Get("k")
	c.Get("k")
	c.Get("k")
	c.Get("other")
	if got := c.HitRate(); got != 75 {
		t.Errorf("HitRate() = %v, want 75", got)
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := New[int](time.Minute, 50)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*200+i)%80)
				c.Set(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()
	if keys := c.GetStats().Keys; keys > 50 {
		t.Errorf("Keys = %d, want <= 50", keys)
	}
}

func TestGenerateKey(t *testing.T) {
	type query struct {
		Subject string
		Limit   int
	}
	a := GenerateKey("external", query{"Physics", 10})
	b := GenerateKey("external", query{"Physics", 10})
	c := GenerateKey("external", query{"Physics", 11})
	d := GenerateKey("uploaded", query{"Physics", 10})

	if a != b {
		t.Errorf("same params gave %q and %q", a, b)
	}
	if a == c || a == d {
		t.Error("different params or prefix produced the same key")
	}
}
