package cache

import (
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	t.Parallel()
	c, err := New("memory", ProviderConfig{Size: 4, TTL: time.Minute})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache returned a value")
	}

	c.Set("file:111", []byte("payload"))
	got, ok := c.Get("file:111")
	if !ok {
		t.Fatal("Get after Set returned no value")
	}
	if string(got) != "payload" {
		t.Errorf("Get = %q, want %q", got, "payload")
	}
	if !c.Contains("file:111") {
		t.Error("Contains = false for present key")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestMemoryCache_Overwrite(t *testing.T) {
	t.Parallel()
	c, err := New("memory", ProviderConfig{Size: 4, TTL: time.Minute})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	c.Set("k", []byte("v1"))
	c.Set("k", []byte("v2"))

	got, _ := c.Get("k")
	if string(got) != "v2" {
		t.Errorf("Get = %q, want overwritten value", got)
	}
}

func TestMemoryCache_LRUEviction(t *testing.T) {
	t.Parallel()
	c, err := New("memory", ProviderConfig{Size: 2, TTL: time.Minute})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Set("c", []byte("3"))

	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2 after eviction", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry survived beyond capacity")
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	t.Parallel()
	if _, err := New("bogus", ProviderConfig{}); err == nil {
		t.Error("New with unknown provider did not error")
	}
}

func TestNew_InstrumentedGroupCountsHitsAndMisses(t *testing.T) {
	t.Parallel()
	c, err := New("memory", ProviderConfig{Size: 4, TTL: time.Minute, Group: "test-group"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	hitsBefore := counterValue(t, HitsTotal, "test-group")
	missesBefore := counterValue(t, MissesTotal, "test-group")

	c.Set("k", []byte("v"))
	c.Get("k")
	c.Get("absent")

	if got := counterValue(t, HitsTotal, "test-group"); got != hitsBefore+1 {
		t.Errorf("hits diff = %.0f, want 1", got-hitsBefore)
	}
	if got := counterValue(t, MissesTotal, "test-group"); got != missesBefore+1 {
		t.Errorf("misses diff = %.0f, want 1", got-missesBefore)
	}
}
