package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "frame"); err != nil || hit {
		t.Fatalf("Get on empty cache = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "frame", []byte("<svg/>"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "frame")
	if err != nil || !hit {
		t.Fatalf("Get after Set = hit %v, err %v", hit, err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("Get = %q, want %q", data, "<svg/>")
	}

	if err := c.Delete(ctx, "frame"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "frame"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "frame"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheStatsAndClear(t *testing.T) {
	ctx := context.Background()
	c, err := OpenFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenFileCache: %v", err)
	}

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, key, []byte("<svg/>"), 0); err != nil {
			t.Fatalf("Set(%q): %v", key, err)
		}
	}
	entries, size, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if entries != 3 || size == 0 {
		t.Errorf("Stats = %d entries, %d bytes; want 3 entries", entries, size)
	}

	removed, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 3 {
		t.Errorf("Clear removed %d, want 3", removed)
	}
	if entries, _, _ := c.Stats(); entries != 0 {
		t.Errorf("Stats after Clear = %d entries, want 0", entries)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get after Clear should miss")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	dot := []byte(`strict digraph "G" {}`)

	svg := k.RenderKey(dot, RenderKeyOpts{Engine: "dot", Format: "svg"})
	if svg != k.RenderKey(dot, RenderKeyOpts{Engine: "dot", Format: "svg"}) {
		t.Error("RenderKey should be deterministic")
	}
	if svg == k.RenderKey(dot, RenderKeyOpts{Engine: "neato", Format: "svg"}) {
		t.Error("different engines should produce different keys")
	}
	if svg == k.RenderKey(dot, RenderKeyOpts{Engine: "dot", Format: "plain"}) {
		t.Error("different formats should produce different keys")
	}
	if svg == k.RenderKey([]byte(`strict digraph "H" {}`), RenderKeyOpts{Engine: "dot", Format: "svg"}) {
		t.Error("different sources should produce different keys")
	}
	if svg[:7] != "render:" {
		t.Errorf("RenderKey should be prefixed: %s", svg)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "TDStep:")
	dot := []byte("digraph {}")
	opts := RenderKeyOpts{Engine: "dot", Format: "svg"}

	if got, want := scoped.RenderKey(dot, opts), "TDStep:"+inner.RenderKey(dot, opts); got != want {
		t.Errorf("ScopedKeyer RenderKey = %s, want %s", got, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	dot := []byte("digraph {}")
	want := "prefix:" + NewDefaultKeyer().RenderKey(dot, RenderKeyOpts{})
	if got := scoped.RenderKey(dot, RenderKeyOpts{}); got != want {
		t.Errorf("Unexpected key with nil inner: %s", got)
	}
}

func TestFileCacheConcurrentSet(t *testing.T) {
	ctx := context.Background()
	c, err := OpenFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenFileCache: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.Set(ctx, "frame", []byte("<svg/>"), 0); err != nil {
				t.Errorf("Set: %v", err)
			}
		}()
	}
	wg.Wait()

	data, hit, err := c.Get(ctx, "frame")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Fatalf("Get = %q, %v, %v; want <svg/>, true, nil", data, hit, err)
	}
	if entries, _, _ := c.Stats(); entries != 1 {
		t.Errorf("Stats = %d entries, want 1", entries)
	}
}
