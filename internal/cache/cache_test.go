package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setupTestCache(t *testing.T, ttl time.Duration) (*Cache, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := NewCacheAt(dir, ttl)
	if err != nil {
		t.Fatalf("NewCacheAt() error = %v", err)
	}
	return c, dir
}

func TestNewCacheAt(t *testing.T) {
	// Arrange
	dir := filepath.Join(t.TempDir(), "nested", "cache")

	// Act
	c, err := NewCacheAt(dir, time.Hour)

	// Assert
	if err != nil {
		t.Fatalf("NewCacheAt() error = %v", err)
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %s, want %s", c.Dir(), dir)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache directory %s was not created: %v", dir, err)
	}
}

func TestCache_GenerateHash(t *testing.T) {
	c := &Cache{}

	h1 := c.GenerateHash("http://api/analyze", "diff --git a/x b/x")
	h2 := c.GenerateHash("http://api/analyze", "diff --git a/x b/x")
	h3 := c.GenerateHash("http://other/analyze", "diff --git a/x b/x")
	h4 := c.GenerateHash("http://api/analyzediff", " --git a/x b/x")

	if h1 != h2 {
		t.Error("GenerateHash() is not deterministic")
	}
	if h1 == h3 {
		t.Error("GenerateHash() ignores the endpoint")
	}
	if h1 == h4 {
		t.Error("GenerateHash() collides when the part boundary moves")
	}
	if len(h1) != 64 {
		t.Errorf("GenerateHash() length = %d, want 64", len(h1))
	}
}

func TestCache_SetAndGet(t *testing.T) {
	// Arrange
	c, _ := setupTestCache(t, time.Hour)
	hash := c.GenerateHash("url", "diff")
	want := map[string]string{"intent": "Intent: Feature\nMessage: adds cache"}

	// Act
	if err := c.Set(hash, want); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	resp, found, err := c.Get(hash)

	// Assert
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("Get() found = false, want true")
	}
	var got map[string]string
	if err := json.Unmarshal(resp, &got); err != nil {
		t.Fatalf("cached response is not JSON: %v", err)
	}
	if got["intent"] != want["intent"] {
		t.Errorf("Get() intent = %q, want %q", got["intent"], want["intent"])
	}
	if c.Count() != 1 {
		t.Errorf("Count() = %d, want 1", c.Count())
	}
}

func TestCache_Get(t *testing.T) {
	t.Run("miss", func(t *testing.T) {
		c, _ := setupTestCache(t, time.Hour)

		_, found, err := c.Get("missing")

		if err != nil || found {
			t.Errorf("Get() = (found %v, err %v), want a clean miss", found, err)
		}
	})

	t.Run("expired entry is removed", func(t *testing.T) {
		c, dir := setupTestCache(t, 10*time.Millisecond)
		_ = c.Set("old", "value")
		time.Sleep(20 * time.Millisecond)

		_, found, err := c.Get("old")

		if err != nil || found {
			t.Errorf("Get() = (found %v, err %v), want a clean miss", found, err)
		}
		if _, err := os.Stat(filepath.Join(dir, "old.json")); !os.IsNotExist(err) {
			t.Error("expired cache file was not deleted")
		}
	})

	t.Run("corrupt entry is an error", func(t *testing.T) {
		c, dir := setupTestCache(t, time.Hour)
		_ = os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0644)

		_, found, err := c.Get("bad")

		if err == nil {
			t.Error("Get() error = nil, want decode error")
		}
		if found {
			t.Error("Get() found = true for a corrupt entry")
		}
	})
}

func TestCache_CleanExpired(t *testing.T) {
	// Arrange
	c, dir := setupTestCache(t, time.Hour)
	_ = c.Set("fresh", "data")
	_ = c.Set("stale", "data")
	stale := filepath.Join(dir, "stale.json")
	past := time.Now().Add(-2 * time.Hour)
	_ = os.Chtimes(stale, past, past)

	// Act
	if err := c.CleanExpired(); err != nil {
		t.Fatalf("CleanExpired() error = %v", err)
	}

	// Assert
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale entry survived CleanExpired()")
	}
	if _, err := os.Stat(filepath.Join(dir, "fresh.json")); err != nil {
		t.Error("fresh entry was removed")
	}
	if c.Count() != 1 {
		t.Errorf("Count() = %d, want 1", c.Count())
	}
}

func TestCache_Clean(t *testing.T) {
	c, dir := setupTestCache(t, time.Hour)
	_ = c.Set("a", "data")
	_ = c.Set("b", "data")

	if err := c.Clean(); err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("cache directory was not removed")
	}
	if c.Count() != 0 {
		t.Errorf("Count() after Clean() = %d, want 0", c.Count())
	}
}
