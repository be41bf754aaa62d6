package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSearchKey(t *testing.T) {
	key := SearchKey("wikipedia", "berlin wall")

	if !strings.HasPrefix(key, "skeptic:v1:") {
		t.Errorf("key missing namespace prefix: %s", key)
	}
	if key != SearchKey("wikipedia", "berlin wall") {
		t.Error("identical inputs should produce identical keys")
	}
	if key == SearchKey("news", "berlin wall") {
		t.Error("different backends should produce different keys")
	}
	if key == SearchKey("wikipedia", "berlin airlift") {
		t.Error("different queries should produce different keys")
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("empty cache reported a hit")
	}

	if err := c.Set("key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, found := c.Get("key")
	if !found || string(got) != "value" {
		t.Errorf("Get = %q, %v", got, found)
	}

	if err := c.Delete("key"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, found := c.Get("key"); found {
		t.Error("deleted key still present")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("key", []byte("value"), 10*time.Millisecond); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get("key"); found {
		t.Error("expired key still present")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	key := SearchKey("wikipedia", "berlin wall")
	if err := c.Set(key, []byte(`[{"url":"https://a.example"}]`), time.Hour); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, found := c.Get(key)
	if !found {
		t.Fatal("stored key not found")
	}
	if string(got) != `[{"url":"https://a.example"}]` {
		t.Errorf("Get = %s", got)
	}

	// The filename must be filesystem-safe: colons flattened, .cache suffix.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 cache file, got %d", len(entries))
	}
	name := entries[0].Name()
	if strings.Contains(name, ":") || !strings.HasSuffix(name, ".cache") {
		t.Errorf("unexpected cache filename: %s", name)
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	if err := c.Set("key", []byte("value"), 10*time.Millisecond); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get("key"); found {
		t.Error("expired entry still served")
	}
	// Expired entries are removed on read.
	if _, err := os.Stat(filepath.Join(dir, "key.cache")); !os.IsNotExist(err) {
		t.Error("expired entry file not removed")
	}
}

func TestDiskCache_CorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	if err := os.WriteFile(filepath.Join(dir, "key.cache"), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, found := c.Get("key"); found {
		t.Error("corrupt entry should miss")
	}
}

func TestDiskCache_Clear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := NewDiskCache(dir, time.Hour)

	if err := c.Set("key", []byte("value"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, found := c.Get("key"); found {
		t.Error("cleared cache still serves entries")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Hour)

	if err := c.Set("key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	// A fresh layered cache over the same directory has a cold memory
	// layer; the first Get must come from disk and promote.
	fresh := NewLayeredCache(time.Minute, dir, time.Hour)
	got, found := fresh.Get("key")
	if !found || string(got) != "value" {
		t.Fatalf("disk-backed Get = %q, %v", got, found)
	}

	if _, found := fresh.memory.Get("key"); !found {
		t.Error("disk hit was not promoted to memory")
	}
}

func TestLayeredCache_Delete(t *testing.T) {
	c := NewLayeredCache(time.Minute, t.TempDir(), time.Hour)

	if err := c.Set("key", []byte("value"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete("key"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, found := c.Get("key"); found {
		t.Error("deleted key still present")
	}
}
