package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/velocitatem/concordia/internal/model"
)

func TestKey(t *testing.T) {
	k := Key("extract", "some prompt text")
	if !strings.HasPrefix(k, "concordia:extract:") {
		t.Errorf("Key() = %q, want concordia:extract: prefix", k)
	}
	if len(k) != len("concordia:extract:")+64 {
		t.Errorf("Key() hash length = %d, want 64 hex chars", len(k)-len("concordia:extract:"))
	}
	if k != Key("extract", "some prompt text") {
		t.Error("Key() must be deterministic")
	}
	if k == Key("extract", "other prompt") {
		t.Error("different payloads must produce different keys")
	}
	if k == Key("merge", "some prompt text") {
		t.Error("different namespaces must produce different keys")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		backend string
		wantErr bool
	}{
		{"", false},
		{"memory", false},
		{"disk", false},
		{"layered", false},
		{"memcached", true},
	}
	for _, tt := range tests {
		cfg := model.CacheConfig{Backend: tt.backend, Dir: t.TempDir(), TTL: time.Minute}
		_, err := New(cfg)
		if (err != nil) != tt.wantErr {
			t.Errorf("New(backend=%q) error = %v, wantErr %v", tt.backend, err, tt.wantErr)
		}
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	key := Key("extract", "payload")

	if _, found := c.Get(key); found {
		t.Error("Get() on empty cache should miss")
	}
	if err := c.Set(key, []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found := c.Get(key)
	if !found || string(val) != "value" {
		t.Errorf("Get() = %q, %v; want value, true", val, found)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("Get() after Delete should miss")
	}

	c.Set(key, []byte("value"), 0)
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("Get() after Clear should miss")
	}
}

func TestDiskCache(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	key := Key("extract", "payload")

	if err := c.Set(key, []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found := c.Get(key)
	if !found || string(val) != "value" {
		t.Errorf("Get() = %q, %v; want value, true", val, found)
	}

	// a second cache over the same directory sees the entry
	c2 := NewDiskCache(c.dir, time.Minute)
	if _, found := c2.Get(key); !found {
		t.Error("entry must survive across cache instances")
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	key := Key("extract", "payload")

	if err := c.Set(key, []byte("value"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, found := c.Get(key); found {
		t.Error("expired entry must miss")
	}
}

func TestLayeredCache(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)
	key := Key("extract", "payload")

	if err := c.Set(key, []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// entry reaches the disk layer, so a fresh layered cache promotes it
	c2 := NewLayeredCache(time.Minute, dir, time.Minute)
	val, found := c2.Get(key)
	if !found || string(val) != "value" {
		t.Errorf("Get() = %q, %v; want value, true", val, found)
	}
	if _, found := c2.memory.Get(key); !found {
		t.Error("disk hit must be promoted to the memory layer")
	}
}
