package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestRedisCache(t *testing.T) {
	s := miniredis.RunT(t)

	c, err := NewRedisCache(s.Addr(), 0, time.Minute)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

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
}

func TestRedisCacheTTL(t *testing.T) {
	s := miniredis.RunT(t)

	c, err := NewRedisCache(s.Addr(), 0, time.Minute)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	key := Key("extract", "payload")
	if err := c.Set(key, []byte("value"), time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}

	s.FastForward(2 * time.Second)
	if _, found := c.Get(key); found {
		t.Error("entry must expire after its TTL")
	}
}

func TestRedisCacheClear(t *testing.T) {
	s := miniredis.RunT(t)

	c, err := NewRedisCache(s.Addr(), 0, time.Minute)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	c.Set(Key("extract", "a"), []byte("1"), 0)
	c.Set(Key("extract", "b"), []byte("2"), 0)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, found := c.Get(Key("extract", "a")); found {
		t.Error("Clear must remove namespaced keys")
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	if _, err := NewRedisCache("127.0.0.1:1", 0, time.Minute); err == nil {
		t.Error("NewRedisCache must fail when the ping fails")
	}
}
