// Package cache stores extraction results keyed by document content so a
// rerun never pays for an LLM call twice.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/velocitatem/concordia/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a namespaced cache key from a payload hash. The namespace
// separates extraction stages so a prompt change invalidates only its own
// entries.
func Key(namespace, payload string) string {
	hash := sha256.Sum256([]byte(payload))
	return "concordia:" + namespace + ":" + hex.EncodeToString(hash[:])
}

// New builds the backend named in the configuration. Unknown backends are
// an error rather than a silent fallback.
func New(cfg model.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryCache(cfg.TTL, 10*time.Minute), nil
	case "disk":
		return NewDiskCache(cfg.Dir, cfg.TTL), nil
	case "layered":
		return NewLayeredCache(cfg.TTL, cfg.Dir, cfg.TTL), nil
	case "redis":
		return NewRedisCache(cfg.RedisAddr, cfg.RedisDB, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", cfg.Backend)
	}
}
