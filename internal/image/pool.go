package imagepkg

import (
	"errors"
	"fmt"
)

// Kind names the pool a reference was drawn from.
type Kind string

const (
	KindPhoto        Kind = "photo"
	KindIllustration Kind = "illustration"
)

// PoolConfig selects which pools a draw may use.
type PoolConfig struct {
	Photos        bool `json:"photos"`
	Illustrations bool `json:"illustrations"`
}

// ErrNoPoolEnabled is wrapped by every ConfigurationError.
var ErrNoPoolEnabled = errors.New("at least one image pool must be enabled")

// ConfigurationError reports an unusable pool configuration.
type ConfigurationError struct {
	Pools PoolConfig
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("image pools photos=%t illustrations=%t: %v", e.Pools.Photos, e.Pools.Illustrations, ErrNoPoolEnabled)
}

func (e *ConfigurationError) Unwrap() error { return ErrNoPoolEnabled }

// Validate returns a *ConfigurationError when no pool is enabled.
func (p PoolConfig) Validate() error {
	if !p.Photos && !p.Illustrations {
		return &ConfigurationError{Pools: p}
	}
	return nil
}

// Reference is one allocated image. Key identifies the image within a batch;
// URL is the key with a cache-busting suffix and is what clients fetch.
type Reference struct {
	Kind Kind   `json:"kind"`
	Key  string `json:"key"`
	URL  string `json:"url"`
}

// UsedSet holds the keys already handed out in one generation cycle.
// The zero value is ready to use.
type UsedSet struct {
	keys   map[string]Kind
	counts map[Kind]int
}

func NewUsedSet() *UsedSet {
	return &UsedSet{}
}

func (u *UsedSet) Has(key string) bool {
	_, ok := u.keys[key]
	return ok
}

// Add records key under kind. Adding a key twice is a no-op.
func (u *UsedSet) Add(kind Kind, key string) {
	if u.keys == nil {
		u.keys = make(map[string]Kind)
		u.counts = make(map[Kind]int)
	}
	if _, ok := u.keys[key]; ok {
		return
	}
	u.keys[key] = kind
	u.counts[kind]++
}

// Len is the number of distinct keys across all pools.
func (u *UsedSet) Len() int { return len(u.keys) }

// Count is the number of distinct keys recorded for one pool.
func (u *UsedSet) Count(kind Kind) int { return u.counts[kind] }

// Reset empties the set for a new batch.
func (u *UsedSet) Reset() {
	u.keys = nil
	u.counts = nil
}

// Keys returns a copy of the recorded keys in no particular order.
func (u *UsedSet) Keys() []string {
	out := make([]string, 0, len(u.keys))
	for k := range u.keys {
		out = append(out, k)
	}
	return out
}
