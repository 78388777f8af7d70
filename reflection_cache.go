package gowire

import (
	"reflect"
	"sync"
)

// reflectionCache caches owner resolution per function entry point.
// Accessors are typically declared once but resolved again during
// validation and wiring; the cache keeps repeated name parsing off those
// paths.
type reflectionCache struct {
	mu     sync.RWMutex
	owners map[uintptr]*ownerInfo
}

// newReflectionCache creates a new reflection cache.
func newReflectionCache() *reflectionCache {
	return &reflectionCache{
		owners: make(map[uintptr]*ownerInfo),
	}
}

// resolve returns the owning scope for fn, computing and caching it on
// first use. Resolution errors are not cached.
func (rc *reflectionCache) resolve(fn reflect.Value) (*ownerInfo, error) {
	key := fn.Pointer()

	// Fast path: check cache with read lock
	rc.mu.RLock()
	info, exists := rc.owners[key]
	rc.mu.RUnlock()
	if exists {
		return info, nil
	}

	// Slow path: compute and cache with write lock
	rc.mu.Lock()
	defer rc.mu.Unlock()

	// Double-check after acquiring write lock
	info, exists = rc.owners[key]
	if exists {
		return info, nil
	}

	info, err := resolveOwner(fn)
	if err != nil {
		return nil, err
	}
	rc.owners[key] = info
	return info, nil
}

// clear clears all cached data.
func (rc *reflectionCache) clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.owners = make(map[uintptr]*ownerInfo)
}
