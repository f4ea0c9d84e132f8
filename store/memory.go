package store

import (
	"fmt"
	"sync"
	"time"
)

// MemoryStore holds entries in process memory only. Unlike FileStore it is
// safe for concurrent use.
type MemoryStore struct {
	data map[string]Entry
	mu   sync.Mutex
	now  func() time.Time
	done chan struct{}
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	ms := &MemoryStore{
		data: make(map[string]Entry),
		now:  time.Now,
		done: make(chan struct{}),
	}

	// Background cleanup of expired entries
	go ms.cleanupLoop()

	return ms
}

// Close stops the background cleanup goroutine.
func (ms *MemoryStore) Close() error {
	close(ms.done)
	return nil
}

func (ms *MemoryStore) Add(key string, value any, ttl time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.data[key] = Entry{Value: value, Expiration: expirationFrom(ms.now(), ttl)}
	return nil
}

func (ms *MemoryStore) Update(key string, value any, ttl time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.data[key]; !exists {
		return nil
	}
	ms.data[key] = Entry{Value: value, Expiration: expirationFrom(ms.now(), ttl)}
	return nil
}

func (ms *MemoryStore) Get(key string) (any, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	entry, exists := ms.data[key]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	// Lazily drop expired entries on access
	if entry.ExpiredAt(ms.now()) {
		delete(ms.data, key)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	return entry.Value, nil
}

func (ms *MemoryStore) GetAll() (map[string]Entry, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	all := make(map[string]Entry)
	for key, entry := range ms.data {
		if entry.ExpiredAt(now) {
			delete(ms.data, key)
			continue
		}
		all[key] = entry
	}
	return all, nil
}

func (ms *MemoryStore) Exists(key string) bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	entry, exists := ms.data[key]
	if !exists {
		return false
	}

	if entry.ExpiredAt(ms.now()) {
		delete(ms.data, key)
		return false
	}

	return true
}

func (ms *MemoryStore) Remove(key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.data, key)
	return nil
}

func (ms *MemoryStore) RemoveAll() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.data = make(map[string]Entry)
	return nil
}

func (ms *MemoryStore) Expire(key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	entry, exists := ms.data[key]
	if !exists {
		return nil
	}
	exp := ms.now().Unix()
	entry.Expiration = &exp
	ms.data[key] = entry
	return nil
}

func (ms *MemoryStore) ExpireAll() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now().Unix()
	for key, entry := range ms.data {
		exp := now
		entry.Expiration = &exp
		ms.data[key] = entry
	}
	return nil
}

func (ms *MemoryStore) ExpiredDetails() (map[string]Entry, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	expired := make(map[string]Entry)
	for key, entry := range ms.data {
		if entry.ExpiredAt(now) {
			expired[key] = entry
		}
	}
	return expired, nil
}

func (ms *MemoryStore) ActiveDetails() (map[string]Entry, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	active := make(map[string]Entry)
	for key, entry := range ms.data {
		if !entry.ExpiredAt(now) {
			active[key] = entry
		}
	}
	return active, nil
}

func (ms *MemoryStore) CleanupExpired() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	for key, entry := range ms.data {
		if entry.ExpiredAt(now) {
			delete(ms.data, key)
		}
	}
	return nil
}

// Background cleanup of expired entries (runs every 5 minutes)
func (ms *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ms.CleanupExpired()
		case <-ms.done:
			return
		}
	}
}
