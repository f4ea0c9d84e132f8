package store

import "time"

// The package-level functions operate on a single process-wide FileStore
// bound to DefaultPath. Call Init to point it somewhere else.
var _defaultStore = NewFileStore(DefaultPath)

// Init rebinds the package-level store to the given backing file.
func Init(path string) {
	_defaultStore = NewFileStore(path)
}

// Default returns the package-level store.
func Default() *FileStore {
	return _defaultStore
}

func Add(key string, value any, ttl time.Duration) error {
	return _defaultStore.Add(key, value, ttl)
}

func Update(key string, value any, ttl time.Duration) error {
	return _defaultStore.Update(key, value, ttl)
}

func Get(key string) (any, error) {
	return _defaultStore.Get(key)
}

func GetAll() (map[string]Entry, error) {
	return _defaultStore.GetAll()
}

func Exists(key string) bool {
	return _defaultStore.Exists(key)
}

func Remove(key string) error {
	return _defaultStore.Remove(key)
}

func RemoveAll() error {
	return _defaultStore.RemoveAll()
}

func Expire(key string) error {
	return _defaultStore.Expire(key)
}

func ExpireAll() error {
	return _defaultStore.ExpireAll()
}

func ExpiredDetails() (map[string]Entry, error) {
	return _defaultStore.ExpiredDetails()
}

func ActiveDetails() (map[string]Entry, error) {
	return _defaultStore.ActiveDetails()
}

func CleanupExpired() error {
	return _defaultStore.CleanupExpired()
}
