package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the backing file used by the package-level store.
const DefaultPath = ".env"

// FileStore keeps the whole mapping in a single flat file and fully rewrites
// it on every operation. The encoding follows the file extension: .yaml/.yml
// is YAML, anything else is pretty-printed JSON with a trailing newline.
//
// FileStore is NOT safe for concurrent use. There is no locking and no
// atomic rename, so overlapping callers can overwrite each other's writes or
// observe a half-written file. Treat it as single-writer, low-frequency
// storage.
type FileStore struct {
	path   string
	data   map[string]Entry
	logger *zap.Logger
	now    func() time.Time
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return NewFileStoreWithLogger(path, nil)
}

func NewFileStoreWithLogger(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{
		path:   path,
		data:   make(map[string]Entry),
		logger: logger,
		now:    time.Now,
	}
}

// Load re-reads the backing file, sweeps expired entries and persists the
// result. A missing or unparseable file starts the store empty rather than
// failing.
func (fs *FileStore) Load() error {
	fs.data = make(map[string]Entry)

	raw, err := os.ReadFile(fs.path)
	switch {
	case err == nil:
		if derr := fs.decode(raw, &fs.data); derr != nil {
			fs.logger.Warn("unparseable backing file, starting empty",
				zap.String("path", fs.path), zap.Error(derr))
			fs.data = make(map[string]Entry)
		}
	case errors.Is(err, os.ErrNotExist):
		// First use, nothing on disk yet
	default:
		fs.logger.Warn("unreadable backing file, starting empty",
			zap.String("path", fs.path), zap.Error(err))
	}

	now := fs.now()
	swept := 0
	for key, entry := range fs.data {
		if entry.ExpiredAt(now) {
			delete(fs.data, key)
			swept++
		}
	}
	if swept > 0 {
		fs.logger.Debug("swept expired entries",
			zap.String("path", fs.path), zap.Int("count", swept))
	}

	return fs.persist()
}

func (fs *FileStore) Add(key string, value any, ttl time.Duration) error {
	if err := fs.Load(); err != nil {
		return err
	}
	fs.data[key] = Entry{Value: value, Expiration: expirationFrom(fs.now(), ttl)}
	return fs.persist()
}

func (fs *FileStore) Update(key string, value any, ttl time.Duration) error {
	if err := fs.Load(); err != nil {
		return err
	}
	if _, exists := fs.data[key]; !exists {
		return nil
	}
	fs.data[key] = Entry{Value: value, Expiration: expirationFrom(fs.now(), ttl)}
	return fs.persist()
}

func (fs *FileStore) Get(key string) (any, error) {
	if err := fs.Load(); err != nil {
		return nil, err
	}
	entry, exists := fs.data[key]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return entry.Value, nil
}

func (fs *FileStore) GetAll() (map[string]Entry, error) {
	if err := fs.Load(); err != nil {
		return nil, err
	}
	all := make(map[string]Entry, len(fs.data))
	for key, entry := range fs.data {
		all[key] = entry
	}
	return all, nil
}

func (fs *FileStore) Exists(key string) bool {
	if err := fs.Load(); err != nil {
		return false
	}
	_, exists := fs.data[key]
	return exists
}

func (fs *FileStore) Remove(key string) error {
	if err := fs.Load(); err != nil {
		return err
	}
	delete(fs.data, key)
	return fs.persist()
}

// RemoveAll clears the whole store. It acts on current memory without
// re-reading the file first.
func (fs *FileStore) RemoveAll() error {
	fs.data = make(map[string]Entry)
	return fs.persist()
}

// Expire marks an existing key as expired as of now. It acts on current
// memory without re-reading the file first; missing keys are a no-op.
func (fs *FileStore) Expire(key string) error {
	entry, exists := fs.data[key]
	if !exists {
		return nil
	}
	exp := fs.now().Unix()
	entry.Expiration = &exp
	fs.data[key] = entry
	return fs.persist()
}

// ExpireAll marks every current entry as expired as of now, without
// re-reading the file first.
func (fs *FileStore) ExpireAll() error {
	now := fs.now().Unix()
	for key, entry := range fs.data {
		exp := now
		entry.Expiration = &exp
		fs.data[key] = entry
	}
	return fs.persist()
}

func (fs *FileStore) ExpiredDetails() (map[string]Entry, error) {
	now := fs.now()
	expired := make(map[string]Entry)
	for key, entry := range fs.data {
		if entry.ExpiredAt(now) {
			expired[key] = entry
		}
	}
	return expired, nil
}

func (fs *FileStore) ActiveDetails() (map[string]Entry, error) {
	now := fs.now()
	active := make(map[string]Entry)
	for key, entry := range fs.data {
		if !entry.ExpiredAt(now) {
			active[key] = entry
		}
	}
	return active, nil
}

// CleanupExpired deletes every currently-expired entry and persists,
// without re-reading the file first.
func (fs *FileStore) CleanupExpired() error {
	now := fs.now()
	for key, entry := range fs.data {
		if entry.ExpiredAt(now) {
			delete(fs.data, key)
		}
	}
	return fs.persist()
}

// persist rewrites the backing file from the in-memory mapping.
func (fs *FileStore) persist() error {
	raw, err := fs.encode(fs.data)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	if err := os.WriteFile(fs.path, raw, 0644); err != nil {
		return fmt.Errorf("write %s: %w", fs.path, err)
	}
	return nil
}

func (fs *FileStore) encode(data map[string]Entry) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(fs.path)) {
	case ".yaml", ".yml":
		return yaml.Marshal(data)
	default:
		raw, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(raw, '\n'), nil
	}
}

func (fs *FileStore) decode(raw []byte, into *map[string]Entry) error {
	switch strings.ToLower(filepath.Ext(fs.path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(raw, into)
	default:
		return json.Unmarshal(raw, into)
	}
}
