package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Record is a row in the entries table. Values are stored as JSON text.
type Record struct {
	Key        string `gorm:"primaryKey"`
	Value      string
	Expiration *int64 `gorm:"index"`
}

// DatabaseStore keeps entries in an embedded SQLite file. It trades the
// flat-file format for real upserts and indexed expiration cleanup.
type DatabaseStore struct {
	db  *gorm.DB
	now func() time.Time
}

var _ Store = (*DatabaseStore)(nil)

func NewDatabaseStore(path string) (*DatabaseStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Auto-create table if needed
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &DatabaseStore{db: db, now: time.Now}, nil
}

// activeCond matches rows that have not expired: no expiration, the
// 0-means-never sentinel, or an expiration still in the future.
const activeCond = "expiration IS NULL OR expiration = 0 OR expiration > ?"

// expiredCond is the exact complement of activeCond.
const expiredCond = "expiration IS NOT NULL AND expiration <> 0 AND expiration <= ?"

func (ds *DatabaseStore) Add(key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	record := Record{
		Key:        key,
		Value:      string(raw),
		Expiration: expirationFrom(ds.now(), ttl),
	}

	// Upsert (insert or update)
	return ds.db.Save(&record).Error
}

func (ds *DatabaseStore) Update(key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	// Updates touches nothing when the key is absent, matching the
	// silent no-op contract.
	return ds.db.Model(&Record{}).Where("key = ?", key).Updates(map[string]any{
		"value":      string(raw),
		"expiration": expirationFrom(ds.now(), ttl),
	}).Error
}

func (ds *DatabaseStore) Get(key string) (any, error) {
	var record Record

	result := ds.db.Where("key = ?", key).Where(activeCond, ds.now().Unix()).First(&record)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if result.Error != nil {
		return nil, result.Error
	}

	var value any
	if err := json.Unmarshal([]byte(record.Value), &value); err != nil {
		return nil, fmt.Errorf("decode value for %s: %w", key, err)
	}
	return value, nil
}

func (ds *DatabaseStore) GetAll() (map[string]Entry, error) {
	if err := ds.CleanupExpired(); err != nil {
		return nil, err
	}

	var records []Record
	if err := ds.db.Find(&records).Error; err != nil {
		return nil, err
	}
	return recordsToEntries(records)
}

func (ds *DatabaseStore) Exists(key string) bool {
	var count int64
	ds.db.Model(&Record{}).
		Where("key = ?", key).
		Where(activeCond, ds.now().Unix()).
		Count(&count)

	return count > 0
}

func (ds *DatabaseStore) Remove(key string) error {
	return ds.db.Delete(&Record{}, "key = ?", key).Error
}

func (ds *DatabaseStore) RemoveAll() error {
	return ds.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Record{}).Error
}

func (ds *DatabaseStore) Expire(key string) error {
	return ds.db.Model(&Record{}).Where("key = ?", key).
		Update("expiration", ds.now().Unix()).Error
}

func (ds *DatabaseStore) ExpireAll() error {
	return ds.db.Model(&Record{}).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Update("expiration", ds.now().Unix()).Error
}

func (ds *DatabaseStore) ExpiredDetails() (map[string]Entry, error) {
	var records []Record
	if err := ds.db.Where(expiredCond, ds.now().Unix()).Find(&records).Error; err != nil {
		return nil, err
	}
	return recordsToEntries(records)
}

func (ds *DatabaseStore) ActiveDetails() (map[string]Entry, error) {
	var records []Record
	if err := ds.db.Where(activeCond, ds.now().Unix()).Find(&records).Error; err != nil {
		return nil, err
	}
	return recordsToEntries(records)
}

func (ds *DatabaseStore) CleanupExpired() error {
	return ds.db.Delete(&Record{}, expiredCond, ds.now().Unix()).Error
}

// Close closes the underlying database connection.
func (ds *DatabaseStore) Close() error {
	sqlDB, err := ds.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func recordsToEntries(records []Record) (map[string]Entry, error) {
	entries := make(map[string]Entry, len(records))
	for _, record := range records {
		var value any
		if err := json.Unmarshal([]byte(record.Value), &value); err != nil {
			return nil, fmt.Errorf("decode value for %s: %w", record.Key, err)
		}
		entries[record.Key] = Entry{Value: value, Expiration: record.Expiration}
	}
	return entries, nil
}
