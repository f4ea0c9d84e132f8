package store

import "time"

// Entry is a stored value plus an optional expiration instant in epoch
// seconds. A nil expiration means the entry never expires; an expiration of
// 0 is treated exactly the same as nil, not as "expired at the epoch".
type Entry struct {
	Value      any    `json:"value" yaml:"value"`
	Expiration *int64 `json:"expiration" yaml:"expiration"`
}

// ExpiredAt reports whether the entry counts as expired at the given instant.
func (e Entry) ExpiredAt(now time.Time) bool {
	return e.Expiration != nil && *e.Expiration != 0 && now.Unix() >= *e.Expiration
}

// expirationFrom converts a TTL into an absolute expiration instant.
// Zero or negative TTLs mean no expiration.
func expirationFrom(now time.Time, ttl time.Duration) *int64 {
	if ttl <= 0 {
		return nil
	}
	exp := now.Add(ttl).Unix()
	return &exp
}
