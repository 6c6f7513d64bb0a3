package model

import "time"

const (
	CacheStatusCached           = "cached"
	CacheStatusNotCached        = "not_cached"
	CacheStatusRedisUnavailable = "redis_unavailable"
)

type CacheStatus struct {
	Status     string `json:"status"`
	TTLSeconds int64  `json:"ttl_seconds,omitempty"`
	TTLHuman   string `json:"ttl_human,omitempty"`
	Count      int    `json:"count,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
	Source     string `json:"source,omitempty"`
	Version    string `json:"version,omitempty"`
}

type AnnualReturnsCacheStatus struct {
	CacheStatus    CacheStatus
	IsFresh        bool
	Recommendation string
}

// CacheSnapshot is the last polled state of one backend cache.
type CacheSnapshot struct {
	Status         *CacheStatus
	IsFresh        bool
	Recommendation string
	Err            string
	LastUpdated    time.Time
}
