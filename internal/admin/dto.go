// AngelaMos | 2026
// dto.go

package admin

import "time"

// StatsResponse is the dashboard payload: program counts plus the state of
// the process and its stores.
type StatsResponse struct {
	Program ProgramStats `json:"program"`
	System  SystemStats  `json:"system"`
}

type ProgramStats struct {
	Users         int            `json:"users"`
	ActiveUsers   int            `json:"active_users"`
	Roles         map[string]int `json:"roles"`
	Teams         int            `json:"teams"`
	CurrentSeason *string        `json:"current_season"`
}

type SystemStats struct {
	Database StoreStatus[DBPoolStats]    `json:"database"`
	Redis    StoreStatus[RedisPoolStats] `json:"redis"`
	Runtime  RuntimeStats                `json:"runtime"`
	// Jobs maps each scheduled job to its next run.
	Jobs map[string]time.Time `json:"jobs,omitempty"`
}

// StoreStatus pairs a ping result with pool counters. Stats is omitted when
// the store exposes none.
type StoreStatus[T any] struct {
	Healthy bool `json:"healthy"`
	Stats   *T   `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpen        int   `json:"max_open"`
	Open           int   `json:"open"`
	InUse          int   `json:"in_use"`
	Idle           int   `json:"idle"`
	Waits          int64 `json:"waits"`
	WaitedMillis   int64 `json:"waited_ms"`
	ClosedIdle     int64 `json:"closed_idle"`
	ClosedLifetime int64 `json:"closed_lifetime"`
}

type RedisPoolStats struct {
	Hits     uint32 `json:"hits"`
	Misses   uint32 `json:"misses"`
	Timeouts uint32 `json:"timeouts"`
	Total    uint32 `json:"total"`
	Idle     uint32 `json:"idle"`
	Stale    uint32 `json:"stale"`
}

type RuntimeStats struct {
	GoVersion     string `json:"go_version"`
	Goroutines    int    `json:"goroutines"`
	HeapAlloc     uint64 `json:"heap_alloc_bytes"`
	GCCycles      uint32 `json:"gc_cycles"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}
