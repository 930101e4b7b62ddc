package model

import "time"

// LogEntry is a single ingested log record. It is the canonical type for
// storage, the query API, and the live broadcast channel.
type LogEntry struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Level     string    `json:"level"` // DEBUG/INFO/WARN/ERROR/FATAL
	Metadata  string    `json:"metadata,omitempty"`
	IPAddress string    `json:"ip_address"`
	Timestamp int64     `json:"timestamp"` // epoch milliseconds
	CreatedAt time.Time `json:"created_at"`
}

// APIKey is a provisioned bearer secret for log submitters.
// Key is only meaningful to the caller at creation time.
type APIKey struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// WhitelistEntry is an IPv4 address exempt from key-based authorization.
type WhitelistEntry struct {
	ID          int64     `json:"id"`
	IPAddress   string    `json:"ip_address"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// LogFilter holds optional, conjunctively combined query filters.
// Zero values mean "no constraint".
type LogFilter struct {
	Level   string // exact match
	Search  string // case-sensitive substring over message OR metadata
	StartMs int64  // inclusive lower timestamp bound
	EndMs   int64  // inclusive upper timestamp bound
	Limit   int    // defaults to 50
	Offset  int    // defaults to 0
}
