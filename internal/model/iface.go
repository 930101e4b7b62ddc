package model

// LogStore is the persistence contract for log entries.
type LogStore interface {
	// InsertLog persists an entry and returns the stored record with its
	// assigned id and creation time.
	InsertLog(entry *LogEntry) (*LogEntry, error)
	// QueryLogs returns a page of matching entries ordered newest first,
	// plus the total match count before pagination.
	QueryLogs(filter LogFilter) ([]LogEntry, int64, error)
	// LogByID returns the entry with the given id, or nil when absent.
	LogByID(id int64) (*LogEntry, error)
	// CountLogs returns the total number of stored entries.
	CountLogs() (int64, error)
	// DeleteLogsBefore removes entries with timestamp strictly below cutoffMs.
	DeleteLogsBefore(cutoffMs int64) (int64, error)
	// DeleteAllLogs wipes the log table and returns the number removed.
	DeleteAllLogs() (int64, error)
}

// CredentialStore answers authorization membership queries and manages
// API keys and the IP whitelist.
type CredentialStore interface {
	IsWhitelisted(ip string) (bool, error)
	VerifyAPIKey(secret string) (bool, error)

	ListAPIKeys() ([]APIKey, error)
	CreateAPIKey(name string) (*APIKey, error)
	DeleteAPIKey(id int64) error

	ListWhitelist() ([]WhitelistEntry, error)
	CreateWhitelistEntry(ip, description string) (*WhitelistEntry, error)
	DeleteWhitelistEntry(id int64) error
}
