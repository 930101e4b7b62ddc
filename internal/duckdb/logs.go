package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/logpulse/logpulse/internal/model"
)

// DefaultQueryLimit is the page size used when a filter does not set one.
const DefaultQueryLimit = 50

// queryCtx returns a context with the store's configured query timeout.
func (s *Store) queryCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.QueryTimeout)
}

// InsertLog persists a single entry and returns the stored record with its
// assigned id and creation time.
func (s *Store) InsertLog(entry *model.LogEntry) (*model.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var metadata any
	if entry.Metadata != "" {
		metadata = entry.Metadata
	}

	stored := *entry
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO logs (message, level, metadata, ip_address, timestamp)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING id, created_at`,
		entry.Message, entry.Level, metadata, entry.IPAddress, entry.Timestamp,
	).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert log: %w", err)
	}
	return &stored, nil
}

// filterClause builds the WHERE clause and args for a log filter.
// All conditions are combined with AND; zero values add no condition.
func filterClause(f model.LogFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if f.Level != "" {
		conditions = append(conditions, "level = ?")
		args = append(args, f.Level)
	}
	if f.Search != "" {
		conditions = append(conditions, "(message LIKE ? OR metadata LIKE ?)")
		term := "%" + f.Search + "%"
		args = append(args, term, term)
	}
	if f.StartMs > 0 {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, f.StartMs)
	}
	if f.EndMs > 0 {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, f.EndMs)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// QueryLogs returns a page of entries matching the filter, newest first,
// along with the total match count before pagination.
func (s *Store) QueryLogs(f model.LogFilter) ([]model.LogEntry, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	where, args := filterClause(f)

	var total int64
	if err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM logs %s", where), args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count logs: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	// Identifier is the deterministic tiebreaker for equal timestamps.
	query := fmt.Sprintf(`
		SELECT id, message, level, metadata, ip_address, timestamp, created_at
		FROM logs %s
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?`, where)
	pageArgs := append(append([]interface{}{}, args...), limit, offset)

	rows, err := s.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	entries := make([]model.LogEntry, 0, limit)
	for rows.Next() {
		entry, err := scanLogEntry(rows)
		if err != nil {
			log.Printf("duckdb: scan error (QueryLogs): %v", err)
			continue
		}
		entries = append(entries, *entry)
	}
	return entries, total, rows.Err()
}

// LogByID returns the entry with the given id, or nil when it does not exist.
func (s *Store) LogByID(id int64) (*model.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, message, level, metadata, ip_address, timestamp, created_at
		 FROM logs WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanLogEntry(rows)
}

// CountLogs returns the total number of stored entries.
func (s *Store) CountLogs() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM logs").Scan(&count)
	return count, err
}

// DeleteLogsBefore removes all entries with timestamp strictly below cutoffMs
// and returns the number removed.
func (s *Store) DeleteLogsBefore(cutoffMs int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	res, err := s.db.ExecContext(ctx, "DELETE FROM logs WHERE timestamp < ?", cutoffMs)
	if err != nil {
		return 0, fmt.Errorf("delete old logs: %w", err)
	}
	return res.RowsAffected()
}

// DeleteAllLogs wipes the log table and returns the number of rows removed.
func (s *Store) DeleteAllLogs() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	res, err := s.db.ExecContext(ctx, "DELETE FROM logs")
	if err != nil {
		return 0, fmt.Errorf("delete all logs: %w", err)
	}
	return res.RowsAffected()
}

func scanLogEntry(rows *sql.Rows) (*model.LogEntry, error) {
	var e model.LogEntry
	var metadata, ip sql.NullString
	if err := rows.Scan(&e.ID, &e.Message, &e.Level, &metadata, &ip, &e.Timestamp, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Metadata = metadata.String
	e.IPAddress = ip.String
	return &e, nil
}
