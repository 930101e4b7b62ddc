package duckdb

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/logpulse/logpulse/internal/duckdb/migrate"
	_ "github.com/marcboeker/go-duckdb"
)

// ErrConflict indicates a unique-constraint violation (duplicate API key
// secret or whitelisted IP).
var ErrConflict = errors.New("duckdb: conflict with existing row")

// Store manages the DuckDB database connection and owns all durable state:
// log entries, API keys, and the IP whitelist. Writes are serialized through
// the store's lock.
type Store struct {
	db           *sql.DB
	mu           sync.RWMutex
	dbPath       string
	QueryTimeout time.Duration
}

// NewStore opens or creates a DuckDB database at dbPath, creating the parent
// directory if needed. If dbPath is empty, an in-memory database is used.
// An optional queryTimeout can be passed; it defaults to 30s.
func NewStore(dbPath string, queryTimeout ...time.Duration) (*Store, error) {
	dsn := ""
	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, err
		}
		dsn = dbPath
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, err
	}

	if err := migrate.NewRunner(db).Run(); err != nil {
		db.Close()
		return nil, err
	}

	qt := 30 * time.Second
	if len(queryTimeout) > 0 && queryTimeout[0] > 0 {
		qt = queryTimeout[0]
	}

	return &Store{
		db:           db,
		dbPath:       dbPath,
		QueryTimeout: qt,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DBPath returns the configured database path. Empty means in-memory.
func (s *Store) DBPath() string {
	return s.dbPath
}

// isConstraintErr reports whether err looks like a unique/primary key
// violation. The driver surfaces constraint failures as plain errors, so
// this matches on the DuckDB error text.
func isConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "constraint")
}
