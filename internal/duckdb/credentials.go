package duckdb

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/logpulse/logpulse/internal/model"
)

// apiKeyBytes is the entropy of a generated API key secret. Rendered as hex
// the secret is twice this length.
const apiKeyBytes = 32

// generateSecret returns a cryptographically random hex-encoded secret.
func generateSecret() (string, error) {
	buf := make([]byte, apiKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// IsWhitelisted reports whether ip has a whitelist entry.
func (s *Store) IsWhitelisted(ip string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM ip_whitelist WHERE ip_address = ?", ip).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// VerifyAPIKey reports whether secret matches a provisioned API key.
func (s *Store) VerifyAPIKey(secret string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM api_keys WHERE key = ?", secret).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListAPIKeys returns all API key records, newest first.
func (s *Store) ListAPIKeys() ([]model.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, key, name, created_at FROM api_keys ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make([]model.APIKey, 0)
	for rows.Next() {
		var k model.APIKey
		if err := rows.Scan(&k.ID, &k.Key, &k.Name, &k.CreatedAt); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// CreateAPIKey generates a fresh secret, stores it under the given label,
// and returns the complete record. The secret is not reconstructable later.
func (s *Store) CreateAPIKey(name string) (*model.APIKey, error) {
	secret, err := generateSecret()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	key := model.APIKey{Key: secret, Name: name}
	err = s.db.QueryRowContext(ctx,
		"INSERT INTO api_keys (key, name) VALUES (?, ?) RETURNING id, created_at",
		secret, name,
	).Scan(&key.ID, &key.CreatedAt)
	if err != nil {
		if isConstraintErr(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("insert api key: %w", err)
	}
	return &key, nil
}

// DeleteAPIKey removes the key with the given id. Deleting a missing id
// succeeds.
func (s *Store) DeleteAPIKey(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	_, err := s.db.ExecContext(ctx, "DELETE FROM api_keys WHERE id = ?", id)
	return err
}

// ListWhitelist returns all whitelist entries, newest first.
func (s *Store) ListWhitelist() ([]model.WhitelistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, ip_address, description, created_at FROM ip_whitelist ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]model.WhitelistEntry, 0)
	for rows.Next() {
		var e model.WhitelistEntry
		var desc sql.NullString
		if err := rows.Scan(&e.ID, &e.IPAddress, &desc, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Description = desc.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CreateWhitelistEntry stores a whitelisted IP. The caller is responsible
// for format validation; uniqueness is enforced here.
func (s *Store) CreateWhitelistEntry(ip, description string) (*model.WhitelistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var desc any
	if description != "" {
		desc = description
	}

	entry := model.WhitelistEntry{IPAddress: ip, Description: description}
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO ip_whitelist (ip_address, description) VALUES (?, ?) RETURNING id, created_at",
		ip, desc,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		if isConstraintErr(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("insert whitelist entry: %w", err)
	}
	return &entry, nil
}

// DeleteWhitelistEntry removes the entry with the given id. Deleting a
// missing id succeeds.
func (s *Store) DeleteWhitelistEntry(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	_, err := s.db.ExecContext(ctx, "DELETE FROM ip_whitelist WHERE id = ?", id)
	return err
}
