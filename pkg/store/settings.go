package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
)

// SettingRecommendationsEnabled holds "true" while at least one visible
// recommendation exists
const SettingRecommendationsEnabled = "recommendations_enabled"

// Settings handles key/value setting operations
type Settings struct {
	db *sqlx.DB
}

// NewSettings creates a new settings store
func NewSettings(db *sqlx.DB) *Settings {
	return &Settings{db: db}
}

// Get retrieves a setting value, empty string when unset
func (s *Settings) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM settings WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

// Set stores a setting value
func (s *Settings) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

// GetBool retrieves a boolean setting, false when unset or unparseable
func (s *Settings) GetBool(ctx context.Context, key string) (bool, error) {
	value, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, nil
	}
	return b, nil
}

// SetBool stores a boolean setting
func (s *Settings) SetBool(ctx context.Context, key string, value bool) error {
	return s.Set(ctx, key, strconv.FormatBool(value))
}
