package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	_ "modernc.org/sqlite"
)

// ErrNoToken is returned by LoadToken when nothing has been saved for a provider.
var ErrNoToken = errors.New("no stored token")

// Database keeps the catalog OAuth token between restarts. It holds nothing else.
type Database struct {
	db *sql.DB
}

// New opens (and creates, if needed) the sqlite file at dbPath.
func New(dbPath string) (*Database, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	d := &Database{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Infof("Session store initialized at %s", dbPath)
	return d, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS oauth_tokens (
			provider TEXT PRIMARY KEY,
			access_token TEXT NOT NULL,
			token_type TEXT NOT NULL DEFAULT '',
			refresh_token TEXT NOT NULL DEFAULT '',
			expiry TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return nil
}

// SaveToken replaces the stored token for provider.
func (d *Database) SaveToken(provider string, token *oauth2.Token) error {
	if token == nil {
		return errors.New("nil token")
	}

	var expiry string
	if !token.Expiry.IsZero() {
		expiry = token.Expiry.UTC().Format(time.RFC3339Nano)
	}

	_, err := d.db.Exec(
		`INSERT OR REPLACE INTO oauth_tokens (provider, access_token, token_type, refresh_token, expiry, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		provider, token.AccessToken, token.TokenType, token.RefreshToken, expiry,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// LoadToken returns the stored token for provider, or ErrNoToken.
func (d *Database) LoadToken(provider string) (*oauth2.Token, error) {
	var token oauth2.Token
	var expiry string
	err := d.db.QueryRow(
		`SELECT access_token, token_type, refresh_token, expiry FROM oauth_tokens WHERE provider = ?`,
		provider,
	).Scan(&token.AccessToken, &token.TokenType, &token.RefreshToken, &expiry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	if expiry != "" {
		t, err := time.Parse(time.RFC3339Nano, expiry)
		if err != nil {
			log.Warnf("failed to parse token expiry '%s': %v", expiry, err)
		} else {
			token.Expiry = t
		}
	}
	return &token, nil
}

// DeleteToken forgets the stored token for provider.
func (d *Database) DeleteToken(provider string) error {
	if _, err := d.db.Exec(`DELETE FROM oauth_tokens WHERE provider = ?`, provider); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
