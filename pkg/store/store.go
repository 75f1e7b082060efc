/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: store.go
Description: Guess store for QueryCollect. Persists free-text guesses in a single
free_query table on SQLite by default or MySQL when the database URI asks for it.
Generated tables are never persisted.
*/

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/detective-solutions/QueryCollect/pkg/logging"
	"github.com/detective-solutions/QueryCollect/pkg/operations"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// ErrInvalidGuess is returned when a guess names no known operation
var ErrInvalidGuess = errors.New("store: invalid guess")

const (
	// MaxQueryLength is the longest stored guess in characters
	MaxQueryLength = 400
	// DefaultPath is the SQLite file used when no URI is configured
	DefaultPath = "querycollect.db"
	// DefaultListLimit bounds List when no positive limit is given
	DefaultListLimit = 50

	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

var schemas = map[string]string{
	DriverSQLite: `
		CREATE TABLE IF NOT EXISTS free_query (
			id TEXT PRIMARY KEY,
			query_type INTEGER NOT NULL,
			free_text_query TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_free_query_created ON free_query(created_at);`,
	DriverMySQL: `
		CREATE TABLE IF NOT EXISTS free_query (
			id VARCHAR(50) PRIMARY KEY,
			query_type INT NOT NULL,
			free_text_query VARCHAR(400) NOT NULL,
			created_at DATETIME(6) NOT NULL,
			INDEX idx_free_query_created (created_at)
		)`,
}

// Guess is one recorded answer
type Guess struct {
	ID            string    `json:"id"`
	QueryType     int       `json:"query_type"`
	FreeTextQuery string    `json:"free_text_query"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store records guesses
type Store struct {
	db     *sql.DB
	driver string
	logger logrus.FieldLogger
}

// ParseURI resolves a database URI into a driver name and DSN.
//
//	""                         -> sqlite3, DefaultPath
//	sqlite:///db.sqlite        -> sqlite3, db.sqlite
//	mysql://u:p@tcp(h:3306)/db -> mysql, u:p@tcp(h:3306)/db?parseTime=true
//	anything else              -> sqlite3, the URI as a file path
func ParseURI(uri string) (driver, dsn string, err error) {
	switch {
	case uri == "":
		return DriverSQLite, DefaultPath, nil
	case strings.HasPrefix(uri, "mysql://"):
		cfg, err := mysql.ParseDSN(strings.TrimPrefix(uri, "mysql://"))
		if err != nil {
			return "", "", fmt.Errorf("invalid mysql URI: %w", err)
		}
		cfg.ParseTime = true
		return DriverMySQL, cfg.FormatDSN(), nil
	case strings.HasPrefix(uri, "sqlite:///"):
		return DriverSQLite, strings.TrimPrefix(uri, "sqlite:///"), nil
	case strings.HasPrefix(uri, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(uri, "sqlite://"), nil
	default:
		return DriverSQLite, uri, nil
	}
}

// Open connects to the database at uri and creates the schema if needed
func Open(ctx context.Context, uri string, logger logrus.FieldLogger) (*Store, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	driver, dsn, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite && !strings.HasPrefix(dsn, ":memory:") && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == DriverSQLite {
		// SQLite serializes writers
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemas[driver]); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.WithField("driver", driver).Info("Guess store ready")
	return &Store{db: db, driver: driver, logger: logger}, nil
}

// Driver returns the database driver in use
func (s *Store) Driver() string {
	return s.driver
}

// Save records a guess. Text longer than MaxQueryLength is truncated.
func (s *Store) Save(ctx context.Context, queryType int, text string) (*Guess, error) {
	if !operations.Operation(queryType).Valid() {
		return nil, fmt.Errorf("%w: query type %d", ErrInvalidGuess, queryType)
	}
	id, err := uuid.NewUUID()
	if err != nil {
		return nil, fmt.Errorf("failed to create guess id: %w", err)
	}

	guess := &Guess{
		ID:            id.String(),
		QueryType:     queryType,
		FreeTextQuery: truncate(text, MaxQueryLength),
		CreatedAt:     time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO free_query (id, query_type, free_text_query, created_at) VALUES (?, ?, ?, ?)`,
		guess.ID, guess.QueryType, guess.FreeTextQuery, guess.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save guess: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"guess_id":   guess.ID,
		"query_type": queryType,
	}).Debug("Saved guess")
	return guess, nil
}

// List returns up to limit guesses, newest first
func (s *Store) List(ctx context.Context, limit int) ([]Guess, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query_type, free_text_query, created_at FROM free_query ORDER BY created_at DESC, id LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list guesses: %w", err)
	}
	defer rows.Close()

	var guesses []Guess
	for rows.Next() {
		var g Guess
		if err := rows.Scan(&g.ID, &g.QueryType, &g.FreeTextQuery, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan guess: %w", err)
		}
		guesses = append(guesses, g)
	}
	return guesses, rows.Err()
}

// Count returns the number of stored guesses
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM free_query`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count guesses: %w", err)
	}
	return n, nil
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// truncate cuts text to at most n runes
func truncate(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n])
}
