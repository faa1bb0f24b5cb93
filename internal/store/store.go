// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists processed queries and keyword trends in SQLite.
// History powers the history command; keyword trends accumulate across
// queries so frequent search terms can be surfaced later.
//
// See docs/ARCHITECTURE § Query History.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jwpark/challenge-radar/pkg/types"
)

const dbFile = "challenge-radar.db"

// Store manages the query history SQLite database.
type Store struct {
	db         *sql.DB
	maxHistory int
}

// NewStore opens or creates the history database at
// cfg.DataDir/challenge-radar.db, creating the schema if needed.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxHistory := cfg.MaxHistory
	if maxHistory <= 0 {
		maxHistory = 20
	}

	s := &Store{db: db, maxHistory: maxHistory}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS queries (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			input TEXT NOT NULL,
			action TEXT,
			content_type TEXT,
			count INTEGER,
			confidence REAL,
			success INTEGER NOT NULL,
			total_found INTEGER,
			processing_time REAL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_queries_created_at ON queries(created_at)`,
		`CREATE TABLE IF NOT EXISTS keyword_trends (
			keyword TEXT PRIMARY KEY,
			uses INTEGER NOT NULL,
			last_seen TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// HistoryEntry is one stored query.
type HistoryEntry struct {
	Input          string
	Action         types.ActionType
	ContentType    types.ContentType
	Count          int
	Confidence     float64
	Success        bool
	TotalFound     int
	ProcessingTime float64
	CreatedAt      time.Time
}

// KeywordTrend is one accumulated search term.
type KeywordTrend struct {
	Keyword  string
	Uses     int
	LastSeen time.Time
}

// SaveQuery records a processed query and bumps its keywords in the
// trend table. A response without a parsed request is stored with empty
// request fields.
func (s *Store) SaveQuery(ctx context.Context, resp *types.QueryResponse) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	var input string
	var action, contentType string
	var count int
	var confidence float64
	var keywords []string

	if resp.ParsedRequest != nil {
		req := resp.ParsedRequest
		input = req.OriginalInput
		action = string(req.ActionType)
		contentType = string(req.ContentFilter.ContentType)
		count = req.QuantityFilter.Count
		confidence = req.Confidence
		keywords = req.ContentFilter.Keywords
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO queries (input, action, content_type, count, confidence, success, total_found, processing_time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		input, action, contentType, count, confidence,
		boolToInt(resp.Success), resp.TotalFound, resp.ProcessingTime,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting query: %w", err)
	}

	for _, kw := range keywords {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO keyword_trends (keyword, uses, last_seen) VALUES (?, 1, ?)
			 ON CONFLICT(keyword) DO UPDATE SET uses = uses + 1, last_seen = excluded.last_seen`,
			kw, now.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("updating keyword trend %q: %w", kw, err)
		}
	}

	return tx.Commit()
}

// History returns the most recent stored queries, newest first. A limit
// below 1 uses the configured maximum.
func (s *Store) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit < 1 {
		limit = s.maxHistory
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT input, action, content_type, count, confidence, success, total_found, processing_time, created_at
		 FROM queries ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var action, contentType, createdAt string
		var success int
		if err := rows.Scan(&e.Input, &action, &contentType, &e.Count, &e.Confidence,
			&success, &e.TotalFound, &e.ProcessingTime, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.Action = types.ActionType(action)
		e.ContentType = types.ContentType(contentType)
		e.Success = success != 0
		if t, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// TrendingKeywords returns the most used keywords, most used first.
func (s *Store) TrendingKeywords(ctx context.Context, limit int) ([]KeywordTrend, error) {
	if limit < 1 {
		limit = s.maxHistory
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT keyword, uses, last_seen FROM keyword_trends ORDER BY uses DESC, keyword ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying keyword trends: %w", err)
	}
	defer rows.Close()

	var trends []KeywordTrend
	for rows.Next() {
		var t KeywordTrend
		var lastSeen string
		if err := rows.Scan(&t.Keyword, &t.Uses, &lastSeen); err != nil {
			return nil, fmt.Errorf("scanning trend row: %w", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, lastSeen); parseErr == nil {
			t.LastSeen = ts
		}
		trends = append(trends, t)
	}
	return trends, rows.Err()
}

// Cleanup deletes queries older than the given age and returns the
// number removed. Keyword trends are kept; they are cumulative.
func (s *Store) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx, `DELETE FROM queries WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting old queries: %w", err)
	}
	return res.RowsAffected()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
