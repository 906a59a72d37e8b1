package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	ttl    time.Duration
	logger *zap.Logger

	now func() time.Time
}

// NewSQLite opens or creates the session database at dbPath. Sessions
// untouched for longer than ttl are treated as expired.
func NewSQLite(dbPath string, ttl time.Duration, logger *zap.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db, ttl: ttl, logger: logger, now: time.Now}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		cv_text TEXT NOT NULL DEFAULT '',
		jd_text TEXT NOT NULL DEFAULT '',
		chat_history TEXT NOT NULL DEFAULT '[]',
		expires_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Load retrieves the context for a session id. Missing, expired and
// unreadable sessions all yield a fresh empty context; only a failure
// of the database itself is reported as an error.
func (s *SQLiteStore) Load(sessionID string) (*Context, error) {
	query := `SELECT cv_text, jd_text, chat_history, expires_at FROM sessions WHERE session_id = ?`
	row := s.db.QueryRow(query, sessionID)

	var (
		ctx       Context
		historyJS string
		expiresAt int64
	)
	err := row.Scan(&ctx.CVText, &ctx.JDText, &historyJS, &expiresAt)
	if err == sql.ErrNoRows {
		return NewContext(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan session row: %v", ErrUnavailable, err)
	}

	if s.now().Unix() >= expiresAt {
		s.logger.Debug("session expired, starting fresh", zap.String("session_id", sessionID))
		return NewContext(), nil
	}

	if err := json.Unmarshal([]byte(historyJS), &ctx.ChatHistory); err != nil {
		s.logger.Warn("discarding unreadable session state",
			zap.String("session_id", sessionID), zap.Error(err))
		return NewContext(), nil
	}

	return &ctx, nil
}

// Save upserts the context for a session id and pushes its expiry out
// by the store TTL.
func (s *SQLiteStore) Save(sessionID string, ctx *Context) error {
	history := ctx.ChatHistory
	if history == nil {
		history = []string{}
	}
	historyJS, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("%w: encode chat history: %v", ErrUnavailable, err)
	}

	now := s.now()
	query := `
	INSERT INTO sessions (session_id, cv_text, jd_text, chat_history, expires_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(session_id) DO UPDATE SET
		cv_text = excluded.cv_text,
		jd_text = excluded.jd_text,
		chat_history = excluded.chat_history,
		expires_at = excluded.expires_at,
		updated_at = excluded.updated_at`

	_, err = s.db.Exec(query,
		sessionID, ctx.CVText, ctx.JDText, string(historyJS),
		now.Add(s.ttl).Unix(), now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("%w: upsert session: %v", ErrUnavailable, err)
	}
	return nil
}

// Delete removes a session. Deleting a session that does not exist is
// not an error.
func (s *SQLiteStore) Delete(sessionID string) error {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("%w: delete session: %v", ErrUnavailable, err)
	}
	return nil
}

// CleanupExpired removes sessions past their expiry and returns how
// many were removed.
func (s *SQLiteStore) CleanupExpired() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM sessions WHERE expires_at <= ?`, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("%w: cleanup expired sessions: %v", ErrUnavailable, err)
	}
	return result.RowsAffected()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
