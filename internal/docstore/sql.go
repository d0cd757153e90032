package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Supported SQL dialects.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// SQLiteFile is the database filename created under the data directory.
const SQLiteFile = "devplan.db"

// SQLStore stores documents in a single relational table.
type SQLStore struct {
	db      *sql.DB
	dialect string
	hooks   storeHooks
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type storeHooks struct {
	exec    func(ctx context.Context, db execer, query string, args ...any) (sql.Result, error)
	beginTx func(ctx context.Context, db *sql.DB) (*sql.Tx, error)
	commit  func(tx *sql.Tx) error
}

func defaultStoreHooks() storeHooks {
	return storeHooks{
		exec: func(ctx context.Context, db execer, query string, args ...any) (sql.Result, error) {
			return db.ExecContext(ctx, query, args...)
		},
		beginTx: func(ctx context.Context, db *sql.DB) (*sql.Tx, error) {
			return db.BeginTx(ctx, nil)
		},
		commit: func(tx *sql.Tx) error {
			return tx.Commit()
		},
	}
}

func (s *SQLStore) execHook(ctx context.Context, db execer, query string, args ...any) (sql.Result, error) {
	if s.hooks.exec != nil {
		return s.hooks.exec(ctx, db, query, args...)
	}
	return db.ExecContext(ctx, query, args...)
}

func (s *SQLStore) beginTxHook(ctx context.Context) (*sql.Tx, error) {
	if s.hooks.beginTx != nil {
		return s.hooks.beginTx(ctx, s.db)
	}
	return s.db.BeginTx(ctx, nil)
}

func (s *SQLStore) commitHook(tx *sql.Tx) error {
	if s.hooks.commit != nil {
		return s.hooks.commit(tx)
	}
	return tx.Commit()
}

// OpenSQLite opens (creating if needed) the SQLite database under dataDir,
// applies the performance pragmas and runs migrations.
func OpenSQLite(dataDir string) (*SQLStore, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("docstore: create data dir: %w", err)
	}

	db, err := openDB("sqlite", filepath.Join(dataDir, SQLiteFile))
	if err != nil {
		return nil, fmt.Errorf("docstore: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("docstore: pragma %q: %w", p, err)
		}
	}

	return newSQLStore(db, DialectSQLite)
}

// OpenPostgres connects to PostgreSQL through the pgx stdlib driver.
func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("docstore: postgres dsn is empty")
	}
	db, err := openDB("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("docstore: open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("docstore: ping: %w", err)
	}
	return newSQLStore(db, DialectPostgres)
}

func newSQLStore(db *sql.DB, dialect string) (*SQLStore, error) {
	s := &SQLStore{db: db, dialect: dialect, hooks: defaultStoreHooks()}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("docstore: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Dialect returns the SQL dialect in use.
func (s *SQLStore) Dialect() string {
	return s.dialect
}

func (s *SQLStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			user_id    TEXT NOT NULL,
			body       TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (collection, user_id)
		)`
	_, err := s.execHook(context.Background(), s.db, schema)
	return err
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Get returns the document body, or ok=false when absent.
func (s *SQLStore) Get(ctx context.Context, collection, userID string) ([]byte, bool, error) {
	if err := validateKeys(collection, userID); err != nil {
		return nil, false, err
	}
	var body string
	err := s.db.QueryRowContext(ctx,
		s.rebind("SELECT body FROM documents WHERE collection = ? AND user_id = ?"),
		collection, userID,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("docstore: get %s/%s: %w", collection, userID, err)
	}
	return []byte(body), true, nil
}

// Put inserts or replaces the document in a single transaction.
func (s *SQLStore) Put(ctx context.Context, collection, userID string, body []byte) error {
	if err := validateKeys(collection, userID); err != nil {
		return err
	}
	tx, err := s.beginTxHook(ctx)
	if err != nil {
		return fmt.Errorf("docstore: put %s/%s: begin: %w", collection, userID, err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = s.execHook(ctx, tx, s.rebind(`
		INSERT INTO documents (collection, user_id, body, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (collection, user_id)
		DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`),
		collection, userID, string(body), timeNow().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("docstore: put %s/%s: %w", collection, userID, err)
	}
	if err := s.commitHook(tx); err != nil {
		return fmt.Errorf("docstore: put %s/%s: commit: %w", collection, userID, err)
	}
	return nil
}

// Delete removes the document. Deleting a missing document is not an error.
func (s *SQLStore) Delete(ctx context.Context, collection, userID string) error {
	if err := validateKeys(collection, userID); err != nil {
		return err
	}
	_, err := s.execHook(ctx, s.db,
		s.rebind("DELETE FROM documents WHERE collection = ? AND user_id = ?"),
		collection, userID,
	)
	if err != nil {
		return fmt.Errorf("docstore: delete %s/%s: %w", collection, userID, err)
	}
	return nil
}
