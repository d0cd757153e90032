package docstore

import (
	"context"
	"database/sql"
)

// DB exposes the internal *sql.DB for test helpers in docstore_test.
// This file only compiles during `go test`.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// FailCommits makes every subsequent Put fail at commit time.
func (s *SQLStore) FailCommits(err error) {
	s.hooks.commit = func(tx *sql.Tx) error {
		_ = tx.Rollback()
		return err
	}
}

// FailExecs makes every subsequent statement fail.
func (s *SQLStore) FailExecs(err error) {
	s.hooks.exec = func(context.Context, execer, string, ...any) (sql.Result, error) {
		return nil, err
	}
}

// Rebind exposes placeholder rewriting.
func (s *SQLStore) Rebind(q string) string {
	return s.rebind(q)
}

// NewPostgresDialectForTest returns a store that only rewrites queries.
func NewPostgresDialectForTest() *SQLStore {
	return &SQLStore{dialect: DialectPostgres}
}
