// Package docstore persists opaque per-user JSON documents grouped into
// named collections. The development plan and the daily practice queue
// are both stored through it.
//
// Backends:
//   - SQLStore: SQLite (modernc, default) or PostgreSQL (pgx stdlib driver)
//   - FileStore: one JSON file per document under a data directory
//   - Cached: an LRU read-through wrapper around any of the above
package docstore

import (
	"context"
	"fmt"
	"regexp"
)

// Collection names used by the engine.
const (
	CollectionDevelopmentPlan = "development_plan"
	CollectionDailyPractice   = "daily_practice"
)

// Documents is the minimal key-value contract every backend satisfies.
// Get reports ok=false (and no error) when the document does not exist.
type Documents interface {
	Get(ctx context.Context, collection, userID string) (body []byte, ok bool, err error)
	Put(ctx context.Context, collection, userID string, body []byte) error
	Delete(ctx context.Context, collection, userID string) error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._@-]{0,127}$`)

// validateKey rejects collection or user ids that are empty, too long or
// could escape a directory when used as a path segment.
func validateKey(kind, v string) error {
	if !keyPattern.MatchString(v) || v == "." || v == ".." {
		return fmt.Errorf("docstore: invalid %s %q", kind, v)
	}
	return nil
}

func validateKeys(collection, userID string) error {
	if err := validateKey("collection", collection); err != nil {
		return err
	}
	return validateKey("user id", userID)
}

// ValidateUserID reports whether id can be used as a document key.
func ValidateUserID(id string) error {
	return validateKey("user id", id)
}
