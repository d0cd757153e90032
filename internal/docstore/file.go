package docstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps each document at <root>/<collection>/<user_id>.json.
// Writes go to a temp file first and are renamed into place, so a
// reader never observes a partially written document.
type FileStore struct {
	root string
	mu   sync.Mutex
}

// NewFileStore creates a filesystem-backed document store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{root: dir}
}

// Path returns the absolute path of a document.
func (fs *FileStore) Path(collection, userID string) string {
	return filepath.Join(fs.root, collection, userID+".json")
}

// Get reads a document. A missing file is reported as ok=false.
func (fs *FileStore) Get(_ context.Context, collection, userID string) ([]byte, bool, error) {
	if err := validateKeys(collection, userID); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(fs.Path(collection, userID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("docstore: reading %s/%s: %w", collection, userID, err)
	}
	return data, true, nil
}

// Put writes a document atomically.
func (fs *FileStore) Put(_ context.Context, collection, userID string, body []byte) error {
	if err := validateKeys(collection, userID); err != nil {
		return err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	dir := filepath.Join(fs.root, collection)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("docstore: creating %s directory: %w", collection, err)
	}

	tmp, err := os.CreateTemp(dir, userID+".*.tmp")
	if err != nil {
		return fmt.Errorf("docstore: writing %s/%s: %w", collection, userID, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("docstore: writing %s/%s: %w", collection, userID, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("docstore: writing %s/%s: %w", collection, userID, err)
	}
	if err := os.Rename(tmpName, fs.Path(collection, userID)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("docstore: replacing %s/%s: %w", collection, userID, err)
	}
	return nil
}

// Delete removes a document. Deleting a missing document is not an error.
func (fs *FileStore) Delete(_ context.Context, collection, userID string) error {
	if err := validateKeys(collection, userID); err != nil {
		return err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.Remove(fs.Path(collection, userID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("docstore: deleting %s/%s: %w", collection, userID, err)
	}
	return nil
}
