package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog. It is parsed once per process.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(defaultContent)
	})
	return defaultCat, defaultErr
}

// DefaultContent returns a copy of the embedded YAML, suitable as a
// starting point for a DEVPLAN_CONTENT_FILE override.
func DefaultContent() []byte {
	return append([]byte(nil), defaultContent...)
}

// MustDefault is Default for callers that treat a broken embedded
// catalog as a programming error (tests, static tables).
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes and validates catalog content from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("catalog: content payload is empty")
	}
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("catalog: decode content: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	c.index()
	return &c, nil
}

// LoadReader reads catalog content from an io.Reader.
func LoadReader(r io.Reader) (*Catalog, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("catalog: read content: %w", err)
	}
	return Parse(content)
}

// LoadFile loads catalog content from an explicit file path.
func LoadFile(path string) (*Catalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	c, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Load returns the catalog from path, or the embedded default when path
// is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}
