package docstore

import (
	"context"
	"sync"
)

// Memory is an in-process Documents backend. Nothing survives the
// process; it backs DEVPLAN_STORE=memory and tests.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, collection, userID string) ([]byte, bool, error) {
	if err := validateKeys(collection, userID); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	body, ok := m.docs[cacheKey(collection, userID)]
	if !ok {
		return nil, false, nil
	}
	return clone(body), true, nil
}

func (m *Memory) Put(_ context.Context, collection, userID string, body []byte) error {
	if err := validateKeys(collection, userID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[cacheKey(collection, userID)] = clone(body)
	return nil
}

func (m *Memory) Delete(_ context.Context, collection, userID string) error {
	if err := validateKeys(collection, userID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, cacheKey(collection, userID))
	return nil
}
