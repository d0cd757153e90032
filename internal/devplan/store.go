package devplan

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/devplan/internal/docstore"
)

// Store defines the persistence interface for the plan aggregate.
// Abstracted for testability (DIP).
type Store interface {
	// Load returns nil, nil when the user has no plan.
	Load(ctx context.Context, userID string) (*State, error)
	Save(ctx context.Context, s *State) error
	Delete(ctx context.Context, userID string) error
}

// DocumentStore implements Store on top of a docstore collection.
type DocumentStore struct {
	docs docstore.Documents
}

// NewDocumentStore creates a plan store backed by docs.
func NewDocumentStore(docs docstore.Documents) *DocumentStore {
	return &DocumentStore{docs: docs}
}

// Load reads the user's aggregate. A document that exists but holds no
// current plan (for example one left behind by an older reset) counts
// as absent.
func (ds *DocumentStore) Load(ctx context.Context, userID string) (*State, error) {
	body, ok, err := ds.docs.Get(ctx, docstore.CollectionDevelopmentPlan, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var s State
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("parsing development plan for %q: %w", userID, err)
	}
	if s.CurrentPlan == nil {
		return nil, nil
	}
	if s.UserID == "" {
		s.UserID = userID
	}
	return &s, nil
}

// Save writes the whole aggregate in one document write.
func (ds *DocumentStore) Save(ctx context.Context, s *State) error {
	if s == nil || s.UserID == "" {
		return fmt.Errorf("cannot save development plan without a user id")
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling development plan: %w", err)
	}
	return ds.docs.Put(ctx, docstore.CollectionDevelopmentPlan, s.UserID, data)
}

// Delete removes the aggregate. Deleting an absent plan succeeds.
func (ds *DocumentStore) Delete(ctx context.Context, userID string) error {
	return ds.docs.Delete(ctx, docstore.CollectionDevelopmentPlan, userID)
}
