package devplan

import (
	"context"
	"testing"

	"github.com/HendryAvila/devplan/internal/docstore"
)

func TestDocumentStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore(docstore.NewFileStore(t.TempDir()))

	s := testState(t)
	score := 3.5
	s.CurrentPlan.FocusAreas[0].Score = &score
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := store.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got == nil {
		t.Fatal("Load() returned nil for a saved plan")
	}
	if got.CurrentCycleNumber != 1 || got.UserID != "alice" {
		t.Errorf("loaded %+v", got)
	}
	fa := got.CurrentPlan.FocusAreas[0]
	if !fa.HasScore() || *fa.Score != 3.5 {
		t.Errorf("focus score = %v, want 3.5", fa.Score)
	}
}

func TestDocumentStore_NullScoreSurvives(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore(docstore.NewMemory())
	if err := store.Save(ctx, testState(t)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, _ := store.Load(ctx, "alice")
	if got.CurrentPlan.FocusAreas[0].HasScore() {
		t.Error("cycle 1 focus area should keep a nil score")
	}
}

func TestDocumentStore_LoadAbsent(t *testing.T) {
	store := NewDocumentStore(docstore.NewMemory())
	got, err := store.Load(context.Background(), "nobody")
	if err != nil || got != nil {
		t.Errorf("Load(absent) = %v, %v; want nil, nil", got, err)
	}
}

func TestDocumentStore_LoadWithoutCurrentPlanIsAbsent(t *testing.T) {
	ctx := context.Background()
	docs := docstore.NewMemory()
	_ = docs.Put(ctx, docstore.CollectionDevelopmentPlan, "bob", []byte(`{"current_plan":null,"current_cycle_number":0}`))

	got, err := NewDocumentStore(docs).Load(ctx, "bob")
	if err != nil || got != nil {
		t.Errorf("Load = %v, %v; want nil, nil", got, err)
	}
}

func TestDocumentStore_LoadCorrupt(t *testing.T) {
	ctx := context.Background()
	docs := docstore.NewMemory()
	_ = docs.Put(ctx, docstore.CollectionDevelopmentPlan, "carl", []byte("{not json"))
	if _, err := NewDocumentStore(docs).Load(ctx, "carl"); err == nil {
		t.Error("corrupt document should fail to load")
	}
}

func TestDocumentStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore(docstore.NewMemory())
	_ = store.Save(ctx, testState(t))
	if err := store.Delete(ctx, "alice"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if got, _ := store.Load(ctx, "alice"); got != nil {
		t.Error("plan should be gone after Delete")
	}
	if err := store.Delete(ctx, "alice"); err != nil {
		t.Errorf("second Delete should succeed: %v", err)
	}
}

func TestDocumentStore_SaveRequiresUser(t *testing.T) {
	store := NewDocumentStore(docstore.NewMemory())
	if err := store.Save(context.Background(), &State{}); err == nil {
		t.Error("Save without user id should fail")
	}
}
