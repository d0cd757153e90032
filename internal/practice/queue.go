package practice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/devplan/internal/docstore"
)

// ItemsKey is the queue document field holding the ordered item list.
const ItemsKey = "activeCommitments"

// Queue is a decoded daily-practice document. Fields other than the item
// list are held as raw JSON and written back as they were read.
type Queue struct {
	fields map[string]json.RawMessage
	Items  []json.RawMessage
}

// IsPlanDerived reports whether a raw queue item carries the plan tag.
// Items that are not JSON objects are never plan-derived. The key and
// value must match exactly; encoding/json field matching would also
// accept "SourceTag".
func IsPlanDerived(item json.RawMessage) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(item, &obj); err != nil {
		return false
	}
	raw, ok := obj["sourceTag"]
	if !ok {
		return false
	}
	var tag string
	if err := json.Unmarshal(raw, &tag); err != nil {
		return false
	}
	return tag == SourceTagDevelopmentPlan
}

// Merge drops every plan-derived item and appends reps. Foreign items keep
// their relative order and content.
func Merge(items []json.RawMessage, reps []CoreRep) ([]json.RawMessage, error) {
	out, _ := Prune(items)
	for _, r := range reps {
		raw, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("marshaling core rep %s: %w", r.ID, err)
		}
		out = append(out, raw)
	}
	return out, nil
}

// Prune drops every plan-derived item and reports how many were removed.
func Prune(items []json.RawMessage) ([]json.RawMessage, int) {
	out := make([]json.RawMessage, 0, len(items))
	removed := 0
	for _, item := range items {
		if IsPlanDerived(item) {
			removed++
			continue
		}
		out = append(out, item)
	}
	return out, removed
}

// PlanReps decodes the plan-derived items of the queue.
func (q *Queue) PlanReps() []CoreRep {
	var reps []CoreRep
	for _, item := range q.Items {
		if !IsPlanDerived(item) {
			continue
		}
		var r CoreRep
		if err := json.Unmarshal(item, &r); err == nil {
			reps = append(reps, r)
		}
	}
	return reps
}

// QueueStore reads and writes queue documents.
type QueueStore struct {
	docs docstore.Documents
}

// NewQueueStore creates a queue store backed by docs.
func NewQueueStore(docs docstore.Documents) *QueueStore {
	return &QueueStore{docs: docs}
}

// Load returns the user's queue. A missing document is an empty queue.
func (qs *QueueStore) Load(ctx context.Context, userID string) (*Queue, error) {
	body, ok, err := qs.docs.Get(ctx, docstore.CollectionDailyPractice, userID)
	if err != nil {
		return nil, err
	}
	q := &Queue{fields: map[string]json.RawMessage{}}
	if !ok || len(bytes.TrimSpace(body)) == 0 {
		return q, nil
	}
	if err := json.Unmarshal(body, &q.fields); err != nil {
		return nil, fmt.Errorf("parsing daily practice for %q: %w", userID, err)
	}
	if q.fields == nil {
		q.fields = map[string]json.RawMessage{}
	}
	if raw, ok := q.fields[ItemsKey]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &q.Items); err != nil {
			return nil, fmt.Errorf("parsing %s for %q: %w", ItemsKey, userID, err)
		}
	}
	return q, nil
}

// Save writes the queue back, replacing only the item list.
func (qs *QueueStore) Save(ctx context.Context, userID string, q *Queue) error {
	items := q.Items
	if items == nil {
		items = []json.RawMessage{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", ItemsKey, err)
	}
	fields := make(map[string]json.RawMessage, len(q.fields)+1)
	for k, v := range q.fields {
		fields[k] = v
	}
	fields[ItemsKey] = raw

	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshaling daily practice: %w", err)
	}
	return qs.docs.Put(ctx, docstore.CollectionDailyPractice, userID, body)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
