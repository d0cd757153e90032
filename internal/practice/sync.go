package practice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/HendryAvila/devplan/internal/devplan"
	"github.com/HendryAvila/devplan/internal/logging"
)

// Synchronizer pushes a plan's core reps into the user's queue.
type Synchronizer struct {
	queues *QueueStore
	logger *slog.Logger
}

// NewSynchronizer creates a Synchronizer. A nil logger discards output.
func NewSynchronizer(queues *QueueStore, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Synchronizer{queues: queues, logger: logger}
}

// Sync replaces every plan-derived item in the user's queue with the reps
// derived from plan. Running it twice with the same plan leaves the queue
// unchanged the second time.
func (s *Synchronizer) Sync(ctx context.Context, userID string, plan devplan.Plan) error {
	q, err := s.queues.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("practice: load queue: %w", err)
	}
	reps := DeriveCoreReps(plan)
	items, err := Merge(q.Items, reps)
	if err != nil {
		return fmt.Errorf("practice: %w", err)
	}
	q.Items = items
	if err := s.queues.Save(ctx, userID, q); err != nil {
		return fmt.Errorf("practice: save queue: %w", err)
	}
	s.logger.Debug("synced core reps", "user", userID, "cycle", plan.CycleNumber, "reps", len(reps))
	return nil
}

// Prune removes every plan-derived item from the user's queue. The
// document is not rewritten when there is nothing to remove.
func (s *Synchronizer) Prune(ctx context.Context, userID string) error {
	q, err := s.queues.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("practice: load queue: %w", err)
	}
	items, removed := Prune(q.Items)
	if removed == 0 {
		return nil
	}
	q.Items = items
	if err := s.queues.Save(ctx, userID, q); err != nil {
		return fmt.Errorf("practice: save queue: %w", err)
	}
	s.logger.Debug("pruned core reps", "user", userID, "removed", removed)
	return nil
}

// Reps returns the plan-derived reps currently in the user's queue.
func (s *Synchronizer) Reps(ctx context.Context, userID string) ([]CoreRep, error) {
	q, err := s.queues.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("practice: load queue: %w", err)
	}
	return q.PlanReps(), nil
}
