// Package engine is the entry point callers use to drive a user's
// development plan: submit assessments, read the derived view, reset.
//
// Each transition is two sequential steps. The plan aggregate is written
// first; only after that write is confirmed does the engine push core reps
// to the daily-practice queue. A failed plan write aborts the transition
// and nothing is synced. A failed sync leaves the transition in place and
// is reported on the Outcome.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/HendryAvila/devplan/internal/catalog"
	"github.com/HendryAvila/devplan/internal/devplan"
	"github.com/HendryAvila/devplan/internal/docstore"
	"github.com/HendryAvila/devplan/internal/logging"
	"github.com/HendryAvila/devplan/internal/planner"
	"github.com/HendryAvila/devplan/internal/practice"
	"github.com/HendryAvila/devplan/internal/scoring"
)

// Syncer pushes plan-derived items into the external queue.
type Syncer interface {
	Sync(ctx context.Context, userID string, plan devplan.Plan) error
	Prune(ctx context.Context, userID string) error
	Reps(ctx context.Context, userID string) ([]practice.CoreRep, error)
}

// Outcome is the result of a state-changing operation. SyncErr is set
// when the operation itself succeeded but the queue could not be
// updated.
type Outcome struct {
	State   *devplan.State
	Scores  []scoring.DimensionScore
	Summary scoring.Summary
	SyncErr *SyncError
}

// Service implements the engine operations.
type Service struct {
	catalog   *catalog.Catalog
	plans     devplan.Store
	generator *planner.Generator
	syncer    Syncer
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a Service. A nil logger discards output.
func New(c *catalog.Catalog, plans devplan.Store, syncer Syncer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		catalog:   c,
		plans:     plans,
		generator: planner.New(c, logger),
		syncer:    syncer,
		logger:    logger,
		now:       time.Now,
	}
}

// Catalog returns the catalog the service scores against.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// SubmitInitialAssessment starts cycle 1 for a user with no plan.
func (s *Service) SubmitInitialAssessment(ctx context.Context, userID string, answers scoring.Answers, reflection string) (*Outcome, error) {
	var fields []string
	fields = append(fields, userIDProblems(userID)...)
	fields = append(fields, scoring.Validate(s.catalog, answers).Fields()...)
	if len(fields) > 0 {
		return nil, &ValidationError{Message: "initial assessment is incomplete", Fields: fields}
	}

	existing, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &ValidationError{
			Message: "a development plan already exists; submit a progress scan or reset first",
			Fields:  []string{fmt.Sprintf("user_id: plan exists at cycle %d", existing.CurrentCycleNumber)},
		}
	}

	scores := scoring.Score(s.catalog, answers)
	plan, err := s.generator.Generate(scores, reflection, 1)
	if err != nil {
		return nil, fmt.Errorf("engine: generating cycle 1 plan: %w", err)
	}

	record := devplan.NewAssessmentRecord(1)
	record.Answers = answers
	record.Scores = scoring.ByDimension(scores)
	record.OpenEndedReflection = reflection

	state, err := devplan.Begin(userID, record, plan)
	if err != nil {
		return nil, fmt.Errorf("engine: starting cycle 1: %w", err)
	}
	return s.commit(ctx, state, scores)
}

// SubmitProgressScan closes the current cycle and opens the next. Input
// is validated before the user's plan is looked up. An empty reflection
// carries the current plan's reflection forward.
func (s *Service) SubmitProgressScan(ctx context.Context, userID string, answers scoring.Answers, pair devplan.ReflectionPair, evidence, reflection string) (*Outcome, error) {
	var fields []string
	fields = append(fields, userIDProblems(userID)...)
	if strings.TrimSpace(pair.WhatImproved) == "" {
		fields = append(fields, "what_improved: required")
	}
	if strings.TrimSpace(pair.WhereStuck) == "" {
		fields = append(fields, "where_stuck: required")
	}
	if strings.TrimSpace(evidence) == "" {
		fields = append(fields, "evidence_note: required")
	}
	fields = append(fields, scoring.Validate(s.catalog, answers).Fields()...)
	if len(fields) > 0 {
		return nil, &ValidationError{Message: "progress scan is incomplete", Fields: fields}
	}

	current, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, &NotFoundError{UserID: userID, What: "development plan"}
	}

	if strings.TrimSpace(reflection) == "" {
		reflection = current.CurrentPlan.OpenEndedReflection
	}

	next := current.CurrentCycleNumber + 1
	scores := scoring.Score(s.catalog, answers)
	plan, err := s.generator.Generate(scores, reflection, next)
	if err != nil {
		return nil, fmt.Errorf("engine: generating cycle %d plan: %w", next, err)
	}

	record := devplan.NewAssessmentRecord(next)
	record.Answers = answers
	record.Scores = scoring.ByDimension(scores)
	record.OpenEndedReflection = reflection
	p := pair
	record.ReflectionPair = &p
	record.EvidenceNote = evidence

	state, err := devplan.Advance(current, record, plan)
	if err != nil {
		return nil, fmt.Errorf("engine: advancing to cycle %d: %w", next, err)
	}
	return s.commit(ctx, state, scores)
}

// commit persists state and, only once that succeeds, syncs the queue.
func (s *Service) commit(ctx context.Context, state *devplan.State, scores []scoring.DimensionScore) (*Outcome, error) {
	if err := s.plans.Save(ctx, state); err != nil {
		s.logger.Error("saving development plan failed",
			"user_id", state.UserID, "cycle", state.CurrentCycleNumber, "error", err)
		return nil, &PersistenceError{Op: "save development plan", Err: err}
	}
	s.logger.Info("development plan transition committed",
		"user_id", state.UserID,
		"cycle", state.CurrentCycleNumber,
		"plan_type", state.CurrentPlan.PlanType,
		"focus", strings.Join(state.CurrentPlan.FocusNames(), ", "))

	out := &Outcome{State: state, Scores: scores, Summary: scoring.Summarize(scores)}
	if err := s.syncer.Sync(ctx, state.UserID, *state.CurrentPlan); err != nil {
		s.logger.Warn("daily practice sync failed", "user_id", state.UserID, "error", err)
		out.SyncErr = &SyncError{UserID: state.UserID, Err: err}
	}
	return out, nil
}

// ResetPlan clears the user's plan and removes plan-derived reps from the
// queue. Resetting a user with no plan succeeds.
func (s *Service) ResetPlan(ctx context.Context, userID string) (*Outcome, error) {
	if fields := userIDProblems(userID); len(fields) > 0 {
		return nil, &ValidationError{Message: "reset needs a user", Fields: fields}
	}
	if err := s.plans.Delete(ctx, userID); err != nil {
		s.logger.Error("deleting development plan failed", "user_id", userID, "error", err)
		return nil, &PersistenceError{Op: "delete development plan", Err: err}
	}
	s.logger.Info("development plan reset", "user_id", userID)

	out := &Outcome{}
	if err := s.syncer.Prune(ctx, userID); err != nil {
		s.logger.Warn("pruning core reps failed", "user_id", userID, "error", err)
		out.SyncErr = &SyncError{UserID: userID, Err: err}
	}
	return out, nil
}

// State returns the user's aggregate, or nil when there is no plan.
func (s *Service) State(ctx context.Context, userID string) (*devplan.State, error) {
	if fields := userIDProblems(userID); len(fields) > 0 {
		return nil, &ValidationError{Message: "invalid user", Fields: fields}
	}
	return s.load(ctx, userID)
}

// ViewState loads the user's aggregate and derives the view from it.
func (s *Service) ViewState(ctx context.Context, userID string) (devplan.ViewState, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return "", err
	}
	return devplan.View(state, s.now()), nil
}

// Status is the dashboard read model.
type Status struct {
	View     devplan.ViewState  `json:"view"`
	State    *devplan.State     `json:"-"`
	Progress *devplan.Progress  `json:"progress,omitempty"`
	Reps     []practice.CoreRep `json:"reps"`
	RepsErr  error              `json:"-"`
}

// Status combines view state, cycle progress and the current reps. A
// failure to read the queue is reported on RepsErr, not as an error.
func (s *Service) Status(ctx context.Context, userID string) (*Status, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	st := &Status{View: devplan.View(state, now), State: state}
	if p, ok := devplan.ProgressOf(state, now); ok {
		st.Progress = &p
	}
	if state != nil {
		reps, err := s.syncer.Reps(ctx, userID)
		if err != nil {
			s.logger.Warn("reading daily practice failed", "user_id", userID, "error", err)
			st.RepsErr = &SyncError{UserID: userID, Err: err}
		}
		st.Reps = reps
	}
	return st, nil
}

// HistoryPoint is one assessment's scores, for charting.
type HistoryPoint struct {
	Date        string                   `json:"date"`
	CycleNumber int                      `json:"cycle_number"`
	Scores      []scoring.DimensionScore `json:"scores"`
	Average     float64                  `json:"average"`
}

// History returns per-assessment scores, oldest first.
func (s *Service) History(ctx context.Context, userID string) ([]HistoryPoint, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, &NotFoundError{UserID: userID, What: "development plan"}
	}
	points := make([]HistoryPoint, 0, len(state.AssessmentHistory))
	for _, rec := range state.AssessmentHistory {
		var scores []scoring.DimensionScore
		for _, name := range s.catalog.DimensionNames() {
			if ds, ok := rec.Scores[name]; ok {
				scores = append(scores, ds)
			}
		}
		points = append(points, HistoryPoint{
			Date:        rec.Date,
			CycleNumber: rec.CycleNumber,
			Scores:      scores,
			Average:     scoring.Summarize(scores).Average,
		})
	}
	return points, nil
}

func (s *Service) load(ctx context.Context, userID string) (*devplan.State, error) {
	state, err := s.plans.Load(ctx, userID)
	if err != nil {
		s.logger.Error("loading development plan failed", "user_id", userID, "error", err)
		return nil, &PersistenceError{Op: "load development plan", Err: err}
	}
	return state, nil
}

func userIDProblems(userID string) []string {
	if err := docstore.ValidateUserID(userID); err != nil {
		if userID == "" {
			return []string{"user_id: required"}
		}
		return []string{"user_id: invalid"}
	}
	return nil
}
