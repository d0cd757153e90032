// Package devplan owns a user's development plan across repeated 90-day
// cycles: the persisted aggregate, the cycle state machine and the
// derived view state.
//
// This package follows the same split as the rest of the engine:
// - types, state machine, progress and store live in separate files
// - Store is an interface; the engine depends on the abstraction
// - transitions are pure: they return a new State and never mutate the input
package devplan

import (
	"fmt"

	"github.com/HendryAvila/devplan/internal/catalog"
	"github.com/HendryAvila/devplan/internal/scoring"
)

// --- Plan type enum ---

// PlanType records how a plan's focus areas were chosen.
type PlanType string

const (
	PlanStandardFoundation PlanType = "StandardFoundation"
	PlanPersonalized       PlanType = "Personalized"
)

// validPlanTypes is the set of allowed plan types.
var validPlanTypes = map[PlanType]bool{
	PlanStandardFoundation: true,
	PlanPersonalized:       true,
}

// ValidatePlanType returns an error if the plan type is not recognized.
func ValidatePlanType(t PlanType) error {
	if !validPlanTypes[t] {
		return fmt.Errorf("invalid plan type %q: must be one of: StandardFoundation, Personalized", t)
	}
	return nil
}

// --- View state enum ---

// ViewState is the derived, never-stored state the caller renders.
type ViewState string

const (
	ViewNeedsAssessment ViewState = "needs_assessment"
	ViewScanDue         ViewState = "scan_due"
	ViewTracker         ViewState = "tracker"
)

// Cycle timing, in days.
const (
	CycleLengthDays = 90
	ScanDueDays     = 85
)

// --- Core data structures ---

// FocusArea is one dimension selected as a priority for the cycle.
// Score is nil when it does not apply (cycle 1).
type FocusArea struct {
	Dimension      string                 `json:"dimension"`
	Score          *float64               `json:"score"`
	Rationale      string                 `json:"rationale"`
	TargetBehavior string                 `json:"target_behavior"`
	Activities     []string               `json:"activities"`
	WeeklyActions  []catalog.WeeklyAction `json:"weekly_actions"`
}

// HasScore reports whether the focus area carries a score.
func (f FocusArea) HasScore() bool {
	return f.Score != nil
}

// Plan is the growth plan for one cycle.
type Plan struct {
	ID                  string                   `json:"id"`
	CycleNumber         int                      `json:"cycle_number"`
	PhaseName           catalog.Phase            `json:"phase_name"`
	PlanType            PlanType                 `json:"plan_type"`
	FocusAreas          []FocusArea              `json:"focus_areas"`
	Strengths           []scoring.DimensionScore `json:"strengths"`
	OpenEndedReflection string                   `json:"open_ended_reflection"`
	StartDate           string                   `json:"start_date"` // YYYY-MM-DD
	EndDate             string                   `json:"end_date"`   // StartDate + CycleLengthDays
	CreatedAt           string                   `json:"created_at"` // RFC3339
}

// FocusNames returns the focus dimension names in plan order.
func (p Plan) FocusNames() []string {
	names := make([]string, len(p.FocusAreas))
	for i, f := range p.FocusAreas {
		names[i] = f.Dimension
	}
	return names
}

// ReflectionPair is the two-question reflection of a progress scan.
type ReflectionPair struct {
	WhatImproved string `json:"what_improved"`
	WhereStuck   string `json:"where_stuck"`
}

// AssessmentRecord is one append-only history entry.
type AssessmentRecord struct {
	ID                  string                            `json:"id"`
	Date                string                            `json:"date"` // RFC3339
	CycleNumber         int                               `json:"cycle_number"`
	Answers             scoring.Answers                   `json:"answers"`
	Scores              map[string]scoring.DimensionScore `json:"scores"`
	OpenEndedReflection string                            `json:"open_ended_reflection"`
	ReflectionPair      *ReflectionPair                   `json:"reflection_pair,omitempty"`
	EvidenceNote        string                            `json:"evidence_note,omitempty"`
}

// State is the per-user development plan aggregate.
type State struct {
	UserID             string             `json:"user_id"`
	CurrentPlan        *Plan              `json:"current_plan"`
	CurrentCycleNumber int                `json:"current_cycle_number"`
	LastAssessmentDate string             `json:"last_assessment_date"`
	AssessmentHistory  []AssessmentRecord `json:"assessment_history"`
	PlanHistory        []Plan             `json:"plan_history"`
	CreatedAt          string             `json:"created_at"`
	UpdatedAt          string             `json:"updated_at"`
}

// HasPlan reports whether the state holds an active plan.
func (s *State) HasPlan() bool {
	return s != nil && s.CurrentPlan != nil
}

// clone copies the state deeply enough that appending to the histories
// or replacing the current plan never aliases the original.
func (s *State) clone() *State {
	c := *s
	c.AssessmentHistory = append([]AssessmentRecord(nil), s.AssessmentHistory...)
	c.PlanHistory = append([]Plan(nil), s.PlanHistory...)
	if s.CurrentPlan != nil {
		p := *s.CurrentPlan
		c.CurrentPlan = &p
	}
	return &c
}
