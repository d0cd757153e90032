package devplan

import (
	"fmt"
	"time"
)

// NewAssessmentRecord stamps a new history entry with an id and the
// current time.
func NewAssessmentRecord(cycle int) AssessmentRecord {
	return AssessmentRecord{
		ID:          newID(),
		Date:        formatTime(timeNow()),
		CycleNumber: cycle,
	}
}

// Begin creates the aggregate for a user's first cycle. The record and
// plan must both belong to cycle 1.
func Begin(userID string, record AssessmentRecord, plan Plan) (*State, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if record.CycleNumber != 1 || plan.CycleNumber != 1 {
		return nil, fmt.Errorf("initial assessment must start cycle 1, got record %d and plan %d",
			record.CycleNumber, plan.CycleNumber)
	}
	if err := ValidatePlanType(plan.PlanType); err != nil {
		return nil, err
	}

	now := formatTime(timeNow())
	p := plan
	return &State{
		UserID:             userID,
		CurrentPlan:        &p,
		CurrentCycleNumber: 1,
		LastAssessmentDate: record.Date,
		AssessmentHistory:  []AssessmentRecord{record},
		PlanHistory:        []Plan{plan},
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// CanAdvance returns nil if s may move on to the next cycle.
func CanAdvance(s *State) error {
	if !s.HasPlan() {
		return fmt.Errorf("no active development plan")
	}
	return nil
}

// Advance closes the current cycle and opens the next one. It returns a
// new State; s is left untouched so the caller can discard the result if
// persisting it fails.
func Advance(s *State, record AssessmentRecord, plan Plan) (*State, error) {
	if err := CanAdvance(s); err != nil {
		return nil, err
	}
	next := s.CurrentCycleNumber + 1
	if record.CycleNumber != next || plan.CycleNumber != next {
		return nil, fmt.Errorf("progress scan must open cycle %d, got record %d and plan %d",
			next, record.CycleNumber, plan.CycleNumber)
	}
	if err := ValidatePlanType(plan.PlanType); err != nil {
		return nil, err
	}

	out := s.clone()
	p := plan
	out.CurrentPlan = &p
	out.CurrentCycleNumber = next
	out.LastAssessmentDate = record.Date
	out.AssessmentHistory = append(out.AssessmentHistory, record)
	out.PlanHistory = append(out.PlanHistory, plan)
	out.UpdatedAt = formatTime(timeNow())
	return out, nil
}

// View derives what the caller should show the user. The reference date
// is the last assessment, falling back to the aggregate's creation time.
// An unparseable reference date yields ViewTracker rather than nagging
// the user for a scan.
func View(s *State, now time.Time) ViewState {
	if !s.HasPlan() {
		return ViewNeedsAssessment
	}
	ref, ok := parseTime(s.LastAssessmentDate)
	if !ok {
		ref, ok = parseTime(s.CreatedAt)
	}
	if !ok {
		return ViewTracker
	}
	if DaysBetween(ref, now) >= ScanDueDays {
		return ViewScanDue
	}
	return ViewTracker
}

// DaysBetween returns the number of whole days elapsed from a to b.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
