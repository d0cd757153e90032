package devplan

import "time"

// Milestone names the stage of the 12-week cycle.
type Milestone string

const (
	MilestoneFoundation  Milestone = "Foundation"  // weeks 1-4
	MilestoneDevelopment Milestone = "Development" // weeks 5-8
	MilestoneMastery     Milestone = "Mastery"     // weeks 9-12
)

// WeeksPerCycle is the length of a cycle in weeks.
const WeeksPerCycle = 12

// Progress reports where the user is inside the current cycle.
type Progress struct {
	DaysElapsed   int       `json:"days_elapsed"`
	DaysRemaining int       `json:"days_remaining"`
	DaysUntilScan int       `json:"days_until_scan"`
	Week          int       `json:"week"`
	Milestone     Milestone `json:"milestone"`
	Window        string    `json:"window"`
}

// MilestoneFor maps a 1-based week onto its milestone.
func MilestoneFor(week int) Milestone {
	switch {
	case week <= 4:
		return MilestoneFoundation
	case week <= 8:
		return MilestoneDevelopment
	default:
		return MilestoneMastery
	}
}

// WindowFor returns the weekly-action window label for a week.
func WindowFor(week int) string {
	switch MilestoneFor(week) {
	case MilestoneFoundation:
		return "Weeks 1-4"
	case MilestoneDevelopment:
		return "Weeks 5-8"
	default:
		return "Weeks 9-12"
	}
}

// ProgressOf computes cycle progress from the last assessment date.
// ok is false when there is no plan or the reference date is unusable.
func ProgressOf(s *State, now time.Time) (Progress, bool) {
	if !s.HasPlan() {
		return Progress{}, false
	}
	ref, ok := parseTime(s.LastAssessmentDate)
	if !ok {
		ref, ok = parseTime(s.CreatedAt)
	}
	if !ok {
		return Progress{}, false
	}

	elapsed := DaysBetween(ref, now)
	if elapsed < 0 {
		elapsed = 0
	}
	week := elapsed/7 + 1
	if week > WeeksPerCycle {
		week = WeeksPerCycle
	}
	return Progress{
		DaysElapsed:   elapsed,
		DaysRemaining: max(CycleLengthDays-elapsed, 0),
		DaysUntilScan: max(ScanDueDays-elapsed, 0),
		Week:          week,
		Milestone:     MilestoneFor(week),
		Window:        WindowFor(week),
	}, true
}
