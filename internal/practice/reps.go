// Package practice keeps the daily-practice queue in step with the
// current development plan.
//
// The queue document belongs to the user, not to the engine. Only items
// tagged as plan-derived are ever replaced; everything else in the
// document is carried through untouched.
package practice

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/HendryAvila/devplan/internal/devplan"
)

const (
	// SourceTagDevelopmentPlan marks queue items owned by the engine.
	SourceTagDevelopmentPlan = "DevelopmentPlan"
	// StatusPending is the initial status of a derived rep.
	StatusPending = "Pending"
)

// repNamespace seeds deterministic rep ids so re-syncing the same plan
// produces identical items.
var repNamespace = uuid.MustParse("6f1c8a52-3c1e-4f7e-9a55-0d7f2b9c4e11")

// CoreRep is one plan-derived action item in the daily-practice queue.
type CoreRep struct {
	ID              string `json:"id"`
	Text            string `json:"text"`
	Status          string `json:"status"`
	OriginDimension string `json:"originDimension"`
	SourceTag       string `json:"sourceTag"`
	SourceCycle     int    `json:"sourceCycle"`
	CreatedAt       string `json:"createdAt"`
}

// DeriveCoreReps builds one rep per focus area, in plan order, from the
// area's first weekly action.
func DeriveCoreReps(plan devplan.Plan) []CoreRep {
	reps := make([]CoreRep, 0, len(plan.FocusAreas))
	for _, fa := range plan.FocusAreas {
		action := fmt.Sprintf("Practice %s daily", fa.Dimension)
		if len(fa.WeeklyActions) > 0 && fa.WeeklyActions[0].Action != "" {
			action = fa.WeeklyActions[0].Action
		}
		reps = append(reps, CoreRep{
			ID:              repID(plan, fa.Dimension),
			Text:            fmt.Sprintf("%s (Cycle %d)", action, plan.CycleNumber),
			Status:          StatusPending,
			OriginDimension: fa.Dimension,
			SourceTag:       SourceTagDevelopmentPlan,
			SourceCycle:     plan.CycleNumber,
			CreatedAt:       plan.CreatedAt,
		})
	}
	return reps
}

func repID(plan devplan.Plan, dimension string) string {
	key := fmt.Sprintf("%s|%d|%s", plan.ID, plan.CycleNumber, dimension)
	return uuid.NewSHA1(repNamespace, []byte(key)).String()
}
