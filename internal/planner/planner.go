// Package planner turns dimension scores into a cycle's development plan.
//
// Cycle 1 always gets the fixed onboarding dimensions. Later cycles take
// the journey's two standard dimensions for that cycle and, when it is
// not already among them, the lowest-scoring dimension.
package planner

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/HendryAvila/devplan/internal/catalog"
	"github.com/HendryAvila/devplan/internal/devplan"
	"github.com/HendryAvila/devplan/internal/logging"
	"github.com/HendryAvila/devplan/internal/scoring"
)

// Plan size limits.
const (
	MaxFocusAreas = 3
	MaxStrengths  = 2
)

// Generator builds plans from a catalog.
type Generator struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// New creates a Generator. A nil logger discards warnings.
func New(c *catalog.Catalog, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Generator{catalog: c, logger: logger}
}

// Generate builds the plan for cycle. scores may be nil for cycle 1;
// they are ignored for selection there.
func (g *Generator) Generate(scores []scoring.DimensionScore, reflection string, cycle int) (devplan.Plan, error) {
	if cycle < 1 {
		return devplan.Plan{}, fmt.Errorf("planner: cycle must be >= 1, got %d", cycle)
	}

	now := timeNow().UTC()
	plan := devplan.Plan{
		ID:                  newID(),
		CycleNumber:         cycle,
		PhaseName:           g.catalog.Cycle(cycle).Phase,
		OpenEndedReflection: reflection,
		Strengths:           []scoring.DimensionScore{},
		StartDate:           now.Format("2006-01-02"),
		EndDate:             now.AddDate(0, 0, devplan.CycleLengthDays).Format("2006-01-02"),
		CreatedAt:           now.Format(time.RFC3339),
	}

	if cycle == 1 {
		plan.PlanType = devplan.PlanStandardFoundation
		for _, name := range g.catalog.OnboardingDimensions() {
			fa, ok := g.focusArea(name, nil)
			if !ok {
				return devplan.Plan{}, fmt.Errorf("planner: onboarding dimension %q missing from catalog", name)
			}
			plan.FocusAreas = append(plan.FocusAreas, fa)
		}
		return plan, nil
	}

	plan.PlanType = devplan.PlanPersonalized
	byDim := scoring.ByDimension(scores)

	names := g.standardNames(cycle)
	if lowest, ok := g.lowest(byDim); ok && !contains(names, lowest) {
		names = append(names, lowest)
	}
	if len(names) > MaxFocusAreas {
		names = names[:MaxFocusAreas]
	}

	for _, name := range names {
		var score *float64
		if ds, ok := byDim[name]; ok {
			v := ds.Score
			score = &v
		}
		fa, ok := g.focusArea(name, score)
		if !ok {
			continue
		}
		plan.FocusAreas = append(plan.FocusAreas, fa)
	}

	plan.Strengths = append(plan.Strengths, scoring.TopStrengths(g.canonical(byDim), MaxStrengths)...)
	return plan, nil
}

// standardNames returns the journey's standard dimensions for cycle,
// de-duplicated, with names unknown to the catalog dropped.
func (g *Generator) standardNames(cycle int) []string {
	entry := g.catalog.Cycle(cycle)
	var names []string
	for _, name := range entry.Standard {
		if !g.catalog.HasDimension(name) {
			g.logger.Warn("journey references unknown dimension; dropping it",
				"cycle", cycle, "journey_cycle", entry.Cycle, "dimension", name)
			continue
		}
		if contains(names, name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

// lowest finds the lowest-scoring dimension. Ties go to the dimension
// that comes first in canonical order.
func (g *Generator) lowest(byDim map[string]scoring.DimensionScore) (string, bool) {
	best := ""
	found := false
	var low float64
	for _, name := range g.catalog.DimensionNames() {
		ds, ok := byDim[name]
		if !ok {
			continue
		}
		if !found || ds.Score < low {
			best, low, found = name, ds.Score, true
		}
	}
	return best, found
}

// canonical returns the known scores in canonical dimension order so
// strength ties are broken the same way as personalization ties.
func (g *Generator) canonical(byDim map[string]scoring.DimensionScore) []scoring.DimensionScore {
	var out []scoring.DimensionScore
	for _, name := range g.catalog.DimensionNames() {
		if ds, ok := byDim[name]; ok {
			out = append(out, ds)
		}
	}
	return out
}

func (g *Generator) focusArea(name string, score *float64) (devplan.FocusArea, bool) {
	d, ok := g.catalog.Dimension(name)
	if !ok {
		return devplan.FocusArea{}, false
	}
	return devplan.FocusArea{
		Dimension:      d.Name,
		Score:          score,
		Rationale:      d.Rationale,
		TargetBehavior: d.TargetBehavior,
		Activities:     d.Activities,
		WeeklyActions:  d.WeeklyActions,
	}, true
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
