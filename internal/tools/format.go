package tools

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/devplan/internal/devplan"
	"github.com/HendryAvila/devplan/internal/scoring"
)

// writePlan renders a plan as markdown. detail adds activities and every
// weekly action window.
func writePlan(b *strings.Builder, p *devplan.Plan, detail bool) {
	fmt.Fprintf(b, "**Cycle:** %d (%s)\n", p.CycleNumber, p.PhaseName)
	fmt.Fprintf(b, "**Plan type:** %s\n", p.PlanType)
	if p.StartDate != "" {
		fmt.Fprintf(b, "**Window:** %s → %s\n", p.StartDate, p.EndDate)
	}
	if p.OpenEndedReflection != "" {
		fmt.Fprintf(b, "**Goals:** %s\n", p.OpenEndedReflection)
	}

	b.WriteString("\n## Focus Areas\n\n")
	for i, fa := range p.FocusAreas {
		score := "n/a"
		if fa.HasScore() {
			score = fmt.Sprintf("%.1f", *fa.Score)
		}
		fmt.Fprintf(b, "### %d. %s (score: %s)\n\n", i+1, fa.Dimension, score)
		fmt.Fprintf(b, "%s\n\n", fa.Rationale)
		fmt.Fprintf(b, "**Target behavior:** %s\n\n", fa.TargetBehavior)
		if !detail {
			continue
		}
		if len(fa.Activities) > 0 {
			b.WriteString("**Activities:**\n")
			for _, a := range fa.Activities {
				fmt.Fprintf(b, "- %s\n", a)
			}
			b.WriteString("\n")
		}
		if len(fa.WeeklyActions) > 0 {
			b.WriteString("**Weekly actions:**\n")
			for _, w := range fa.WeeklyActions {
				fmt.Fprintf(b, "- %s: %s\n", w.Window, w.Action)
			}
			b.WriteString("\n")
		}
	}

	if len(p.Strengths) > 0 {
		b.WriteString("## Strengths\n\n")
		for _, s := range p.Strengths {
			fmt.Fprintf(b, "- %s (%.1f)\n", s.Dimension, s.Score)
		}
		b.WriteString("\n")
	}
}

// writeScores renders a score table.
func writeScores(b *strings.Builder, scores []scoring.DimensionScore) {
	if len(scores) == 0 {
		return
	}
	b.WriteString("| Dimension | Score | Status |\n")
	b.WriteString("|-----------|-------|--------|\n")
	for _, s := range scores {
		fmt.Fprintf(b, "| %s | %.1f | %s |\n", s.Dimension, s.Score, s.Status)
	}
	b.WriteString("\n")
}

// writeSummary renders the assessment summary line.
func writeSummary(b *strings.Builder, s scoring.Summary) {
	fmt.Fprintf(b, "**Overall average:** %.1f\n", s.Average)
	if len(s.Strengths) > 0 {
		fmt.Fprintf(b, "**Top strengths:** %s\n", strings.Join(s.Strengths, ", "))
	}
	if len(s.GrowthFocus) > 0 {
		fmt.Fprintf(b, "**Growth focus:** %s\n", strings.Join(s.GrowthFocus, ", "))
	}
	b.WriteString("\n")
}
