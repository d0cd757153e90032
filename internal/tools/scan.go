package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/devplan/internal/devplan"
	"github.com/HendryAvila/devplan/internal/scoring"
)

// ProgressScanTool handles the devplan_progress_scan MCP tool.
// It re-scores the user, records the reflection pair and advances the
// plan to the next cycle.
type ProgressScanTool struct {
	engine Engine
}

// NewProgressScanTool creates a ProgressScanTool.
func NewProgressScanTool(e Engine) *ProgressScanTool {
	return &ProgressScanTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *ProgressScanTool) Definition() mcp.Tool {
	return mcp.NewTool("devplan_progress_scan",
		mcp.WithDescription(
			"Submit the 90-day progress scan for a user with an active plan. Re-scores every dimension, "+
				"records what improved and where the user is stuck, and generates the next cycle's plan: "+
				"the journey's standard focus areas plus the lowest-scoring dimension (at most three). "+
				"The daily practice list is replaced with the new cycle's core reps. "+
				"Can be submitted at any time; `devplan_status` reports when it is due.",
		),
		withUserID(),
		withAnswers(),
		mcp.WithString("what_improved",
			mcp.Required(),
			mcp.Description("What improved during the last cycle."),
		),
		mcp.WithString("where_stuck",
			mcp.Required(),
			mcp.Description("Where the user felt stuck during the last cycle."),
		),
		mcp.WithString("evidence_note",
			mcp.Required(),
			mcp.Description("A concrete example or observation backing the scan."),
		),
		mcp.WithString("reflection",
			mcp.Description("Optional fresh answer to the open reflection prompt for the next cycle. "+
				"When omitted the previous cycle's goals are kept."),
		),
	)
}

// Handle processes the devplan_progress_scan tool call.
func (t *ProgressScanTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := req.GetString("user_id", "")
	pair := devplan.ReflectionPair{
		WhatImproved: req.GetString("what_improved", ""),
		WhereStuck:   req.GetString("where_stuck", ""),
	}
	evidence := req.GetString("evidence_note", "")
	reflection := req.GetString("reflection", "")

	answers, err := answersArg(req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Validation failed: %v", err)), nil
	}

	out, err := t.engine.SubmitProgressScan(ctx, userID, answers, pair, evidence, reflection)
	if err != nil {
		return errorResult(err)
	}

	plan := out.State.CurrentPlan
	var b strings.Builder
	fmt.Fprintf(&b, "# Cycle %d Plan: %s\n\n", plan.CycleNumber, userID)
	writeSummary(&b, out.Summary)
	writeScores(&b, out.Scores)
	writeChanges(&b, out.State)
	writePlan(&b, plan, false)
	b.WriteString("---\n")
	if out.SyncErr == nil {
		fmt.Fprintf(&b, "Daily practice now holds %d core reps for cycle %d.\n",
			len(plan.FocusAreas), plan.CycleNumber)
	}
	b.WriteString(syncWarning(out.SyncErr))

	return mcp.NewToolResultText(b.String()), nil
}

// writeChanges compares the last two assessments, per dimension.
func writeChanges(b *strings.Builder, s *devplan.State) {
	n := len(s.AssessmentHistory)
	if n < 2 {
		return
	}
	prev := s.AssessmentHistory[n-2].Scores
	curr := s.AssessmentHistory[n-1].Scores

	var lines []string
	for _, fa := range s.CurrentPlan.FocusAreas {
		lines = append(lines, changeLine(fa.Dimension, prev, curr))
	}
	if len(lines) == 0 {
		return
	}
	b.WriteString("## Change Since Last Assessment\n\n")
	for _, l := range lines {
		b.WriteString(l)
	}
	b.WriteString("\n")
}

func changeLine(dim string, prev, curr map[string]scoring.DimensionScore) string {
	c, okC := curr[dim]
	p, okP := prev[dim]
	switch {
	case okC && okP:
		return fmt.Sprintf("- %s: %.1f → %.1f (%+.1f)\n", dim, p.Score, c.Score, scoring.Round1(c.Score-p.Score))
	case okC:
		return fmt.Sprintf("- %s: %.1f (new)\n", dim, c.Score)
	}
	return fmt.Sprintf("- %s: not scored\n", dim)
}
