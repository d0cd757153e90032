package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/devplan/internal/devplan"
)

// InitialAssessmentTool handles the devplan_initial_assessment MCP tool.
// It scores the first assessment and starts cycle 1.
type InitialAssessmentTool struct {
	engine Engine
}

// NewInitialAssessmentTool creates an InitialAssessmentTool.
func NewInitialAssessmentTool(e Engine) *InitialAssessmentTool {
	return &InitialAssessmentTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *InitialAssessmentTool) Definition() mcp.Tool {
	return mcp.NewTool("devplan_initial_assessment",
		mcp.WithDescription(
			"Submit a user's first leadership self-assessment. Scores every dimension, "+
				"creates the cycle 1 Standard Foundation plan (Clarity & Communication, Trust & Relationships, "+
				"Delegation & Empowerment) and adds one daily core rep per focus area to the practice list. "+
				"Fails if the user already has a plan; use `devplan_progress_scan` instead.",
		),
		withUserID(),
		withAnswers(),
		mcp.WithString("reflection",
			mcp.Description("Optional answer to the open reflection prompt (the user's own goals)."),
		),
	)
}

// Handle processes the devplan_initial_assessment tool call.
func (t *InitialAssessmentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := req.GetString("user_id", "")
	reflection := req.GetString("reflection", "")

	answers, err := answersArg(req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Validation failed: %v", err)), nil
	}

	out, err := t.engine.SubmitInitialAssessment(ctx, userID, answers, reflection)
	if err != nil {
		return errorResult(err)
	}

	plan := out.State.CurrentPlan
	var b strings.Builder
	fmt.Fprintf(&b, "# Development Plan Created: %s\n\n", userID)
	writeSummary(&b, out.Summary)
	writeScores(&b, out.Scores)
	writePlan(&b, plan, false)
	b.WriteString("---\n")
	if out.SyncErr == nil {
		fmt.Fprintf(&b, "%d core reps added to daily practice. ", len(plan.FocusAreas))
	}
	fmt.Fprintf(&b, "Next progress scan is due in %d days.\n", devplan.ScanDueDays)
	b.WriteString(syncWarning(out.SyncErr))

	return mcp.NewToolResultText(b.String()), nil
}
