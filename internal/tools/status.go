package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/devplan/internal/devplan"
)

// StatusTool handles the devplan_status MCP tool.
// It reports which view the user belongs in and where they are in the
// current cycle.
type StatusTool struct {
	engine Engine
}

// NewStatusTool creates a StatusTool.
func NewStatusTool(e Engine) *StatusTool {
	return &StatusTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("devplan_status",
		mcp.WithDescription(
			"Show a user's development plan dashboard. Returns the view state "+
				"(needs_assessment, scan_due or tracker), the cycle week and milestone, "+
				"days until the progress scan, and the current daily core reps.",
		),
		withUserID(),
	)
}

// Handle processes the devplan_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := req.GetString("user_id", "")

	st, err := t.engine.Status(ctx, userID)
	if err != nil {
		return errorResult(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Development Plan Status: %s\n\n", userID)
	fmt.Fprintf(&b, "**View:** %s\n", st.View)

	if st.View == devplan.ViewNeedsAssessment {
		b.WriteString("\nNo active plan. Run `devplan_questions`, then submit answers with `devplan_initial_assessment`.\n")
		return mcp.NewToolResultText(b.String()), nil
	}

	plan := st.State.CurrentPlan
	fmt.Fprintf(&b, "**Cycle:** %d (%s)\n", plan.CycleNumber, plan.PhaseName)
	fmt.Fprintf(&b, "**Focus:** %s\n", strings.Join(plan.FocusNames(), ", "))

	if p := st.Progress; p != nil {
		fmt.Fprintf(&b, "**Week:** %d of %d (%s milestone, %s)\n",
			p.Week, devplan.WeeksPerCycle, p.Milestone, p.Window)
		fmt.Fprintf(&b, "**Days elapsed:** %d, **remaining:** %d\n", p.DaysElapsed, p.DaysRemaining)
		if p.DaysUntilScan > 0 {
			fmt.Fprintf(&b, "**Progress scan:** due in %d days\n", p.DaysUntilScan)
		}
	}

	if st.View == devplan.ViewScanDue {
		fmt.Fprintf(&b, "\n## Progress Scan Due\n\nIt has been at least %d days since the last assessment. "+
			"Submit `devplan_progress_scan` to start cycle %d.\n", devplan.ScanDueDays, plan.CycleNumber+1)
	}

	b.WriteString("\n## Daily Core Reps\n\n")
	switch {
	case st.RepsErr != nil:
		fmt.Fprintf(&b, "Could not read the daily practice list: %v\n", st.RepsErr)
	case len(st.Reps) == 0:
		b.WriteString("No plan-derived reps in the daily practice list.\n")
	default:
		for _, r := range st.Reps {
			fmt.Fprintf(&b, "- [%s] %s (%s)\n", r.Status, r.Text, r.OriginDimension)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}
