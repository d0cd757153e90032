package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// PlanTool handles the devplan_plan MCP tool.
// It returns the full current plan, as markdown or as the stored JSON.
type PlanTool struct {
	engine Engine
}

// NewPlanTool creates a PlanTool.
func NewPlanTool(e Engine) *PlanTool {
	return &PlanTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *PlanTool) Definition() mcp.Tool {
	return mcp.NewTool("devplan_plan",
		mcp.WithDescription(
			"Show the user's current development plan in full: focus areas with rationale, "+
				"target behavior, activities and weekly actions, plus strengths. "+
				"Set `format` to `json` for the raw plan aggregate.",
		),
		withUserID(),
		mcp.WithString("format",
			mcp.Description("Output format: `markdown` (default) or `json`."),
			mcp.Enum("markdown", "json"),
		),
	)
}

// Handle processes the devplan_plan tool call.
func (t *PlanTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := req.GetString("user_id", "")
	format := req.GetString("format", "markdown")
	if format != "markdown" && format != "json" {
		return mcp.NewToolResultError(fmt.Sprintf("Validation failed: format must be markdown or json, got %q", format)), nil
	}

	st, err := t.engine.Status(ctx, userID)
	if err != nil {
		return errorResult(err)
	}
	if !st.State.HasPlan() {
		return mcp.NewToolResultError(fmt.Sprintf(
			"No development plan for user %q. Start one with `devplan_initial_assessment`.", userID)), nil
	}

	if format == "json" {
		data, err := json.MarshalIndent(st.State, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding plan: %w", err)
		}
		return mcp.NewToolResultText(string(data)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Development Plan: %s\n\n", userID)
	writePlan(&b, st.State.CurrentPlan, true)
	return mcp.NewToolResultText(b.String()), nil
}
