package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ResetTool handles the devplan_reset MCP tool.
// It deletes the user's plan and removes plan-derived reps.
type ResetTool struct {
	engine Engine
}

// NewResetTool creates a ResetTool.
func NewResetTool(e Engine) *ResetTool {
	return &ResetTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *ResetTool) Definition() mcp.Tool {
	return mcp.NewTool("devplan_reset",
		mcp.WithDescription(
			"Delete a user's development plan and assessment history, and remove "+
				"plan-derived core reps from the daily practice list. Other practice "+
				"items are left untouched. Requires `confirm: true`. This cannot be undone.",
		),
		withUserID(),
		mcp.WithBoolean("confirm",
			mcp.Required(),
			mcp.Description("Must be true to perform the reset."),
		),
	)
}

// Handle processes the devplan_reset tool call.
func (t *ResetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := req.GetString("user_id", "")
	if !boolArg(req, "confirm", false) {
		return mcp.NewToolResultError("Reset not performed: set `confirm` to true to delete the plan."), nil
	}

	out, err := t.engine.ResetPlan(ctx, userID)
	if err != nil {
		return errorResult(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Development Plan Reset: %s\n\n", userID)
	b.WriteString("The plan and assessment history were deleted. ")
	b.WriteString("Run `devplan_initial_assessment` to start again at cycle 1.\n")
	b.WriteString(syncWarning(out.SyncErr))

	return mcp.NewToolResultText(b.String()), nil
}
