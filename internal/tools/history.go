package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// HistoryTool handles the devplan_history MCP tool.
// It lists every recorded assessment, oldest first.
type HistoryTool struct {
	engine Engine
}

// NewHistoryTool creates a HistoryTool.
func NewHistoryTool(e Engine) *HistoryTool {
	return &HistoryTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("devplan_history",
		mcp.WithDescription(
			"List a user's assessment history, oldest first: date, cycle, "+
				"overall average and per-dimension scores of every assessment.",
		),
		withUserID(),
	)
}

// Handle processes the devplan_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := req.GetString("user_id", "")

	points, err := t.engine.History(ctx, userID)
	if err != nil {
		return errorResult(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Assessment History: %s\n\n", userID)
	for _, p := range points {
		fmt.Fprintf(&b, "## Cycle %d (%s)\n\n", p.CycleNumber, p.Date)
		fmt.Fprintf(&b, "**Overall average:** %.1f\n\n", p.Average)
		writeScores(&b, p.Scores)
	}
	fmt.Fprintf(&b, "---\n%d assessments recorded.\n", len(points))

	return mcp.NewToolResultText(b.String()), nil
}
