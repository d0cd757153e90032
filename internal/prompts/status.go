package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the devplan-status MCP prompt.
// It instructs the AI to present the user's dashboard and next step.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("devplan-status",
		mcp.WithPromptDescription(
			"Check where you are in your development cycle: "+
				"week, milestone, daily core reps, and whether a progress scan is due.",
		),
		mcp.WithArgument("user_id",
			mcp.ArgumentDescription("Your user id. Default: me"),
		),
	)
}

// Handle processes the devplan-status prompt request.
func (p *StatusPrompt) Handle(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	userID := "me"
	if id := req.Params.Arguments["user_id"]; id != "" {
		userID = id
	}

	return &mcp.GetPromptResult{
		Description: "Development Plan Status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please run `devplan_status` for user %q.\n\n"+
						"Then:\n"+
						"1. If the view is needs_assessment, offer to start with `devplan_questions`\n"+
						"2. If the view is scan_due, tell me the 90-day progress scan is due and offer to run it. "+
						"The scan needs fresh answers, what improved, where I got stuck and one piece of evidence\n"+
						"3. Otherwise show my week, milestone and this window's weekly actions from `devplan_plan`\n"+
						"4. List my daily core reps",
					userID,
				)),
			},
		},
	}, nil
}
