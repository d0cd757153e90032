// Package prompts implements MCP prompt handlers for the development plan
// engine.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the devplan-start MCP prompt.
// It walks the AI through the initial assessment for a user.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("devplan-start",
		mcp.WithPromptDescription(
			"Start a leadership development plan. "+
				"Guides you through the self-assessment and creates your first 90-day plan.",
		),
		mcp.WithArgument("user_id",
			mcp.ArgumentDescription("Your user id. Default: me"),
		),
	)
}

// Handle processes the devplan-start prompt request.
func (p *StartPrompt) Handle(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	userID := "me"
	if args := req.Params.Arguments; args != nil {
		if id, ok := args["user_id"]; ok && id != "" {
			userID = id
		}
	}

	return &mcp.GetPromptResult{
		Description: "Start a Development Plan",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to start my leadership development plan. My user id is %q.\n\n"+
						"1. Run `devplan_status` first. If I already have a plan, show it and stop.\n"+
						"2. Run `devplan_questions` and ask me each question, one dimension at a time. "+
						"I answer with 1 (Strongly Disagree) to 5 (Strongly Agree).\n"+
						"3. Ask me the reflection question about my goals for the next 90 days.\n"+
						"4. Submit everything with `devplan_initial_assessment`.\n"+
						"5. Summarize my strengths, my three focus areas and my daily core reps.",
					userID,
				)),
			},
		},
	}, nil
}
