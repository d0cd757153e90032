package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/devplan/internal/catalog"
)

// QuestionsTool handles the devplan_questions MCP tool.
// It lists the assessment questionnaire so a client can collect answers.
type QuestionsTool struct {
	catalog *catalog.Catalog
}

// NewQuestionsTool creates a QuestionsTool over the given catalog.
func NewQuestionsTool(c *catalog.Catalog) *QuestionsTool {
	return &QuestionsTool{catalog: c}
}

// Definition returns the MCP tool definition for registration.
func (t *QuestionsTool) Definition() mcp.Tool {
	return mcp.NewTool("devplan_questions",
		mcp.WithDescription(
			"List the leadership self-assessment questionnaire: the Likert scale, "+
				"every question id grouped by dimension, and the open reflection prompt. "+
				"Use the ids as keys of `answers` in `devplan_initial_assessment` and `devplan_progress_scan`.",
		),
	)
}

// Handle processes the devplan_questions tool call.
func (t *QuestionsTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	b.WriteString("# Leadership Self-Assessment\n\n")

	b.WriteString("## Scale\n\n")
	for _, p := range t.catalog.Scale {
		fmt.Fprintf(&b, "- **%d**: %s\n", p.Value, p.Label)
	}

	byDim := make(map[string][]catalog.Question)
	for _, q := range t.catalog.Questions {
		byDim[q.Dimension] = append(byDim[q.Dimension], q)
	}
	for _, name := range t.catalog.DimensionNames() {
		qs := byDim[name]
		if len(qs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n", name)
		for _, q := range qs {
			fmt.Fprintf(&b, "- `%s`: %s\n", q.ID, q.Text)
		}
	}

	if t.catalog.ReflectionPrompt != "" {
		fmt.Fprintf(&b, "\n## Reflection\n\n%s\n", t.catalog.ReflectionPrompt)
	}

	fmt.Fprintf(&b, "\n---\n%d questions. Every question must be answered with a whole number from 1 to 5.\n",
		len(t.catalog.Questions))
	return mcp.NewToolResultText(b.String()), nil
}
