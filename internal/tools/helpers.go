// Package tools implements MCP tool handlers for the development plan
// engine.
//
// Each tool is a struct that receives its dependencies via the
// constructor and exposes Definition() and Handle() for registration.
//
// Design principles:
// - SRP: each file = one tool
// - DIP: tools depend on the Engine interface, not on *engine.Service
// - caller identity is always an explicit user_id argument
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/devplan/internal/catalog"
	"github.com/HendryAvila/devplan/internal/devplan"
	"github.com/HendryAvila/devplan/internal/engine"
	"github.com/HendryAvila/devplan/internal/scoring"
)

// Engine is the subset of the engine the tools drive.
type Engine interface {
	Catalog() *catalog.Catalog
	SubmitInitialAssessment(ctx context.Context, userID string, answers scoring.Answers, reflection string) (*engine.Outcome, error)
	SubmitProgressScan(ctx context.Context, userID string, answers scoring.Answers, pair devplan.ReflectionPair, evidence, reflection string) (*engine.Outcome, error)
	ResetPlan(ctx context.Context, userID string) (*engine.Outcome, error)
	Status(ctx context.Context, userID string) (*engine.Status, error)
	History(ctx context.Context, userID string) ([]engine.HistoryPoint, error)
}

// withUserID is the shared user_id parameter.
func withUserID() mcp.ToolOption {
	return mcp.WithString("user_id",
		mcp.Required(),
		mcp.Description("Identifier of the user whose development plan is being read or changed."),
	)
}

// withAnswers is the shared answers parameter.
func withAnswers() mcp.ToolOption {
	return mcp.WithObject("answers",
		mcp.Required(),
		mcp.Description(
			"Map of question id to a Likert value from 1 (Strongly Disagree) to 5 (Strongly Agree). "+
				"Every question returned by `devplan_questions` must be answered. "+
				"A JSON-encoded string of the same object is also accepted.",
		),
	)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// answersArg decodes the answers argument. JSON numbers arrive as
// float64; non-integral values are rejected rather than truncated.
func answersArg(req mcp.CallToolRequest) (scoring.Answers, error) {
	raw, ok := req.GetArguments()["answers"]
	if !ok || raw == nil {
		return nil, errors.New("answers is required")
	}

	var obj map[string]any
	switch v := raw.(type) {
	case map[string]any:
		obj = v
	case string:
		if err := json.Unmarshal([]byte(v), &obj); err != nil {
			return nil, fmt.Errorf("answers must be a JSON object: %v", err)
		}
	default:
		return nil, fmt.Errorf("answers must be an object, got %T", raw)
	}

	answers := make(scoring.Answers, len(obj))
	for id, val := range obj {
		n, err := likert(val)
		if err != nil {
			return nil, fmt.Errorf("answers.%s: %v", id, err)
		}
		answers[id] = n
	}
	return answers, nil
}

func likert(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("must be a whole number, got %v", n)
		}
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("must be a whole number, got %s", n)
		}
		return int(i), nil
	}
	return 0, fmt.Errorf("must be a number, got %T", v)
}

// errorResult maps engine errors onto tool results. Validation, not-found
// and persistence failures become tool errors the caller can show; any
// other error is returned as a protocol error.
func errorResult(err error) (*mcp.CallToolResult, error) {
	var ve *engine.ValidationError
	var nf *engine.NotFoundError
	var pe *engine.PersistenceError
	switch {
	case errors.As(err, &ve):
		var b strings.Builder
		fmt.Fprintf(&b, "Validation failed: %s", ve.Message)
		for _, f := range ve.Fields {
			fmt.Fprintf(&b, "\n- %s", f)
		}
		return mcp.NewToolResultError(b.String()), nil
	case errors.As(err, &nf):
		return mcp.NewToolResultError(fmt.Sprintf(
			"No development plan for user %q. Start one with `devplan_initial_assessment`.", nf.UserID)), nil
	case errors.As(err, &pe):
		return mcp.NewToolResultError(fmt.Sprintf(
			"Storage failure during %s: %v\n\nNothing was changed. This error is retryable.", pe.Op, pe.Err)), nil
	}
	return nil, err
}

// syncWarning renders a sync failure as a trailing warning section.
func syncWarning(err *engine.SyncError) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf(
		"\n## Warning: daily practice not updated\n\n"+
			"The plan was saved, but the daily practice list could not be updated (%v). "+
			"Please check the task list manually.\n", err.Err)
}
