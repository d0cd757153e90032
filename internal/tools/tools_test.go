package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/devplan/internal/catalog"
	"github.com/HendryAvila/devplan/internal/devplan"
	"github.com/HendryAvila/devplan/internal/docstore"
	"github.com/HendryAvila/devplan/internal/engine"
	"github.com/HendryAvila/devplan/internal/practice"
	"github.com/HendryAvila/devplan/internal/scoring"
)

// --- Test helpers ---

// stubEngine wraps a real service and can inject failures.
type stubEngine struct {
	*engine.Service
	err     error
	syncErr error
}

func (s *stubEngine) SubmitInitialAssessment(ctx context.Context, userID string, answers scoring.Answers, reflection string) (*engine.Outcome, error) {
	if s.err != nil {
		return nil, s.err
	}
	out, err := s.Service.SubmitInitialAssessment(ctx, userID, answers, reflection)
	if err == nil && s.syncErr != nil {
		out.SyncErr = &engine.SyncError{UserID: userID, Err: s.syncErr}
	}
	return out, err
}

func (s *stubEngine) SubmitProgressScan(ctx context.Context, userID string, answers scoring.Answers, pair devplan.ReflectionPair, evidence, reflection string) (*engine.Outcome, error) {
	if s.err != nil {
		return nil, s.err
	}
	out, err := s.Service.SubmitProgressScan(ctx, userID, answers, pair, evidence, reflection)
	if err == nil && s.syncErr != nil {
		out.SyncErr = &engine.SyncError{UserID: userID, Err: s.syncErr}
	}
	return out, err
}

func (s *stubEngine) Status(ctx context.Context, userID string) (*engine.Status, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.Service.Status(ctx, userID)
}

func (s *stubEngine) ResetPlan(ctx context.Context, userID string) (*engine.Outcome, error) {
	if s.err != nil {
		return nil, s.err
	}
	out, err := s.Service.ResetPlan(ctx, userID)
	if err == nil && s.syncErr != nil {
		out.SyncErr = &engine.SyncError{UserID: userID, Err: s.syncErr}
	}
	return out, err
}

func newTestEngine(t *testing.T) *stubEngine {
	t.Helper()
	docs := docstore.NewMemory()
	svc := engine.New(
		catalog.MustDefault(),
		devplan.NewDocumentStore(docs),
		practice.NewSynchronizer(practice.NewQueueStore(docs), nil),
		nil,
	)
	return &stubEngine{Service: svc}
}

func answersAll(v int) map[string]interface{} {
	a := map[string]interface{}{}
	for _, id := range catalog.MustDefault().QuestionIDs() {
		a[id] = float64(v)
	}
	return a
}

func callTool(t *testing.T, handle func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected protocol error: %v", err)
	}
	return result
}

func startPlan(t *testing.T, e Engine, user string) {
	t.Helper()
	result := callTool(t, NewInitialAssessmentTool(e).Handle, map[string]interface{}{
		"user_id":    user,
		"answers":    answersAll(3),
		"reflection": "Grow my team",
	})
	if isErrorResult(result) {
		t.Fatalf("initial assessment failed: %s", getResultText(result))
	}
}

// isErrorResult checks if the result is a tool error.
func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// getResultText extracts the text content from a CallToolResult.
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// --- Definitions ---

func TestDefinitions(t *testing.T) {
	e := newTestEngine(t)
	tests := []struct {
		def      mcp.Tool
		name     string
		required []string
	}{
		{NewQuestionsTool(e.Catalog()).Definition(), "devplan_questions", nil},
		{NewInitialAssessmentTool(e).Definition(), "devplan_initial_assessment", []string{"user_id", "answers"}},
		{NewProgressScanTool(e).Definition(), "devplan_progress_scan", []string{"user_id", "answers", "what_improved", "where_stuck", "evidence_note"}},
		{NewStatusTool(e).Definition(), "devplan_status", []string{"user_id"}},
		{NewPlanTool(e).Definition(), "devplan_plan", []string{"user_id"}},
		{NewHistoryTool(e).Definition(), "devplan_history", []string{"user_id"}},
		{NewResetTool(e).Definition(), "devplan_reset", []string{"user_id", "confirm"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.def.Name != tt.name {
				t.Errorf("Name = %s, want %s", tt.def.Name, tt.name)
			}
			if tt.def.Description == "" {
				t.Error("Description is empty")
			}
			required := map[string]bool{}
			for _, r := range tt.def.InputSchema.Required {
				required[r] = true
			}
			for _, r := range tt.required {
				if !required[r] {
					t.Errorf("%s should be required", r)
				}
			}
		})
	}
}

// --- devplan_questions ---

func TestQuestionsTool_ListsEveryQuestion(t *testing.T) {
	c := catalog.MustDefault()
	result := callTool(t, NewQuestionsTool(c).Handle, nil)
	text := getResultText(result)

	for _, id := range c.QuestionIDs() {
		if !strings.Contains(text, "`"+id+"`") {
			t.Errorf("question %s missing", id)
		}
	}
	for _, want := range []string{"Strongly Disagree", "Clarity & Communication", c.ReflectionPrompt} {
		if !strings.Contains(text, want) {
			t.Errorf("output should contain %q", want)
		}
	}
}

// --- devplan_initial_assessment ---

func TestInitialAssessmentTool_CreatesPlan(t *testing.T) {
	e := newTestEngine(t)
	result := callTool(t, NewInitialAssessmentTool(e).Handle, map[string]interface{}{
		"user_id":    "alice",
		"answers":    answersAll(4),
		"reflection": "Delegate more",
	})
	if isErrorResult(result) {
		t.Fatalf("unexpected error: %s", getResultText(result))
	}

	text := getResultText(result)
	for _, want := range []string{
		"Development Plan Created: alice",
		"**Cycle:** 1 (Foundation)",
		"StandardFoundation",
		"Clarity & Communication",
		"Trust & Relationships",
		"Delegation & Empowerment",
		"**Goals:** Delegate more",
		"3 core reps added",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output should contain %q\n%s", want, text)
		}
	}
	if strings.Contains(text, "Warning") {
		t.Error("no sync warning expected")
	}
}

func TestInitialAssessmentTool_AnswersAsJSONString(t *testing.T) {
	e := newTestEngine(t)
	raw, err := json.Marshal(answersAll(3))
	if err != nil {
		t.Fatal(err)
	}
	result := callTool(t, NewInitialAssessmentTool(e).Handle, map[string]interface{}{
		"user_id": "bob",
		"answers": string(raw),
	})
	if isErrorResult(result) {
		t.Fatalf("unexpected error: %s", getResultText(result))
	}
}

func TestInitialAssessmentTool_BadAnswers(t *testing.T) {
	tests := []struct {
		name    string
		answers interface{}
		want    string
	}{
		{"missing", nil, "answers is required"},
		{"not json", "{q1:", "must be a JSON object"},
		{"wrong type", []interface{}{1, 2}, "must be an object"},
		{"fractional", map[string]interface{}{"q1": 3.5}, "whole number"},
		{"text value", map[string]interface{}{"q1": "three"}, "must be a number"},
		{"incomplete", map[string]interface{}{"q1": float64(3)}, "Validation failed"},
		{"out of range", func() map[string]interface{} {
			a := answersAll(3)
			a["q2"] = float64(6)
			return a
		}(), "Validation failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			args := map[string]interface{}{"user_id": "alice"}
			if tt.answers != nil {
				args["answers"] = tt.answers
			}
			result := callTool(t, NewInitialAssessmentTool(e).Handle, args)
			if !isErrorResult(result) {
				t.Fatal("expected error result")
			}
			if text := getResultText(result); !strings.Contains(text, tt.want) {
				t.Errorf("error = %q, want it to contain %q", text, tt.want)
			}
		})
	}
}

func TestInitialAssessmentTool_RejectsSecondAssessment(t *testing.T) {
	e := newTestEngine(t)
	startPlan(t, e, "alice")

	result := callTool(t, NewInitialAssessmentTool(e).Handle, map[string]interface{}{
		"user_id": "alice",
		"answers": answersAll(2),
	})
	if !isErrorResult(result) {
		t.Fatal("second initial assessment should fail")
	}
	if !strings.Contains(getResultText(result), "Validation failed") {
		t.Errorf("error = %s", getResultText(result))
	}
}

func TestInitialAssessmentTool_MissingUser(t *testing.T) {
	e := newTestEngine(t)
	result := callTool(t, NewInitialAssessmentTool(e).Handle, map[string]interface{}{
		"answers": answersAll(3),
	})
	if !isErrorResult(result) {
		t.Fatal("expected error result")
	}
	if !strings.Contains(getResultText(result), "user_id") {
		t.Errorf("error should name user_id: %s", getResultText(result))
	}
}

func TestInitialAssessmentTool_SyncWarning(t *testing.T) {
	e := newTestEngine(t)
	e.syncErr = errors.New("queue offline")

	result := callTool(t, NewInitialAssessmentTool(e).Handle, map[string]interface{}{
		"user_id": "alice",
		"answers": answersAll(3),
	})
	if isErrorResult(result) {
		t.Fatalf("sync failure must not fail the tool: %s", getResultText(result))
	}
	text := getResultText(result)
	if !strings.Contains(text, "Warning: daily practice not updated") || !strings.Contains(text, "queue offline") {
		t.Errorf("missing sync warning:\n%s", text)
	}
	if strings.Contains(text, "core reps added") {
		t.Errorf("reps line must not claim success when sync failed:\n%s", text)
	}
}

func TestInitialAssessmentTool_PersistenceFailure(t *testing.T) {
	e := newTestEngine(t)
	e.err = &engine.PersistenceError{Op: "save development plan", Err: errors.New("disk full")}

	result := callTool(t, NewInitialAssessmentTool(e).Handle, map[string]interface{}{
		"user_id": "alice",
		"answers": answersAll(3),
	})
	if !isErrorResult(result) {
		t.Fatal("expected error result")
	}
	text := getResultText(result)
	if !strings.Contains(text, "retryable") || !strings.Contains(text, "disk full") {
		t.Errorf("error = %s", text)
	}
}

func TestInitialAssessmentTool_UnexpectedErrorIsProtocolError(t *testing.T) {
	e := newTestEngine(t)
	e.err = errors.New("boom")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"user_id": "alice", "answers": answersAll(3)}
	result, err := NewInitialAssessmentTool(e).Handle(context.Background(), req)
	if err == nil {
		t.Fatalf("expected protocol error, got result %v", result)
	}
}

// --- devplan_progress_scan ---

func scanArgs(user string) map[string]interface{} {
	return map[string]interface{}{
		"user_id":       user,
		"answers":       answersAll(3),
		"what_improved": "Clearer weekly priorities",
		"where_stuck":   "Letting go of hiring decisions",
		"evidence_note": "Two direct reports ran planning alone",
	}
}

func TestProgressScanTool_AdvancesCycle(t *testing.T) {
	e := newTestEngine(t)
	startPlan(t, e, "alice")

	result := callTool(t, NewProgressScanTool(e).Handle, scanArgs("alice"))
	if isErrorResult(result) {
		t.Fatalf("unexpected error: %s", getResultText(result))
	}
	text := getResultText(result)
	for _, want := range []string{
		"# Cycle 2 Plan: alice",
		"Personalized",
		"Delegation & Empowerment",
		"Coaching & Feedback",
		"Change Since Last Assessment",
		"cycle 2",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output should contain %q\n%s", want, text)
		}
	}
}

func TestProgressScanTool_NoPlan(t *testing.T) {
	e := newTestEngine(t)
	result := callTool(t, NewProgressScanTool(e).Handle, scanArgs("ghost"))
	if !isErrorResult(result) {
		t.Fatal("expected error result")
	}
	if !strings.Contains(getResultText(result), "devplan_initial_assessment") {
		t.Errorf("error should point to the initial assessment: %s", getResultText(result))
	}
}

func TestProgressScanTool_RequiresReflection(t *testing.T) {
	for _, field := range []string{"what_improved", "where_stuck", "evidence_note"} {
		t.Run(field, func(t *testing.T) {
			e := newTestEngine(t)
			startPlan(t, e, "alice")

			args := scanArgs("alice")
			args[field] = "   "
			result := callTool(t, NewProgressScanTool(e).Handle, args)
			if !isErrorResult(result) {
				t.Fatal("expected error result")
			}
			if !strings.Contains(getResultText(result), field) {
				t.Errorf("error should name %s: %s", field, getResultText(result))
			}
		})
	}
}

func TestProgressScanTool_Reflection(t *testing.T) {
	tests := []struct {
		name       string
		reflection string
		want       string
	}{
		{"fresh reflection stored", "Build a second-line leadership bench", "Build a second-line leadership bench"},
		{"omitted keeps previous", "", "Grow my team"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			startPlan(t, e, "alice")

			args := scanArgs("alice")
			if tt.reflection != "" {
				args["reflection"] = tt.reflection
			}
			result := callTool(t, NewProgressScanTool(e).Handle, args)
			if isErrorResult(result) {
				t.Fatalf("unexpected error: %s", getResultText(result))
			}

			st, err := e.Status(context.Background(), "alice")
			if err != nil {
				t.Fatalf("Status() error: %v", err)
			}
			if got := st.State.CurrentPlan.OpenEndedReflection; got != tt.want {
				t.Errorf("plan reflection = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProgressScanTool_SyncWarning(t *testing.T) {
	e := newTestEngine(t)
	startPlan(t, e, "alice")
	e.syncErr = errors.New("queue offline")

	result := callTool(t, NewProgressScanTool(e).Handle, scanArgs("alice"))
	if isErrorResult(result) {
		t.Fatalf("sync failure must not fail the tool: %s", getResultText(result))
	}
	text := getResultText(result)
	if !strings.Contains(text, "Warning: daily practice not updated") {
		t.Errorf("missing sync warning:\n%s", text)
	}
	if strings.Contains(text, "Daily practice now holds") {
		t.Errorf("reps line must not claim success when sync failed:\n%s", text)
	}
}

// --- devplan_status ---

func TestStatusTool_NeedsAssessment(t *testing.T) {
	e := newTestEngine(t)
	result := callTool(t, NewStatusTool(e).Handle, map[string]interface{}{"user_id": "new-user"})
	if isErrorResult(result) {
		t.Fatalf("unexpected error: %s", getResultText(result))
	}
	text := getResultText(result)
	if !strings.Contains(text, "needs_assessment") || !strings.Contains(text, "devplan_questions") {
		t.Errorf("unexpected output:\n%s", text)
	}
}

func TestStatusTool_Tracker(t *testing.T) {
	e := newTestEngine(t)
	startPlan(t, e, "alice")

	result := callTool(t, NewStatusTool(e).Handle, map[string]interface{}{"user_id": "alice"})
	text := getResultText(result)
	for _, want := range []string{
		"**View:** tracker",
		"**Cycle:** 1 (Foundation)",
		"Week:** 1 of 12",
		"Foundation milestone",
		"[Pending]",
		"(Cycle 1)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output should contain %q\n%s", want, text)
		}
	}
}

func TestStatusTool_InvalidUser(t *testing.T) {
	e := newTestEngine(t)
	result := callTool(t, NewStatusTool(e).Handle, map[string]interface{}{"user_id": "../etc"})
	if !isErrorResult(result) {
		t.Fatal("expected error result")
	}
}

// --- devplan_plan ---

func TestPlanTool_Markdown(t *testing.T) {
	e := newTestEngine(t)
	startPlan(t, e, "alice")

	result := callTool(t, NewPlanTool(e).Handle, map[string]interface{}{"user_id": "alice"})
	text := getResultText(result)
	for _, want := range []string{"**Activities:**", "**Weekly actions:**", "Weeks 9-12", "**Target behavior:**"} {
		if !strings.Contains(text, want) {
			t.Errorf("output should contain %q", want)
		}
	}
}

func TestPlanTool_JSON(t *testing.T) {
	e := newTestEngine(t)
	startPlan(t, e, "alice")

	result := callTool(t, NewPlanTool(e).Handle, map[string]interface{}{"user_id": "alice", "format": "json"})
	var state devplan.State
	if err := json.Unmarshal([]byte(getResultText(result)), &state); err != nil {
		t.Fatalf("output is not a state document: %v", err)
	}
	if state.UserID != "alice" || state.CurrentCycleNumber != 1 || !state.HasPlan() {
		t.Errorf("state = %+v", state)
	}
}

func TestPlanTool_Errors(t *testing.T) {
	e := newTestEngine(t)
	result := callTool(t, NewPlanTool(e).Handle, map[string]interface{}{"user_id": "alice"})
	if !isErrorResult(result) {
		t.Error("missing plan should be an error")
	}
	result = callTool(t, NewPlanTool(e).Handle, map[string]interface{}{"user_id": "alice", "format": "yaml"})
	if !isErrorResult(result) || !strings.Contains(getResultText(result), "format") {
		t.Errorf("bad format should be rejected: %s", getResultText(result))
	}
}

// --- devplan_history ---

func TestHistoryTool(t *testing.T) {
	e := newTestEngine(t)
	startPlan(t, e, "alice")
	callTool(t, NewProgressScanTool(e).Handle, scanArgs("alice"))

	result := callTool(t, NewHistoryTool(e).Handle, map[string]interface{}{"user_id": "alice"})
	if isErrorResult(result) {
		t.Fatalf("unexpected error: %s", getResultText(result))
	}
	text := getResultText(result)
	if !strings.Contains(text, "## Cycle 1") || !strings.Contains(text, "## Cycle 2") {
		t.Errorf("both assessments expected:\n%s", text)
	}
	if !strings.Contains(text, "2 assessments recorded") {
		t.Errorf("count missing:\n%s", text)
	}
	if strings.Index(text, "## Cycle 1") > strings.Index(text, "## Cycle 2") {
		t.Error("history should be oldest first")
	}
}

func TestHistoryTool_NoPlan(t *testing.T) {
	e := newTestEngine(t)
	result := callTool(t, NewHistoryTool(e).Handle, map[string]interface{}{"user_id": "ghost"})
	if !isErrorResult(result) {
		t.Fatal("expected error result")
	}
}

// --- devplan_reset ---

func TestResetTool_RequiresConfirm(t *testing.T) {
	e := newTestEngine(t)
	startPlan(t, e, "alice")

	result := callTool(t, NewResetTool(e).Handle, map[string]interface{}{"user_id": "alice"})
	if !isErrorResult(result) {
		t.Fatal("reset without confirm should fail")
	}

	st, err := e.Status(context.Background(), "alice")
	if err != nil {
		t.Fatal(err)
	}
	if st.View == devplan.ViewNeedsAssessment {
		t.Error("plan should survive an unconfirmed reset")
	}
}

func TestResetTool_ClearsPlan(t *testing.T) {
	e := newTestEngine(t)
	startPlan(t, e, "alice")

	result := callTool(t, NewResetTool(e).Handle, map[string]interface{}{"user_id": "alice", "confirm": true})
	if isErrorResult(result) {
		t.Fatalf("unexpected error: %s", getResultText(result))
	}

	st, err := e.Status(context.Background(), "alice")
	if err != nil {
		t.Fatal(err)
	}
	if st.View != devplan.ViewNeedsAssessment {
		t.Errorf("View = %s, want needs_assessment", st.View)
	}

	// Reset puts the user back at cycle 1.
	startPlan(t, e, "alice")
}

func TestResetTool_SyncWarning(t *testing.T) {
	e := newTestEngine(t)
	e.syncErr = errors.New("queue offline")

	result := callTool(t, NewResetTool(e).Handle, map[string]interface{}{"user_id": "alice", "confirm": true})
	if isErrorResult(result) {
		t.Fatalf("unexpected error: %s", getResultText(result))
	}
	if !strings.Contains(getResultText(result), "Warning") {
		t.Error("expected sync warning")
	}
}
