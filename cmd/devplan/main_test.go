package main

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("DEVPLAN_STORE", "file")
	t.Setenv("DEVPLAN_DATA_DIR", t.TempDir())
	t.Setenv("DEVPLAN_LOG_LEVEL", "error")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestContentCmd_PrintsCatalog(t *testing.T) {
	out, err := execute(t, "content")
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if _, ok := doc["dimensions"]; !ok {
		t.Error("catalog should contain dimensions")
	}
}

func TestQuestionsCmd(t *testing.T) {
	out, err := execute(t, "questions")
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if !strings.Contains(out, "Leadership Self-Assessment") || !strings.Contains(out, "`q1`") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestStatusCmd_NewUser(t *testing.T) {
	out, err := execute(t, "status", "--user", "alice")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "needs_assessment") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestStatusCmd_RequiresUser(t *testing.T) {
	if _, err := execute(t, "status"); err == nil {
		t.Error("status without --user should fail")
	}
}

func TestPlanCmd_NoPlanIsError(t *testing.T) {
	_, err := execute(t, "plan", "--user", "alice")
	if err == nil || !strings.Contains(err.Error(), "No development plan") {
		t.Errorf("err = %v", err)
	}
}

func TestResetCmd_RequiresYes(t *testing.T) {
	_, err := execute(t, "reset", "--user", "alice")
	if err == nil || !strings.Contains(err.Error(), "confirm") {
		t.Errorf("err = %v", err)
	}
	out, err := execute(t, "reset", "--user", "alice", "--yes")
	if err != nil {
		t.Fatalf("reset --yes: %v", err)
	}
	if !strings.Contains(out, "Development Plan Reset: alice") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.Contains(out, "dev") {
		t.Errorf("unexpected output: %s", out)
	}
}
