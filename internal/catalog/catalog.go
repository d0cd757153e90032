// Package catalog holds the static reference data of the development plan
// engine: the eight leadership dimensions, the assessment question set
// that maps onto them, and the journey map of curated cycles.
//
// The catalog is immutable once loaded. The default content is embedded
// in the binary (content.yaml); operators can replace it with their own
// YAML file, which goes through the same validation.
package catalog

import (
	"fmt"
	"strings"
)

// --- Phase enum ---

// Phase names the stage of the journey a cycle belongs to.
type Phase string

const (
	PhaseFoundation  Phase = "Foundation"
	PhasePerformance Phase = "Performance"
	PhaseImpact      Phase = "Impact"
)

// validPhases is the set of allowed journey phases.
var validPhases = map[Phase]bool{
	PhaseFoundation:  true,
	PhasePerformance: true,
	PhaseImpact:      true,
}

// ValidatePhase returns an error if the phase is not recognized.
func ValidatePhase(p Phase) error {
	if !validPhases[p] {
		return fmt.Errorf("invalid phase %q: must be one of: Foundation, Performance, Impact", p)
	}
	return nil
}

// DimensionCount is the fixed number of leadership dimensions.
const DimensionCount = 8

// OnboardingCount is the number of fixed cycle-1 focus dimensions.
const OnboardingCount = 3

// --- Core data structures ---

// WeeklyAction is one suggested action for a window of the cycle.
type WeeklyAction struct {
	Window string `yaml:"window" json:"window"`
	Action string `yaml:"action" json:"action"`
}

// Dimension is a leadership competency and its descriptive content.
type Dimension struct {
	Name           string         `yaml:"name" json:"name"`
	Rationale      string         `yaml:"rationale" json:"rationale"`
	TargetBehavior string         `yaml:"target_behavior" json:"target_behavior"`
	Activities     []string       `yaml:"activities" json:"activities"`
	WeeklyActions  []WeeklyAction `yaml:"weekly_actions" json:"weekly_actions"`
}

// Question is one Likert item of the assessment.
type Question struct {
	ID        string `yaml:"id" json:"id"`
	Text      string `yaml:"text" json:"text"`
	Dimension string `yaml:"dimension" json:"dimension"`
}

// ScalePoint labels one value of the 1-5 Likert scale.
type ScalePoint struct {
	Value int    `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// JourneyCycle is the curated default for one cycle.
type JourneyCycle struct {
	Cycle    int      `yaml:"cycle" json:"cycle"`
	Phase    Phase    `yaml:"phase" json:"phase"`
	Standard []string `yaml:"standard" json:"standard"`
}

// Catalog is the loaded, validated reference data.
type Catalog struct {
	ReflectionPrompt string         `yaml:"reflection_prompt" json:"reflection_prompt"`
	Scale            []ScalePoint   `yaml:"scale" json:"scale"`
	Onboarding       []string       `yaml:"onboarding" json:"onboarding"`
	Dimensions       []Dimension    `yaml:"dimensions" json:"dimensions"`
	Questions        []Question     `yaml:"questions" json:"questions"`
	Journey          []JourneyCycle `yaml:"journey" json:"journey"`

	byName     map[string]int
	byQuestion map[string]string
}

// index builds the lookup tables. Called once after decoding.
func (c *Catalog) index() {
	c.byName = make(map[string]int, len(c.Dimensions))
	for i, d := range c.Dimensions {
		c.byName[d.Name] = i
	}
	c.byQuestion = make(map[string]string, len(c.Questions))
	for _, q := range c.Questions {
		c.byQuestion[q.ID] = q.Dimension
	}
}

// Dimension returns the named dimension. The returned value shares no
// slices with the catalog.
func (c *Catalog) Dimension(name string) (Dimension, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Dimension{}, false
	}
	d := c.Dimensions[i]
	d.Activities = append([]string(nil), d.Activities...)
	d.WeeklyActions = append([]WeeklyAction(nil), d.WeeklyActions...)
	return d, true
}

// HasDimension reports whether name is a known dimension.
func (c *Catalog) HasDimension(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// DimensionNames returns the dimension names in canonical order.
func (c *Catalog) DimensionNames() []string {
	names := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		names[i] = d.Name
	}
	return names
}

// QuestionDimension returns the dimension a question maps to.
func (c *Catalog) QuestionDimension(questionID string) (string, bool) {
	d, ok := c.byQuestion[questionID]
	return d, ok
}

// QuestionIDs returns the ids of the full question set, in order.
func (c *Catalog) QuestionIDs() []string {
	ids := make([]string, len(c.Questions))
	for i, q := range c.Questions {
		ids[i] = q.ID
	}
	return ids
}

// OnboardingDimensions returns a copy of the fixed cycle-1 focus names.
func (c *Catalog) OnboardingDimensions() []string {
	return append([]string(nil), c.Onboarding...)
}

// Cycle returns the journey entry for n. Cycles past the curated horizon
// reuse the last entry; n < 1 is clamped to the first entry.
func (c *Catalog) Cycle(n int) JourneyCycle {
	if len(c.Journey) == 0 {
		return JourneyCycle{Cycle: n}
	}
	idx := n - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(c.Journey) {
		idx = len(c.Journey) - 1
	}
	jc := c.Journey[idx]
	jc.Standard = append([]string(nil), jc.Standard...)
	return jc
}

// Horizon is the last curated cycle number.
func (c *Catalog) Horizon() int {
	return len(c.Journey)
}

// ScaleLabel returns the label for a Likert value, or "" if out of range.
func (c *Catalog) ScaleLabel(v int) string {
	for _, p := range c.Scale {
		if p.Value == v {
			return p.Label
		}
	}
	return ""
}

// validate checks structural invariants of the content. Journey standard
// names are deliberately not checked here: unknown names are dropped at
// plan generation with a warning.
func (c *Catalog) validate() error {
	var problems []string

	if len(c.Dimensions) != DimensionCount {
		problems = append(problems, fmt.Sprintf("expected %d dimensions, got %d", DimensionCount, len(c.Dimensions)))
	}
	seen := make(map[string]bool, len(c.Dimensions))
	for _, d := range c.Dimensions {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			problems = append(problems, "dimension with empty name")
			continue
		}
		if seen[name] {
			problems = append(problems, fmt.Sprintf("duplicate dimension %q", name))
		}
		seen[name] = true
	}

	if len(c.Questions) == 0 {
		problems = append(problems, "question set is empty")
	}
	qSeen := make(map[string]bool, len(c.Questions))
	for _, q := range c.Questions {
		if q.ID == "" {
			problems = append(problems, "question with empty id")
			continue
		}
		if qSeen[q.ID] {
			problems = append(problems, fmt.Sprintf("duplicate question id %q", q.ID))
		}
		qSeen[q.ID] = true
		if !seen[q.Dimension] {
			problems = append(problems, fmt.Sprintf("question %q maps to unknown dimension %q", q.ID, q.Dimension))
		}
	}

	if len(c.Onboarding) != OnboardingCount {
		problems = append(problems, fmt.Sprintf("expected %d onboarding dimensions, got %d", OnboardingCount, len(c.Onboarding)))
	}
	for _, name := range c.Onboarding {
		if !seen[name] {
			problems = append(problems, fmt.Sprintf("onboarding dimension %q is not in the catalog", name))
		}
	}

	if len(c.Journey) == 0 {
		problems = append(problems, "journey map is empty")
	}
	for i, jc := range c.Journey {
		if jc.Cycle != i+1 {
			problems = append(problems, fmt.Sprintf("journey entry %d has cycle %d, want %d", i, jc.Cycle, i+1))
		}
		if err := ValidatePhase(jc.Phase); err != nil {
			problems = append(problems, fmt.Sprintf("journey cycle %d: %v", jc.Cycle, err))
		}
		if len(jc.Standard) == 0 {
			problems = append(problems, fmt.Sprintf("journey cycle %d has no standard dimensions", jc.Cycle))
		}
	}

	for _, p := range c.Scale {
		if p.Value < 1 || p.Value > 5 {
			problems = append(problems, fmt.Sprintf("scale value %d outside 1-5", p.Value))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid content: %s", strings.Join(problems, "; "))
	}
	return nil
}
