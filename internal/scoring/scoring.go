// Package scoring reduces Likert assessment answers to per-dimension
// averages and qualitative status labels.
//
// Everything here is pure: no I/O, no clock, deterministic for a given
// catalog and answer set.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/HendryAvila/devplan/internal/catalog"
)

// Likert bounds for a single answer.
const (
	MinAnswer = 1
	MaxAnswer = 5
)

// Status thresholds, applied to the rounded score.
const (
	StrengthThreshold   = 4.5
	DevelopingThreshold = 3.5
)

// --- Status enum ---

// Status is the qualitative label derived from a dimension score.
type Status string

const (
	StatusStrength    Status = "Strength"
	StatusDeveloping  Status = "Developing"
	StatusGrowthFocus Status = "Growth Focus"
)

// StatusFor maps a score onto its status label.
func StatusFor(score float64) Status {
	switch {
	case score >= StrengthThreshold:
		return StatusStrength
	case score >= DevelopingThreshold:
		return StatusDeveloping
	default:
		return StatusGrowthFocus
	}
}

// Answers maps question id to a Likert value in [1,5].
type Answers map[string]int

// DimensionScore is the average of the answers mapped to one dimension.
type DimensionScore struct {
	Dimension string  `json:"dimension"`
	Score     float64 `json:"score"`
	Status    Status  `json:"status"`
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Score computes one DimensionScore per dimension that has at least one
// mapped answer. Answers to unknown questions are ignored. The result is
// in canonical dimension order, but callers should look scores up by name.
func Score(c *catalog.Catalog, answers Answers) []DimensionScore {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for qid, v := range answers {
		dim, ok := c.QuestionDimension(qid)
		if !ok {
			continue
		}
		sums[dim] += v
		counts[dim]++
	}

	var scores []DimensionScore
	for _, name := range c.DimensionNames() {
		n := counts[name]
		if n == 0 {
			continue
		}
		avg := Round1(float64(sums[name]) / float64(n))
		scores = append(scores, DimensionScore{
			Dimension: name,
			Score:     avg,
			Status:    StatusFor(avg),
		})
	}
	return scores
}

// ByDimension indexes scores by dimension name.
func ByDimension(scores []DimensionScore) map[string]DimensionScore {
	m := make(map[string]DimensionScore, len(scores))
	for _, s := range scores {
		m[s.Dimension] = s
	}
	return m
}

// Problems describes why an answer set is not a complete assessment.
type Problems struct {
	Missing    []string `json:"missing,omitempty"`
	Unknown    []string `json:"unknown,omitempty"`
	OutOfRange []string `json:"out_of_range,omitempty"`
}

// Empty reports whether no problems were found.
func (p Problems) Empty() bool {
	return len(p.Missing) == 0 && len(p.Unknown) == 0 && len(p.OutOfRange) == 0
}

// Fields flattens the problems into field descriptions.
func (p Problems) Fields() []string {
	var fields []string
	for _, id := range p.Missing {
		fields = append(fields, fmt.Sprintf("answers.%s: missing", id))
	}
	for _, id := range p.Unknown {
		fields = append(fields, fmt.Sprintf("answers.%s: unknown question", id))
	}
	for _, id := range p.OutOfRange {
		fields = append(fields, fmt.Sprintf("answers.%s: must be between %d and %d", id, MinAnswer, MaxAnswer))
	}
	return fields
}

// Validate checks that answers cover the full question set with values in
// range and nothing else.
func Validate(c *catalog.Catalog, answers Answers) Problems {
	var p Problems
	for _, id := range c.QuestionIDs() {
		v, ok := answers[id]
		if !ok {
			p.Missing = append(p.Missing, id)
			continue
		}
		if v < MinAnswer || v > MaxAnswer {
			p.OutOfRange = append(p.OutOfRange, id)
		}
	}
	for id := range answers {
		if _, ok := c.QuestionDimension(id); !ok {
			p.Unknown = append(p.Unknown, id)
		}
	}
	sort.Strings(p.Unknown)
	return p
}

// Summary is a compact view of one assessment.
type Summary struct {
	Average     float64  `json:"average"`
	Strengths   []string `json:"strengths"`
	GrowthFocus []string `json:"growth_focus"`
}

// Summarize computes the overall average and the top two strengths
// (score >= StrengthThreshold, highest first) plus every growth-focus
// dimension in canonical order.
func Summarize(scores []DimensionScore) Summary {
	s := Summary{Strengths: []string{}, GrowthFocus: []string{}}
	if len(scores) == 0 {
		return s
	}

	total := 0.0
	for _, ds := range scores {
		total += ds.Score
		if ds.Status == StatusGrowthFocus {
			s.GrowthFocus = append(s.GrowthFocus, ds.Dimension)
		}
	}
	s.Average = Round1(total / float64(len(scores)))

	for _, ds := range TopStrengths(scores, 2) {
		s.Strengths = append(s.Strengths, ds.Dimension)
	}
	return s
}

// TopStrengths returns up to limit scores at or above StrengthThreshold,
// highest first. Ties keep their input order.
func TopStrengths(scores []DimensionScore, limit int) []DimensionScore {
	var out []DimensionScore
	for _, ds := range scores {
		if ds.Score >= StrengthThreshold {
			out = append(out, ds)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
