// Package resources implements MCP resource handlers for the development
// plan engine.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (devplan://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/devplan/internal/catalog"
	"github.com/HendryAvila/devplan/internal/devplan"
)

// URIs served by the handler.
const (
	DimensionsURI   = "devplan://catalog/dimensions"
	JourneyURI      = "devplan://catalog/journey"
	PlanURITemplate = "devplan://users/{user_id}/plan"

	planURIPrefix = "devplan://users/"
	planURISuffix = "/plan"
)

// StateReader loads a user's plan aggregate.
type StateReader interface {
	State(ctx context.Context, userID string) (*devplan.State, error)
}

// Handler manages devplan resource endpoints.
type Handler struct {
	catalog *catalog.Catalog
	states  StateReader
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(c *catalog.Catalog, states StateReader) *Handler {
	return &Handler{catalog: c, states: states}
}

// DimensionsResource returns the MCP resource definition for the
// dimension catalog.
func (h *Handler) DimensionsResource() mcp.Resource {
	return mcp.NewResource(
		DimensionsURI,
		"Leadership Dimensions",
		mcp.WithResourceDescription("Every leadership dimension with rationale, target behavior, activities, weekly actions and its questions"),
		mcp.WithMIMEType("application/json"),
	)
}

// dimensionView is a dimension plus the ids of its questions.
type dimensionView struct {
	catalog.Dimension
	Questions []string `json:"questions"`
}

// HandleDimensions returns the dimension catalog as JSON, in canonical order.
func (h *Handler) HandleDimensions(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	byDim := make(map[string][]string)
	for _, q := range h.catalog.Questions {
		byDim[q.Dimension] = append(byDim[q.Dimension], q.ID)
	}
	views := make([]dimensionView, 0, len(h.catalog.Dimensions))
	for _, d := range h.catalog.Dimensions {
		views = append(views, dimensionView{Dimension: d, Questions: byDim[d.Name]})
	}
	return jsonResource(req.Params.URI, views)
}

// JourneyResource returns the MCP resource definition for the curated
// cycle journey.
func (h *Handler) JourneyResource() mcp.Resource {
	return mcp.NewResource(
		JourneyURI,
		"Development Journey",
		mcp.WithResourceDescription("Curated phase and standard focus areas per cycle, plus the cycle 1 onboarding set"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleJourney returns the journey table as JSON.
func (h *Handler) HandleJourney(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, struct {
		Onboarding []string               `json:"onboarding"`
		Horizon    int                    `json:"horizon"`
		Journey    []catalog.JourneyCycle `json:"journey"`
	}{
		Onboarding: h.catalog.OnboardingDimensions(),
		Horizon:    h.catalog.Horizon(),
		Journey:    h.catalog.Journey,
	})
}

// PlanTemplate returns the MCP resource template for a user's plan.
func (h *Handler) PlanTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		PlanURITemplate,
		"User Development Plan",
		mcp.WithTemplateDescription("A user's development plan aggregate: current plan, assessment and plan history"),
		mcp.WithTemplateMIMEType("application/json"),
	)
}

// HandlePlan returns the stored plan aggregate for the user named in
// the URI.
func (h *Handler) HandlePlan(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	userID, ok := userFromPlanURI(uri)
	if !ok {
		return errorResource(uri, "expected "+PlanURITemplate), nil
	}

	state, err := h.states.State(ctx, userID)
	if err != nil {
		return errorResource(uri, err.Error()), nil
	}
	if !state.HasPlan() {
		return errorResource(uri, fmt.Sprintf("no development plan for user %q", userID)), nil
	}
	return jsonResource(uri, state)
}

func userFromPlanURI(uri string) (string, bool) {
	rest, ok := strings.CutPrefix(uri, planURIPrefix)
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, planURISuffix)
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
