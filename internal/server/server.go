// Package server wires all MCP components and creates the server instance.
//
// This is the composition root (DIP): it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on abstractions.
// No business logic lives here, only wiring.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/HendryAvila/devplan/internal/catalog"
	"github.com/HendryAvila/devplan/internal/config"
	"github.com/HendryAvila/devplan/internal/devplan"
	"github.com/HendryAvila/devplan/internal/docstore"
	"github.com/HendryAvila/devplan/internal/engine"
	"github.com/HendryAvila/devplan/internal/logging"
	"github.com/HendryAvila/devplan/internal/practice"
	"github.com/HendryAvila/devplan/internal/prompts"
	"github.com/HendryAvila/devplan/internal/resources"
	"github.com/HendryAvila/devplan/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// App holds the resolved dependencies shared by the MCP server and the
// command line.
type App struct {
	Catalog *catalog.Catalog
	Engine  *engine.Service
	Store   string
}

// Build resolves every dependency from cfg: catalog, document store,
// cache, plan store, practice synchronizer and engine.
//
// The returned cleanup function closes the database connection and must
// be called on shutdown (typically via defer). It is always non-nil.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, func(), error) {
	if logger == nil {
		logger = logging.Discard()
	}

	cat, err := catalog.Load(cfg.ContentFile)
	if err != nil {
		return nil, noop, fmt.Errorf("loading content catalog: %w", err)
	}

	docs, cleanup, err := openDocuments(ctx, cfg)
	if err != nil {
		return nil, noop, err
	}

	cached, err := docstore.NewCached(docs, cfg.CacheSize)
	if err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("creating document cache: %w", err)
	}

	plans := devplan.NewDocumentStore(cached)
	syncer := practice.NewSynchronizer(practice.NewQueueStore(cached), logger)
	svc := engine.New(cat, plans, syncer, logger)

	logger.Info("development plan engine ready",
		"store", cfg.Store,
		"cache_size", cfg.CacheSize,
		"dimensions", len(cat.Dimensions),
		"horizon", cat.Horizon(),
	)
	return &App{Catalog: cat, Engine: svc, Store: cfg.Store}, cleanup, nil
}

// openDocuments opens the configured backend.
func openDocuments(ctx context.Context, cfg config.Config) (docstore.Documents, func(), error) {
	switch cfg.Store {
	case config.StoreSQLite:
		st, err := docstore.OpenSQLite(cfg.DataDir)
		if err != nil {
			return nil, noop, fmt.Errorf("opening sqlite store: %w", err)
		}
		return st, func() { _ = st.Close() }, nil
	case config.StorePostgres:
		st, err := docstore.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, noop, fmt.Errorf("opening postgres store: %w", err)
		}
		return st, func() { _ = st.Close() }, nil
	case config.StoreFile:
		return docstore.NewFileStore(cfg.DataDir), noop, nil
	case config.StoreMemory:
		return docstore.NewMemory(), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown store %q", cfg.Store)
}

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*server.MCPServer, func(), error) {
	app, cleanup, err := Build(ctx, cfg, logger)
	if err != nil {
		return nil, noop, err
	}
	return NewMCPServer(app), cleanup, nil
}

// NewMCPServer registers the tools, prompts and resources of app.
func NewMCPServer(app *App) *server.MCPServer {
	s := server.NewMCPServer(
		"devplan",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	questionsTool := tools.NewQuestionsTool(app.Catalog)
	s.AddTool(questionsTool.Definition(), questionsTool.Handle)

	initialTool := tools.NewInitialAssessmentTool(app.Engine)
	s.AddTool(initialTool.Definition(), initialTool.Handle)

	scanTool := tools.NewProgressScanTool(app.Engine)
	s.AddTool(scanTool.Definition(), scanTool.Handle)

	statusTool := tools.NewStatusTool(app.Engine)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	planTool := tools.NewPlanTool(app.Engine)
	s.AddTool(planTool.Definition(), planTool.Handle)

	historyTool := tools.NewHistoryTool(app.Engine)
	s.AddTool(historyTool.Definition(), historyTool.Handle)

	resetTool := tools.NewResetTool(app.Engine)
	s.AddTool(resetTool.Definition(), resetTool.Handle)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(app.Catalog, app.Engine)
	s.AddResource(resourceHandler.DimensionsResource(), resourceHandler.HandleDimensions)
	s.AddResource(resourceHandler.JourneyResource(), resourceHandler.HandleJourney)
	s.AddResourceTemplate(resourceHandler.PlanTemplate(), resourceHandler.HandlePlan)

	return s
}

// noop is a no-op cleanup function used when nothing needs closing.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to drive the development plan tools.
func serverInstructions() string {
	return `You have access to devplan, an adaptive leadership development plan engine.

## How it works

A user takes a self-assessment (Likert 1-5 per question). Answers are averaged
per leadership dimension. The first assessment creates a cycle 1 plan with three
fixed foundation focus areas. Every 90 days a progress scan re-scores the user
and creates the next cycle's plan: the curated focus areas for that cycle plus
the user's lowest-scoring dimension, at most three in total.

Each focus area becomes one daily "core rep" in the user's practice list. A new
cycle replaces the previous cycle's reps; items the user added themselves are
never touched.

## Flow

1. devplan_status(user_id): always call first. The view tells you what to do:
   - needs_assessment: run devplan_questions, collect every answer, then call
     devplan_initial_assessment.
   - scan_due (85+ days since the last assessment): offer devplan_progress_scan.
     It needs fresh answers plus what_improved, where_stuck and evidence_note.
   - tracker: show progress, the current window's weekly actions (devplan_plan)
     and the core reps.
2. devplan_history(user_id) shows scores over time.
3. devplan_reset(user_id, confirm=true) deletes the plan. Always ask the user
   before calling it.

## Rules

- Every question must be answered with a whole number from 1 to 5.
- Never invent a user_id. Ask for it if unknown.
- If a result carries a "daily practice not updated" warning, the plan was saved;
  tell the user to check their task list.
- Storage errors are retryable. Nothing was changed, so the same call can be repeated.`
}
