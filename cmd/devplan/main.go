// devplan: adaptive leadership development plan engine.
//
// An MCP server that scores leadership self-assessments, generates 90-day
// development plans and keeps a user's daily practice list in step with
// the current plan.
//
// Usage:
//
//	devplan serve                  # Start MCP server (stdio transport)
//	devplan status --user alice    # Print a user's dashboard
//	devplan plan --user alice      # Print a user's full plan
//	devplan history --user alice   # Print a user's assessment history
//	devplan reset --user alice --yes
//	devplan questions              # Print the questionnaire
//	devplan content                # Print the built-in content catalog
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/HendryAvila/devplan/internal/catalog"
	"github.com/HendryAvila/devplan/internal/config"
	"github.com/HendryAvila/devplan/internal/logging"
	devserver "github.com/HendryAvila/devplan/internal/server"
	"github.com/HendryAvila/devplan/internal/tools"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "devplan",
		Short:         "Adaptive leadership development plan engine",
		Version:       devserver.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(),
		newToolCmd("status", "Show a user's development plan dashboard", func(app *devserver.App) handler {
			return tools.NewStatusTool(app.Engine).Handle
		}),
		newToolCmd("plan", "Show a user's full development plan", func(app *devserver.App) handler {
			return tools.NewPlanTool(app.Engine).Handle
		}),
		newToolCmd("history", "Show a user's assessment history", func(app *devserver.App) handler {
			return tools.NewHistoryTool(app.Engine).Handle
		}),
		newResetCmd(),
		newQuestionsCmd(),
		newContentCmd(),
	)
	return root
}

type handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// withApp loads configuration, builds the app and runs fn.
func withApp(ctx context.Context, fn func(*devserver.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Logging())

	app, cleanup, err := devserver.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(app)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Graceful shutdown on interrupt.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return withApp(ctx, func(app *devserver.App) error {
				s := devserver.NewMCPServer(app)
				return server.ServeStdio(s)
			})
		},
	}
}

// newToolCmd exposes a read-only tool as a command taking --user.
func newToolCmd(name, short string, build func(*devserver.App) handler) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(app *devserver.App) error {
				return runTool(cmd, build(app), map[string]any{"user_id": userID})
			})
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newResetCmd() *cobra.Command {
	var (
		userID string
		yes    bool
	)
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete a user's development plan and plan-derived core reps",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(app *devserver.App) error {
				return runTool(cmd, tools.NewResetTool(app.Engine).Handle, map[string]any{
					"user_id": userID,
					"confirm": yes,
				})
			})
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newQuestionsCmd() *cobra.Command {
	var contentFile string
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Print the assessment questionnaire",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := catalog.Load(contentFile)
			if err != nil {
				return err
			}
			return runTool(cmd, tools.NewQuestionsTool(c).Handle, nil)
		},
	}
	cmd.Flags().StringVar(&contentFile, "content", os.Getenv("DEVPLAN_CONTENT_FILE"), "content catalog YAML (default: built-in)")
	return cmd
}

func newContentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "content",
		Short: "Print the built-in content catalog as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(catalog.DefaultContent())
			return err
		},
	}
}

// runTool calls a tool handler and prints its text. Tool errors become
// command errors.
func runTool(cmd *cobra.Command, h handler, args map[string]any) error {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := h(cmd.Context(), req)
	if err != nil {
		return err
	}

	var text string
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			text = tc.Text
			break
		}
	}
	if result.IsError {
		return fmt.Errorf("%s", text)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}
