package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("wodforge", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("wodforge workout server. Generate workouts, browse the movement catalog and the rotating workout pool, record performed workouts, and review training progress."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGenerateWorkout, Handler: h.generateWorkout},
		server.ServerTool{Tool: toolGenerateFromTemplate, Handler: h.generateFromTemplate},
		server.ServerTool{Tool: toolListMovements, Handler: h.listMovements},
		server.ServerTool{Tool: toolListTemplates, Handler: h.listTemplates},
		server.ServerTool{Tool: toolListAvailablePool, Handler: h.listAvailablePool},
		server.ServerTool{Tool: toolTakeFromPool, Handler: h.takeFromPool},
		server.ServerTool{Tool: toolMarkPoolPerformed, Handler: h.markPoolPerformed},
		server.ServerTool{Tool: toolListWorkouts, Handler: h.listWorkouts},
		server.ServerTool{Tool: toolGetProgress, Handler: h.getProgress},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resAvailablePool, Handler: h.availablePool},
		server.ServerResource{Resource: resMovementCatalog, Handler: h.movementCatalog},
		server.ServerResource{Resource: resProgressSummary, Handler: h.progressSummary},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resAvailablePool = mcp.NewResource(
	"wodforge://available_pool",
	"Available Pool",
	mcp.WithResourceDescription("Pool workouts whose cadence interval has elapsed and are ready to perform today"),
	mcp.WithMIMEType("application/json"),
)

var resMovementCatalog = mcp.NewResource(
	"wodforge://movement_catalog",
	"Movement Catalog",
	mcp.WithResourceDescription("All movements with categories, equipment, muscle groups, and difficulty"),
	mcp.WithMIMEType("application/json"),
)

var resProgressSummary = mcp.NewResource(
	"wodforge://progress_summary",
	"Progress Summary",
	mcp.WithResourceDescription("Workout history, per-movement personal bests, and training totals"),
	mcp.WithMIMEType("application/json"),
)
