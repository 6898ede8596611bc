// Package mcpserver wires the MCP components and creates the server instance.
//
// This is the composition root: it connects the database, builds the
// services, and injects them into the tool handlers. No business logic
// lives here, only wiring.
package mcpserver

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"taskboard-api/internal/archive"
	"taskboard-api/internal/config"
	"taskboard-api/internal/database"
	"taskboard-api/internal/mcptools"
	"taskboard-api/internal/repository"
	"taskboard-api/internal/services"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New connects to the database and creates the MCP server with every tool
// registered. The session starts logged out; tools other than login refuse
// to run until a user authenticates.
func New(cfg *config.Config) (*server.MCPServer, error) {
	if err := database.Connect(cfg); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := database.Migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	db := database.GetDB()

	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	engine := archive.NewEngine(archive.Config{
		Enabled:          cfg.ArchivingEnabled,
		MaxTasksPerBoard: cfg.MaxTasksPerBoard,
	})

	authService := services.NewAuthService(userRepo)
	boardService := services.NewBoardService(boardRepo, taskRepo)
	taskService := services.NewTaskService(db, engine)
	reader := archive.NewReader(db)

	s := server.NewMCPServer(
		"taskboard",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	session := mcptools.NewSession()

	// --- Session lifecycle ---

	loginTool := mcptools.NewLoginTool(authService, session)
	s.AddTool(loginTool.Definition(), loginTool.Handle)

	logoutTool := mcptools.NewLogoutTool(session)
	s.AddTool(logoutTool.Definition(), logoutTool.Handle)

	currentUserTool := mcptools.NewCurrentUserTool(session)
	s.AddTool(currentUserTool.Definition(), currentUserTool.Handle)

	// --- Boards ---

	listBoardsTool := mcptools.NewListBoardsTool(boardService, session)
	s.AddTool(listBoardsTool.Definition(), listBoardsTool.Handle)

	createBoardTool := mcptools.NewCreateBoardTool(boardService, session)
	s.AddTool(createBoardTool.Definition(), createBoardTool.Handle)

	updateBoardNameTool := mcptools.NewUpdateBoardNameTool(boardService, session)
	s.AddTool(updateBoardNameTool.Definition(), updateBoardNameTool.Handle)

	deleteBoardTool := mcptools.NewDeleteBoardTool(boardService, session)
	s.AddTool(deleteBoardTool.Definition(), deleteBoardTool.Handle)

	boardStatsTool := mcptools.NewBoardStatsTool(boardService, session)
	s.AddTool(boardStatsTool.Definition(), boardStatsTool.Handle)

	// --- Tasks ---

	listTasksTool := mcptools.NewListTasksTool(boardService, session)
	s.AddTool(listTasksTool.Definition(), listTasksTool.Handle)

	addTaskTool := mcptools.NewAddTaskTool(taskService, session)
	s.AddTool(addTaskTool.Definition(), addTaskTool.Handle)

	updateTaskTool := mcptools.NewUpdateTaskTool(taskService, session)
	s.AddTool(updateTaskTool.Definition(), updateTaskTool.Handle)

	deleteTaskTool := mcptools.NewDeleteTaskTool(taskService, session)
	s.AddTool(deleteTaskTool.Definition(), deleteTaskTool.Handle)

	completeTaskTool := mcptools.NewCompleteTaskTool(taskService, session)
	s.AddTool(completeTaskTool.Definition(), completeTaskTool.Handle)

	bulkCompleteTool := mcptools.NewBulkCompleteTasksTool(taskService, session)
	s.AddTool(bulkCompleteTool.Definition(), bulkCompleteTool.Handle)

	bulkDeleteTool := mcptools.NewBulkDeleteTasksTool(taskService, session)
	s.AddTool(bulkDeleteTool.Definition(), bulkDeleteTool.Handle)

	reorderTasksTool := mcptools.NewReorderTasksTool(taskService, session)
	s.AddTool(reorderTasksTool.Definition(), reorderTasksTool.Handle)

	moveTaskTool := mcptools.NewMoveTaskTool(taskService, session)
	s.AddTool(moveTaskTool.Definition(), moveTaskTool.Handle)

	// --- Archive ---

	listArchivedTool := mcptools.NewListArchivedTasksTool(reader, session)
	s.AddTool(listArchivedTool.Definition(), listArchivedTool.Handle)

	restoreTool := mcptools.NewRestoreArchivedTaskTool(taskService, session)
	s.AddTool(restoreTool.Definition(), restoreTool.Handle)

	// --- Views and exports ---

	snapshotTool := mcptools.NewBoardSnapshotTool(boardService, session)
	s.AddTool(snapshotTool.Definition(), snapshotTool.Handle)

	exportBoardTool := mcptools.NewExportBoardTool(boardService, session)
	s.AddTool(exportBoardTool.Definition(), exportBoardTool.Handle)

	boardSummaryTool := mcptools.NewBoardSummaryTool(boardService, session)
	s.AddTool(boardSummaryTool.Definition(), boardSummaryTool.Handle)

	return s, nil
}

// serverInstructions tells the AI client how to drive the task board.
func serverInstructions() string {
	return `You have access to a personal task board server.

## Getting started
1. Call login with the user's credentials. Every other tool requires it.
2. Call list_boards to discover board IDs. Boards split tasks into an
   active section and a completed section.

## Limits to keep in mind
- A user holds at most 4 boards and cannot delete their last one.
- A board holds at most 10 active tasks. When the board is full, complete
  or delete tasks before adding more.
- Boards also have a total-task ceiling. When completing a task pushes a
  board past it, the oldest completed tasks are moved to the archive
  automatically. This is normal; mention it to the user when it happens.

## The archive
- Archived tasks are listed with list_archived_tasks, newest first.
- restore_archived_task puts an entry back on its original board as a
  fresh active task. This fails if the board was deleted or its active
  section is full.

## Showing boards to the user
- board_snapshot renders a readable plain-text view.
- board_summary gives a short status line (overdue, due this week).
- export_board produces JSON or CSV when the user wants their data.

Dates are always YYYY-MM-DD. Prefer bulk_complete_tasks and
bulk_delete_tasks over repeated single calls when acting on several
tasks at once.`
}
