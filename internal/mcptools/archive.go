package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"taskboard-api/internal/archive"
	"taskboard-api/internal/constants"
	"taskboard-api/internal/dto"
	"taskboard-api/internal/services"
)

// ListArchivedTasksTool handles the list_archived_tasks MCP tool.
type ListArchivedTasksTool struct {
	reader  *archive.Reader
	session *Session
}

// NewListArchivedTasksTool creates a ListArchivedTasksTool.
func NewListArchivedTasksTool(reader *archive.Reader, session *Session) *ListArchivedTasksTool {
	return &ListArchivedTasksTool{reader: reader, session: session}
}

// Definition returns the MCP tool definition for list_archived_tasks.
func (t *ListArchivedTasksTool) Definition() mcp.Tool {
	return mcp.NewTool("list_archived_tasks",
		mcp.WithDescription(
			"List the logged-in user's archived tasks, newest first. Each entry records "+
				"the board name at the time of archiving, since the board may since have "+
				"been renamed or deleted.",
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum entries to return (default 20, max 100)"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Entries to skip, for pagination (default 0)"),
		),
	)
}

// Handle processes the list_archived_tasks tool call.
func (t *ListArchivedTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, errResult := requireLogin(t.session)
	if errResult != nil {
		return errResult, nil
	}

	limit := intArg(req, "limit", constants.DefaultPageSize)
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}
	offset := intArg(req, "offset", 0)

	rows, err := t.reader.ListArchived(userID, limit, offset)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list archived tasks: %v", err)), nil
	}

	total, err := t.reader.CountArchived(userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to count archived tasks: %v", err)), nil
	}

	payload := map[string]any{
		"archived_tasks": dto.ToArchivedTaskDTOs(rows),
		"total":          total,
	}
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode archived tasks: %v", err)), nil
	}

	return mcp.NewToolResultText(string(out)), nil
}

// RestoreArchivedTaskTool handles the restore_archived_task MCP tool.
type RestoreArchivedTaskTool struct {
	taskService *services.TaskService
	session     *Session
}

// NewRestoreArchivedTaskTool creates a RestoreArchivedTaskTool.
func NewRestoreArchivedTaskTool(taskService *services.TaskService, session *Session) *RestoreArchivedTaskTool {
	return &RestoreArchivedTaskTool{taskService: taskService, session: session}
}

// Definition returns the MCP tool definition for restore_archived_task.
func (t *RestoreArchivedTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("restore_archived_task",
		mcp.WithDescription(
			"Restore an archived task to its original board as a fresh active task. "+
				"Fails if the board no longer exists or its active section is full.",
		),
		mcp.WithNumber("archived_task_id",
			mcp.Required(),
			mcp.Description("Archive entry ID from list_archived_tasks"),
		),
	)
}

// Handle processes the restore_archived_task tool call.
func (t *RestoreArchivedTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, errResult := requireLogin(t.session)
	if errResult != nil {
		return errResult, nil
	}

	archivedID := uintArg(req, "archived_task_id")
	if archivedID == 0 {
		return mcp.NewToolResultError("'archived_task_id' is required"), nil
	}

	result, err := t.taskService.RestoreArchivedTask(archivedID, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to restore task: %v", err)), nil
	}

	response := fmt.Sprintf("Restored as task %d on board %s", result.NewTaskID, result.BoardID)
	if result.Archived > 0 {
		response += fmt.Sprintf("; %d completed task(s) archived to make room", result.Archived)
	}

	return mcp.NewToolResultText(response), nil
}
