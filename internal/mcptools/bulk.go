package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"taskboard-api/internal/services"
)

// BulkCompleteTasksTool handles the bulk_complete_tasks MCP tool.
type BulkCompleteTasksTool struct {
	taskService *services.TaskService
	session     *Session
}

// NewBulkCompleteTasksTool creates a BulkCompleteTasksTool.
func NewBulkCompleteTasksTool(taskService *services.TaskService, session *Session) *BulkCompleteTasksTool {
	return &BulkCompleteTasksTool{taskService: taskService, session: session}
}

// Definition returns the MCP tool definition for bulk_complete_tasks.
func (t *BulkCompleteTasksTool) Definition() mcp.Tool {
	return mcp.NewTool("bulk_complete_tasks",
		mcp.WithDescription(
			"Complete several tasks on one board in a single call. Tasks that are missing, "+
				"belong to another board, or are already completed are skipped and reported back. "+
				"Archiving runs once after all completions.",
		),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("Board ID"),
		),
		mcp.WithString("task_ids",
			mcp.Required(),
			mcp.Description("JSON array of task IDs, e.g. [1,2,3]"),
		),
	)
}

// Handle processes the bulk_complete_tasks tool call.
func (t *BulkCompleteTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, errResult := requireLogin(t.session)
	if errResult != nil {
		return errResult, nil
	}

	boardID := req.GetString("board_id", "")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	taskIDs := idListArg(req, "task_ids")
	if len(taskIDs) == 0 {
		return mcp.NewToolResultError("'task_ids' must be a non-empty JSON array of task IDs"), nil
	}

	result, err := t.taskService.BulkCompleteTasks(boardID, userID, taskIDs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to complete tasks: %v", err)), nil
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(out)), nil
}

// BulkDeleteTasksTool handles the bulk_delete_tasks MCP tool.
type BulkDeleteTasksTool struct {
	taskService *services.TaskService
	session     *Session
}

// NewBulkDeleteTasksTool creates a BulkDeleteTasksTool.
func NewBulkDeleteTasksTool(taskService *services.TaskService, session *Session) *BulkDeleteTasksTool {
	return &BulkDeleteTasksTool{taskService: taskService, session: session}
}

// Definition returns the MCP tool definition for bulk_delete_tasks.
func (t *BulkDeleteTasksTool) Definition() mcp.Tool {
	return mcp.NewTool("bulk_delete_tasks",
		mcp.WithDescription(
			"Delete several tasks from one board in a single call. Tasks that are missing "+
				"or belong to another board are skipped and reported back.",
		),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("Board ID"),
		),
		mcp.WithString("task_ids",
			mcp.Required(),
			mcp.Description("JSON array of task IDs, e.g. [1,2,3]"),
		),
	)
}

// Handle processes the bulk_delete_tasks tool call.
func (t *BulkDeleteTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, errResult := requireLogin(t.session)
	if errResult != nil {
		return errResult, nil
	}

	boardID := req.GetString("board_id", "")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	taskIDs := idListArg(req, "task_ids")
	if len(taskIDs) == 0 {
		return mcp.NewToolResultError("'task_ids' must be a non-empty JSON array of task IDs"), nil
	}

	result, err := t.taskService.BulkDeleteTasks(boardID, userID, taskIDs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete tasks: %v", err)), nil
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(out)), nil
}

// ReorderTasksTool handles the reorder_tasks MCP tool.
type ReorderTasksTool struct {
	taskService *services.TaskService
	session     *Session
}

// NewReorderTasksTool creates a ReorderTasksTool.
func NewReorderTasksTool(taskService *services.TaskService, session *Session) *ReorderTasksTool {
	return &ReorderTasksTool{taskService: taskService, session: session}
}

// Definition returns the MCP tool definition for reorder_tasks.
func (t *ReorderTasksTool) Definition() mcp.Tool {
	return mcp.NewTool("reorder_tasks",
		mcp.WithDescription(
			"Rewrite the display order of one board section. The ID list must contain "+
				"exactly the section's current tasks, in the desired order.",
		),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("Board ID"),
		),
		mcp.WithString("section",
			mcp.DefaultString("active"),
			mcp.Description("Section to reorder: active or completed"),
		),
		mcp.WithString("ordered_task_ids",
			mcp.Required(),
			mcp.Description("JSON array of the section's task IDs in the new order, e.g. [3,1,2]"),
		),
	)
}

// Handle processes the reorder_tasks tool call.
func (t *ReorderTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, errResult := requireLogin(t.session)
	if errResult != nil {
		return errResult, nil
	}

	boardID := req.GetString("board_id", "")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	orderedIDs := idListArg(req, "ordered_task_ids")
	if len(orderedIDs) == 0 {
		return mcp.NewToolResultError("'ordered_task_ids' must be a non-empty JSON array of task IDs"), nil
	}

	section := req.GetString("section", "active")
	if err := t.taskService.ReorderTasks(boardID, userID, section, orderedIDs); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to reorder tasks: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reordered %d %s task(s)", len(orderedIDs), section)), nil
}

// MoveTaskTool handles the move_task_between_boards MCP tool.
type MoveTaskTool struct {
	taskService *services.TaskService
	session     *Session
}

// NewMoveTaskTool creates a MoveTaskTool.
func NewMoveTaskTool(taskService *services.TaskService, session *Session) *MoveTaskTool {
	return &MoveTaskTool{taskService: taskService, session: session}
}

// Definition returns the MCP tool definition for move_task_between_boards.
func (t *MoveTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("move_task_between_boards",
		mcp.WithDescription(
			"Move a task to another board owned by the same user. Moving a completed task "+
				"may archive older completed tasks on the target board to make room.",
		),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task ID"),
		),
		mcp.WithString("target_board_id",
			mcp.Required(),
			mcp.Description("Destination board ID"),
		),
	)
}

// Handle processes the move_task_between_boards tool call.
func (t *MoveTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, errResult := requireLogin(t.session)
	if errResult != nil {
		return errResult, nil
	}

	taskID := uintArg(req, "task_id")
	targetBoardID := req.GetString("target_board_id", "")
	if taskID == 0 {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}
	if targetBoardID == "" {
		return mcp.NewToolResultError("'target_board_id' is required"), nil
	}

	result, err := t.taskService.MoveTask(taskID, userID, targetBoardID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to move task: %v", err)), nil
	}
	if !result.Moved {
		return mcp.NewToolResultText(fmt.Sprintf("Task %d is already on board %s", taskID, targetBoardID)), nil
	}

	response := fmt.Sprintf("Task %d moved to board %s", taskID, targetBoardID)
	if result.Archived > 0 {
		response += fmt.Sprintf("; %d completed task(s) archived to make room", result.Archived)
	}

	return mcp.NewToolResultText(response), nil
}
