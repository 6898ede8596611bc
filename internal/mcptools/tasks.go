package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"taskboard-api/internal/constants"
	"taskboard-api/internal/dto"
	"taskboard-api/internal/services"
)

// ListTasksTool handles the list_tasks MCP tool.
type ListTasksTool struct {
	boardService *services.BoardService
	session      *Session
}

// NewListTasksTool creates a ListTasksTool.
func NewListTasksTool(boardService *services.BoardService, session *Session) *ListTasksTool {
	return &ListTasksTool{boardService: boardService, session: session}
}

// Definition returns the MCP tool definition for list_tasks.
func (t *ListTasksTool) Definition() mcp.Tool {
	return mcp.NewTool("list_tasks",
		mcp.WithDescription(
			"List a board's tasks split into active and completed sections, in display order.",
		),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("Board ID"),
		),
	)
}

// Handle processes the list_tasks tool call.
func (t *ListTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, errResult := requireLogin(t.session)
	if errResult != nil {
		return errResult, nil
	}

	boardID := req.GetString("board_id", "")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	board, err := t.boardService.GetBoard(boardID, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load board: %v", err)), nil
	}

	out, err := json.MarshalIndent(dto.ToBoardDTO(*board), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode board: %v", err)), nil
	}

	return mcp.NewToolResultText(string(out)), nil
}

// AddTaskTool handles the add_task MCP tool.
type AddTaskTool struct {
	taskService *services.TaskService
	session     *Session
}

// NewAddTaskTool creates an AddTaskTool.
func NewAddTaskTool(taskService *services.TaskService, session *Session) *AddTaskTool {
	return &AddTaskTool{taskService: taskService, session: session}
}

// Definition returns the MCP tool definition for add_task.
func (t *AddTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("add_task",
		mcp.WithDescription(
			"Add a task to a board. Boards hold at most ten active tasks; "+
				"complete or delete tasks to free space.",
		),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("Board ID"),
		),
		mcp.WithString("task",
			mcp.Required(),
			mcp.Description("Task title"),
		),
		mcp.WithString("due_date",
			mcp.Required(),
			mcp.Description("Due date in YYYY-MM-DD format"),
		),
		mcp.WithString("notes",
			mcp.Description("Free-form notes"),
		),
	)
}

// Handle processes the add_task tool call.
func (t *AddTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, errResult := requireLogin(t.session)
	if errResult != nil {
		return errResult, nil
	}

	boardID := req.GetString("board_id", "")
	title := req.GetString("task", "")
	dueDateStr := req.GetString("due_date", "")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}
	if title == "" {
		return mcp.NewToolResultError("'task' is required"), nil
	}

	dueDate, err := time.Parse(constants.DueDateLayout, dueDateStr)
	if err != nil {
		return mcp.NewToolResultError("'due_date' must be YYYY-MM-DD"), nil
	}

	task, err := t.taskService.AddTask(services.AddTaskInput{
		BoardID: boardID,
		UserID:  userID,
		Title:   title,
		DueDate: dueDate,
		Notes:   req.GetString("notes", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add task: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Task added: %q (ID %d) due %s", task.Title, task.ID, dueDateStr)), nil
}

// UpdateTaskTool handles the update_task MCP tool.
type UpdateTaskTool struct {
	taskService *services.TaskService
	session     *Session
}

// NewUpdateTaskTool creates an UpdateTaskTool.
func NewUpdateTaskTool(taskService *services.TaskService, session *Session) *UpdateTaskTool {
	return &UpdateTaskTool{taskService: taskService, session: session}
}

// Definition returns the MCP tool definition for update_task.
func (t *UpdateTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("update_task",
		mcp.WithDescription(
			"Update a task's title, due date, or notes. Omitted fields are left unchanged.",
		),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task ID"),
		),
		mcp.WithString("task",
			mcp.Description("New title"),
		),
		mcp.WithString("due_date",
			mcp.Description("New due date in YYYY-MM-DD format"),
		),
		mcp.WithString("notes",
			mcp.Description("New notes (an empty string clears them)"),
		),
	)
}

// Handle processes the update_task tool call.
func (t *UpdateTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, errResult := requireLogin(t.session)
	if errResult != nil {
		return errResult, nil
	}

	taskID := uintArg(req, "task_id")
	if taskID == 0 {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}

	var input services.UpdateTaskInput
	args := req.GetArguments()
	if v, ok := args["task"].(string); ok {
		input.Title = &v
	}
	if v, ok := args["notes"].(string); ok {
		input.Notes = &v
	}
	if v, ok := args["due_date"].(string); ok {
		dueDate, err := time.Parse(constants.DueDateLayout, v)
		if err != nil {
			return mcp.NewToolResultError("'due_date' must be YYYY-MM-DD"), nil
		}
		input.DueDate = &dueDate
	}
	if input.Title == nil && input.Notes == nil && input.DueDate == nil {
		return mcp.NewToolResultError("provide at least one of 'task', 'due_date', 'notes'"), nil
	}

	task, err := t.taskService.UpdateTask(taskID, userID, input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update task: %v", err)), nil
	}

	out, err := json.MarshalIndent(dto.ToTaskDTO(*task), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode task: %v", err)), nil
	}

	return mcp.NewToolResultText(string(out)), nil
}

// DeleteTaskTool handles the delete_task MCP tool.
type DeleteTaskTool struct {
	taskService *services.TaskService
	session     *Session
}

// NewDeleteTaskTool creates a DeleteTaskTool.
func NewDeleteTaskTool(taskService *services.TaskService, session *Session) *DeleteTaskTool {
	return &DeleteTaskTool{taskService: taskService, session: session}
}

// Definition returns the MCP tool definition for delete_task.
func (t *DeleteTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task permanently. Deleted tasks are not archived."),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task ID"),
		),
	)
}

// Handle processes the delete_task tool call.
func (t *DeleteTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, errResult := requireLogin(t.session)
	if errResult != nil {
		return errResult, nil
	}

	taskID := uintArg(req, "task_id")
	if taskID == 0 {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}

	task, err := t.taskService.DeleteTask(taskID, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete task: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Task %d (%q) deleted", task.ID, task.Title)), nil
}

// CompleteTaskTool handles the complete_task MCP tool.
type CompleteTaskTool struct {
	taskService *services.TaskService
	session     *Session
}

// NewCompleteTaskTool creates a CompleteTaskTool.
func NewCompleteTaskTool(taskService *services.TaskService, session *Session) *CompleteTaskTool {
	return &CompleteTaskTool{taskService: taskService, session: session}
}

// Definition returns the MCP tool definition for complete_task.
func (t *CompleteTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("complete_task",
		mcp.WithDescription(
			"Mark a task as completed. When the board's total task count exceeds its "+
				"ceiling, the oldest completed tasks are moved to the archive automatically.",
		),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task ID"),
		),
	)
}

// Handle processes the complete_task tool call.
func (t *CompleteTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, errResult := requireLogin(t.session)
	if errResult != nil {
		return errResult, nil
	}

	taskID := uintArg(req, "task_id")
	if taskID == 0 {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}

	result, err := t.taskService.CompleteTask(taskID, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to complete task: %v", err)), nil
	}

	response := fmt.Sprintf("Task %d (%q) completed", result.Task.ID, result.Task.Title)
	if result.Archived > 0 {
		response += fmt.Sprintf("; %d older completed task(s) archived", result.Archived)
	}

	return mcp.NewToolResultText(response), nil
}
