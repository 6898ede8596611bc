package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard-api/internal/constants"
	"taskboard-api/internal/dto"
	apierrors "taskboard-api/internal/errors"
	"taskboard-api/internal/middleware"
	"taskboard-api/internal/services"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// AddTask creates a task on the :id board.
func (h *TaskHandler) AddTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type AddTaskRequest struct {
		Task    string `json:"task" binding:"required"`
		DueDate string `json:"due_date" binding:"required"`
		Notes   string `json:"notes"`
	}

	var req AddTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dueDate, err := time.Parse(constants.DueDateLayout, req.DueDate)
	if err != nil {
		apierrors.BadRequest(c, "Due date must be YYYY-MM-DD")
		return
	}

	task, err := h.taskService.AddTask(services.AddTaskInput{
		BoardID: c.Param("id"),
		UserID:  userID,
		Title:   req.Task,
		DueDate: dueDate,
		Notes:   req.Notes,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask updates the core fields of a task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Task    *string `json:"task"`
		DueDate *string `json:"due_date"`
		Notes   *string `json:"notes"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if req.Task == nil && req.DueDate == nil && req.Notes == nil {
		apierrors.BadRequest(c, "Provide at least one field to update")
		return
	}

	input := services.UpdateTaskInput{
		Title: req.Task,
		Notes: req.Notes,
	}
	if req.DueDate != nil {
		dueDate, err := time.Parse(constants.DueDateLayout, *req.DueDate)
		if err != nil {
			apierrors.BadRequest(c, "Due date must be YYYY-MM-DD")
			return
		}
		input.DueDate = &dueDate
	}

	task, err := h.taskService.UpdateTask(taskID, userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task regardless of completion state.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.DeleteTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Task deleted successfully",
		"task_id":  task.ID,
		"board_id": task.BoardID,
	})
}

// CompleteTask marks a task complete and reports how many tasks the
// completion caused to be archived.
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	result, err := h.taskService.CompleteTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task":     dto.ToTaskDTO(*result.Task),
		"archived": result.Archived,
	})
}

// UncompleteTask moves a completed task back to the active section.
func (h *TaskHandler) UncompleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.UncompleteTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// MoveTask moves a task to another board.
func (h *TaskHandler) MoveTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	type MoveTaskRequest struct {
		TargetBoardID string `json:"target_board_id" binding:"required"`
	}

	var req MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.taskService.MoveTask(taskID, userID, req.TargetBoardID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ReorderTasks rewrites the order of one board section.
func (h *TaskHandler) ReorderTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type ReorderRequest struct {
		Section        string   `json:"section"`
		OrderedTaskIDs []uint64 `json:"ordered_task_ids" binding:"required"`
	}

	req := ReorderRequest{Section: "active"}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	boardID := c.Param("id")
	if err := h.taskService.ReorderTasks(boardID, userID, req.Section, req.OrderedTaskIDs); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Tasks reordered successfully",
		"board_id": boardID,
		"section":  req.Section,
		"count":    len(req.OrderedTaskIDs),
	})
}

// BulkCompleteTasks completes several tasks on the :id board.
func (h *TaskHandler) BulkCompleteTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type BulkRequest struct {
		TaskIDs []uint64 `json:"task_ids" binding:"required"`
	}

	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.taskService.BulkCompleteTasks(c.Param("id"), userID, req.TaskIDs)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// BulkDeleteTasks deletes several tasks from the :id board.
func (h *TaskHandler) BulkDeleteTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type BulkRequest struct {
		TaskIDs []uint64 `json:"task_ids" binding:"required"`
	}

	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.taskService.BulkDeleteTasks(c.Param("id"), userID, req.TaskIDs)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseTaskID(c *gin.Context) (uint64, bool) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, false
	}
	return taskID, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrBoardNotFound):
		apierrors.NotFound(c, "Board not found")
	case errors.Is(err, services.ErrArchivedTaskNotFound):
		apierrors.NotFound(c, "Archived task not found")
	case errors.Is(err, services.ErrArchivedBoardGone):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrActiveTaskLimitReached):
		apierrors.CapacityExceeded(c, "Board already has the maximum number of active tasks")
	case errors.Is(err, services.ErrTaskNotActive),
		errors.Is(err, services.ErrTaskNotCompleted),
		errors.Is(err, services.ErrReorderSetMismatch):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrTaskTitleRequired),
		errors.Is(err, services.ErrNoTaskIDsProvided),
		errors.Is(err, services.ErrUnknownSection):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
