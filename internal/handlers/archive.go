package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskboard-api/internal/archive"
	"taskboard-api/internal/dto"
	apierrors "taskboard-api/internal/errors"
	"taskboard-api/internal/middleware"
	"taskboard-api/internal/services"
	"taskboard-api/internal/utils"
)

// ArchiveHandler serves the archived-task listing and restore endpoints.
type ArchiveHandler struct {
	reader      *archive.Reader
	taskService *services.TaskService
}

// NewArchiveHandler creates a new ArchiveHandler.
func NewArchiveHandler(reader *archive.Reader, taskService *services.TaskService) *ArchiveHandler {
	return &ArchiveHandler{
		reader:      reader,
		taskService: taskService,
	}
}

// ListArchived returns the user's archived tasks, newest first.
func (h *ArchiveHandler) ListArchived(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	rows, err := h.reader.ListArchived(userID, params.Limit, params.Offset)
	if err != nil {
		apierrors.InternalError(c, "Failed to list archived tasks")
		return
	}

	total, err := h.reader.CountArchived(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to count archived tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"archived_tasks": dto.ToArchivedTaskDTOs(rows),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// RestoreArchivedTask moves an archived task back into its original board
// as a fresh active task.
func (h *ArchiveHandler) RestoreArchivedTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	archivedID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid archived task ID")
		return
	}

	result, err := h.taskService.RestoreArchivedTask(archivedID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
