package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard-api/internal/dto"
	apierrors "taskboard-api/internal/errors"
	"taskboard-api/internal/export"
	"taskboard-api/internal/middleware"
	"taskboard-api/internal/services"
)

// BoardHandler coordinates board-related HTTP handlers.
type BoardHandler struct {
	boardService *services.BoardService
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(boardService *services.BoardService) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
	}
}

// ListBoards returns the user's boards with tasks partitioned into sections.
func (h *BoardHandler) ListBoards(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	boards, err := h.boardService.ListBoards(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list boards")
		return
	}

	boardDTOs := make([]dto.BoardDTO, len(boards))
	for i, board := range boards {
		boardDTOs[i] = dto.ToBoardDTO(board)
	}

	c.JSON(http.StatusOK, gin.H{"boards": boardDTOs})
}

// CreateBoard creates a new board for the user.
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateBoardRequest struct {
		Header string `json:"header" binding:"required"`
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.boardService.CreateBoard(userID, req.Header)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBoardDTO(*board))
}

// GetBoard returns one board with its tasks.
func (h *BoardHandler) GetBoard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	board, err := h.boardService.GetBoard(c.Param("id"), userID)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(*board))
}

// UpdateBoard renames a board.
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateBoardRequest struct {
		Header string `json:"header" binding:"required"`
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.boardService.RenameBoard(c.Param("id"), userID, req.Header)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(*board))
}

// DeleteBoard deletes a board and its tasks.
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.boardService.DeleteBoard(c.Param("id"), userID); err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Board deleted successfully",
	})
}

// GetBoardStats returns aggregate statistics for a board.
func (h *BoardHandler) GetBoardStats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.boardService.GetBoardStats(c.Param("id"), userID)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportBoard returns JSON and CSV exports of a board.
func (h *BoardHandler) ExportBoard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	board, err := h.boardService.GetBoard(c.Param("id"), userID)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	boardDTO := dto.ToBoardDTO(*board)
	jsonData, err := export.BuildJSON(boardDTO)
	if err != nil {
		apierrors.InternalError(c, "Failed to export board")
		return
	}
	csvData, err := export.BuildCSV(boardDTO)
	if err != nil {
		apierrors.InternalError(c, "Failed to export board")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"board_id": board.ID,
		"json":     jsonData,
		"csv":      csvData,
	})
}

// GetBoardSummary returns a text summary and ASCII snapshot of a board.
func (h *BoardHandler) GetBoardSummary(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	board, err := h.boardService.GetBoard(c.Param("id"), userID)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	boardDTO := dto.ToBoardDTO(*board)
	c.JSON(http.StatusOK, gin.H{
		"board_id": board.ID,
		"summary":  export.Summarize(boardDTO, time.Now()),
		"ascii":    export.RenderASCII(boardDTO),
	})
}

func respondBoardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBoardNotFound):
		apierrors.NotFound(c, "Board not found")
	case errors.Is(err, services.ErrInvalidBoardName):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrBoardLimitReached):
		apierrors.CapacityExceeded(c, "Board limit reached (4 per user)")
	case errors.Is(err, services.ErrCannotDeleteLastBoard):
		apierrors.Conflict(c, "Cannot delete the last remaining board")
	default:
		apierrors.InternalError(c, "")
	}
}
