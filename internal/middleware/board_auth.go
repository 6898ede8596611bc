package middleware

import (
	"github.com/gin-gonic/gin"

	"taskboard-api/internal/database"
	apierrors "taskboard-api/internal/errors"
	"taskboard-api/internal/models"
)

// ContextKeyBoard is the gin context key the loaded board is stored under.
const ContextKeyBoard = "board"

// RequireBoardAccess checks that the :id board exists and is owned by the
// current user, and stores it in the context for the handler. A board owned
// by someone else reports 404 to avoid leaking its existence.
func RequireBoardAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		boardID := c.Param("id")
		if boardID == "" {
			apierrors.BadRequest(c, "Invalid board ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var board models.Board
		if err := database.GetDB().
			Where("id = ? AND user_id = ?", boardID, userID).
			First(&board).Error; err != nil {
			apierrors.NotFound(c, "Board not found")
			c.Abort()
			return
		}

		c.Set(ContextKeyBoard, board)
		c.Next()
	}
}

// GetBoard retrieves the board loaded by RequireBoardAccess.
func GetBoard(c *gin.Context) (models.Board, bool) {
	value, exists := c.Get(ContextKeyBoard)
	if !exists {
		return models.Board{}, false
	}
	board, ok := value.(models.Board)
	return board, ok
}
