package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"taskboard-api/internal/dto"
	"taskboard-api/internal/services"
)

// ListBoardsTool handles the list_boards MCP tool.
type ListBoardsTool struct {
	boardService *services.BoardService
	session      *Session
}

// NewListBoardsTool creates a ListBoardsTool.
func NewListBoardsTool(boardService *services.BoardService, session *Session) *ListBoardsTool {
	return &ListBoardsTool{boardService: boardService, session: session}
}

// Definition returns the MCP tool definition for list_boards.
func (t *ListBoardsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_boards",
		mcp.WithDescription(
			"List the logged-in user's boards with their active and completed tasks. "+
				"Use this to discover board IDs for the other tools.",
		),
	)
}

// Handle processes the list_boards tool call.
func (t *ListBoardsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, errResult := requireLogin(t.session)
	if errResult != nil {
		return errResult, nil
	}

	boards, err := t.boardService.ListBoards(userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list boards: %v", err)), nil
	}

	dtos := make([]dto.BoardDTO, 0, len(boards))
	for _, board := range boards {
		dtos = append(dtos, dto.ToBoardDTO(board))
	}

	out, err := json.MarshalIndent(dtos, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode boards: %v", err)), nil
	}

	return mcp.NewToolResultText(string(out)), nil
}

// CreateBoardTool handles the create_board MCP tool.
type CreateBoardTool struct {
	boardService *services.BoardService
	session      *Session
}

// NewCreateBoardTool creates a CreateBoardTool.
func NewCreateBoardTool(boardService *services.BoardService, session *Session) *CreateBoardTool {
	return &CreateBoardTool{boardService: boardService, session: session}
}

// Definition returns the MCP tool definition for create_board.
func (t *CreateBoardTool) Definition() mcp.Tool {
	return mcp.NewTool("create_board",
		mcp.WithDescription(
			"Create a new board for the logged-in user. Users can hold at most four boards.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Board name"),
		),
	)
}

// Handle processes the create_board tool call.
func (t *CreateBoardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, errResult := requireLogin(t.session)
	if errResult != nil {
		return errResult, nil
	}

	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	board, err := t.boardService.CreateBoard(userID, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create board: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Board created: %q (ID %s)", board.Header, board.ID)), nil
}

// UpdateBoardNameTool handles the update_board_name MCP tool.
type UpdateBoardNameTool struct {
	boardService *services.BoardService
	session      *Session
}

// NewUpdateBoardNameTool creates an UpdateBoardNameTool.
func NewUpdateBoardNameTool(boardService *services.BoardService, session *Session) *UpdateBoardNameTool {
	return &UpdateBoardNameTool{boardService: boardService, session: session}
}

// Definition returns the MCP tool definition for update_board_name.
func (t *UpdateBoardNameTool) Definition() mcp.Tool {
	return mcp.NewTool("update_board_name",
		mcp.WithDescription("Rename a board owned by the logged-in user."),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("Board ID"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("New board name"),
		),
	)
}

// Handle processes the update_board_name tool call.
func (t *UpdateBoardNameTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, errResult := requireLogin(t.session)
	if errResult != nil {
		return errResult, nil
	}

	boardID := req.GetString("board_id", "")
	name := req.GetString("name", "")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	board, err := t.boardService.RenameBoard(boardID, userID, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to rename board: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Board %s renamed to %q", board.ID, board.Header)), nil
}

// DeleteBoardTool handles the delete_board MCP tool.
type DeleteBoardTool struct {
	boardService *services.BoardService
	session      *Session
}

// NewDeleteBoardTool creates a DeleteBoardTool.
func NewDeleteBoardTool(boardService *services.BoardService, session *Session) *DeleteBoardTool {
	return &DeleteBoardTool{boardService: boardService, session: session}
}

// Definition returns the MCP tool definition for delete_board.
func (t *DeleteBoardTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_board",
		mcp.WithDescription(
			"Delete a board and all of its tasks. The user's last remaining board cannot be deleted. "+
				"Archived tasks from the board are kept but can no longer be restored.",
		),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("Board ID"),
		),
	)
}

// Handle processes the delete_board tool call.
func (t *DeleteBoardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, errResult := requireLogin(t.session)
	if errResult != nil {
		return errResult, nil
	}

	boardID := req.GetString("board_id", "")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	if err := t.boardService.DeleteBoard(boardID, userID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete board: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Board %s deleted", boardID)), nil
}

// BoardStatsTool handles the get_board_stats MCP tool.
type BoardStatsTool struct {
	boardService *services.BoardService
	session      *Session
}

// NewBoardStatsTool creates a BoardStatsTool.
func NewBoardStatsTool(boardService *services.BoardService, session *Session) *BoardStatsTool {
	return &BoardStatsTool{boardService: boardService, session: session}
}

// Definition returns the MCP tool definition for get_board_stats.
func (t *BoardStatsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_board_stats",
		mcp.WithDescription(
			"Get aggregate statistics for a board: task counts, overdue tasks, "+
				"tasks due within a week, and the completion date range.",
		),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("Board ID"),
		),
	)
}

// Handle processes the get_board_stats tool call.
func (t *BoardStatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, errResult := requireLogin(t.session)
	if errResult != nil {
		return errResult, nil
	}

	boardID := req.GetString("board_id", "")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	stats, err := t.boardService.GetBoardStats(boardID, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to compute board stats: %v", err)), nil
	}

	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode stats: %v", err)), nil
	}

	return mcp.NewToolResultText(string(out)), nil
}
