package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"taskboard-api/internal/dto"
	"taskboard-api/internal/export"
	"taskboard-api/internal/services"
)

// BoardSnapshotTool handles the board_snapshot MCP tool.
type BoardSnapshotTool struct {
	boardService *services.BoardService
	session      *Session
}

// NewBoardSnapshotTool creates a BoardSnapshotTool.
func NewBoardSnapshotTool(boardService *services.BoardService, session *Session) *BoardSnapshotTool {
	return &BoardSnapshotTool{boardService: boardService, session: session}
}

// Definition returns the MCP tool definition for board_snapshot.
func (t *BoardSnapshotTool) Definition() mcp.Tool {
	return mcp.NewTool("board_snapshot",
		mcp.WithDescription(
			"Render a board as a plain-text snapshot suitable for showing to the user: "+
				"active tasks with due dates and notes, followed by recent completions.",
		),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("Board ID"),
		),
	)
}

// Handle processes the board_snapshot tool call.
func (t *BoardSnapshotTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	return mcp.NewToolResultText(export.RenderASCII(dto.ToBoardDTO(*board))), nil
}

// ExportBoardTool handles the export_board MCP tool.
type ExportBoardTool struct {
	boardService *services.BoardService
	session      *Session
}

// NewExportBoardTool creates an ExportBoardTool.
func NewExportBoardTool(boardService *services.BoardService, session *Session) *ExportBoardTool {
	return &ExportBoardTool{boardService: boardService, session: session}
}

// Definition returns the MCP tool definition for export_board.
func (t *ExportBoardTool) Definition() mcp.Tool {
	return mcp.NewTool("export_board",
		mcp.WithDescription(
			"Export a board's tasks as machine-readable data. Returns both a JSON document "+
				"and a CSV table covering active and completed tasks.",
		),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("Board ID"),
		),
		mcp.WithString("format",
			mcp.DefaultString("json"),
			mcp.Description("Which representation to return: json, csv, or both"),
		),
	)
}

// Handle processes the export_board tool call.
func (t *ExportBoardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	boardDTO := dto.ToBoardDTO(*board)

	switch format := req.GetString("format", "json"); format {
	case "json":
		doc, err := export.BuildJSON(boardDTO)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to build JSON export: %v", err)), nil
		}
		return mcp.NewToolResultText(doc), nil
	case "csv":
		doc, err := export.BuildCSV(boardDTO)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to build CSV export: %v", err)), nil
		}
		return mcp.NewToolResultText(doc), nil
	case "both":
		jsonDoc, err := export.BuildJSON(boardDTO)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to build JSON export: %v", err)), nil
		}
		csvDoc, err := export.BuildCSV(boardDTO)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to build CSV export: %v", err)), nil
		}
		out, err := json.MarshalIndent(map[string]string{"json": jsonDoc, "csv": csvDoc}, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode export: %v", err)), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q: use json, csv, or both", format)), nil
	}
}

// BoardSummaryTool handles the board_summary MCP tool.
type BoardSummaryTool struct {
	boardService *services.BoardService
	session      *Session
}

// NewBoardSummaryTool creates a BoardSummaryTool.
func NewBoardSummaryTool(boardService *services.BoardService, session *Session) *BoardSummaryTool {
	return &BoardSummaryTool{boardService: boardService, session: session}
}

// Definition returns the MCP tool definition for board_summary.
func (t *BoardSummaryTool) Definition() mcp.Tool {
	return mcp.NewTool("board_summary",
		mcp.WithDescription(
			"Summarize a board in a few lines: counts, overdue tasks, what is due in the "+
				"coming week, and the next due task.",
		),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("Board ID"),
		),
	)
}

// Handle processes the board_summary tool call.
func (t *BoardSummaryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	return mcp.NewToolResultText(export.Summarize(dto.ToBoardDTO(*board), time.Now())), nil
}
