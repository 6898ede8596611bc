package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard-api/internal/constants"
	"taskboard-api/internal/models"
	"taskboard-api/internal/repository"
)

var (
	ErrBoardNotFound      = errors.New("board not found")
	ErrInvalidBoardName   = errors.New("board name cannot be empty")
	ErrBoardLimitReached  = errors.New("board limit reached")
	ErrCannotDeleteLastBoard = errors.New("cannot delete the last remaining board")
)

// BoardService provides business logic for board operations.
type BoardService struct {
	boardRepo repository.BoardRepository
	taskRepo  repository.TaskRepository
}

// NewBoardService creates a new BoardService.
func NewBoardService(boardRepo repository.BoardRepository, taskRepo repository.TaskRepository) *BoardService {
	return &BoardService{
		boardRepo: boardRepo,
		taskRepo:  taskRepo,
	}
}

// CreateBoard creates a new board for the user, enforcing the per-user cap.
func (s *BoardService) CreateBoard(userID uint64, header string) (*models.Board, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, ErrInvalidBoardName
	}

	count, err := s.boardRepo.CountByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count boards: %w", err)
	}
	if count >= constants.MaxBoardsPerUser {
		return nil, ErrBoardLimitReached
	}

	position, err := s.boardRepo.NextPosition(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate board position: %w", err)
	}

	board := &models.Board{
		ID:       uuid.NewString(),
		UserID:   userID,
		Header:   header,
		Position: position,
	}

	if err := s.boardRepo.Create(board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	return board, nil
}

// ListBoards returns the user's boards with tasks in display order.
func (s *BoardService) ListBoards(userID uint64) ([]models.Board, error) {
	boards, err := s.boardRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

// GetBoard returns one board with its tasks, scoped to the owning user.
func (s *BoardService) GetBoard(boardID string, userID uint64) (*models.Board, error) {
	board, err := s.boardRepo.FindOwned(boardID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}

	active, err := s.taskRepo.ListSection(boardID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tasks: %w", err)
	}
	completed, err := s.taskRepo.ListSection(boardID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed tasks: %w", err)
	}

	board.Tasks = append(active, completed...)
	return board, nil
}

// RenameBoard updates a board's header.
func (s *BoardService) RenameBoard(boardID string, userID uint64, header string) (*models.Board, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, ErrInvalidBoardName
	}

	board, err := s.boardRepo.FindOwned(boardID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}

	board.Header = header
	if err := s.boardRepo.Update(board); err != nil {
		return nil, fmt.Errorf("failed to rename board: %w", err)
	}

	return board, nil
}

// DeleteBoard removes a board and its tasks. A user must always keep at
// least one board, so deleting the last one is refused. Archived tasks are
// independent of the board and survive.
func (s *BoardService) DeleteBoard(boardID string, userID uint64) error {
	if _, err := s.boardRepo.FindOwned(boardID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBoardNotFound
		}
		return fmt.Errorf("failed to find board: %w", err)
	}

	count, err := s.boardRepo.CountByUser(userID)
	if err != nil {
		return fmt.Errorf("failed to count boards: %w", err)
	}
	if count <= 1 {
		return ErrCannotDeleteLastBoard
	}

	if err := s.boardRepo.Delete(boardID, userID); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}

	return nil
}

// BoardStats aggregates the health numbers shown for a board.
type BoardStats struct {
	BoardID          string     `json:"board_id"`
	Name             string     `json:"name"`
	ActiveCount      int        `json:"active_count"`
	CompletedCount   int        `json:"completed_count"`
	TotalCount       int        `json:"total_count"`
	OverdueCount     int        `json:"overdue_count"`
	DueWithin7Days   int        `json:"due_within_7_days"`
	OldestCompletion *time.Time `json:"oldest_completion"`
	LatestCompletion *time.Time `json:"latest_completion"`
}

// GetBoardStats computes aggregate statistics for a board.
func (s *BoardService) GetBoardStats(boardID string, userID uint64) (*BoardStats, error) {
	board, err := s.GetBoard(boardID, userID)
	if err != nil {
		return nil, err
	}

	stats := &BoardStats{
		BoardID: board.ID,
		Name:    board.Header,
	}

	today := startOfDay(time.Now())
	weekOut := today.Add(7 * 24 * time.Hour)

	for _, task := range board.Tasks {
		if task.IsCompleted {
			stats.CompletedCount++
			if task.CompletedOn != nil {
				if stats.OldestCompletion == nil || task.CompletedOn.Before(*stats.OldestCompletion) {
					stats.OldestCompletion = task.CompletedOn
				}
				if stats.LatestCompletion == nil || task.CompletedOn.After(*stats.LatestCompletion) {
					stats.LatestCompletion = task.CompletedOn
				}
			}
			continue
		}

		stats.ActiveCount++
		due := startOfDay(task.DueDate)
		if due.Before(today) {
			stats.OverdueCount++
		} else if !due.After(weekOut) {
			stats.DueWithin7Days++
		}
	}

	stats.TotalCount = stats.ActiveCount + stats.CompletedCount
	return stats, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
