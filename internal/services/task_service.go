package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"taskboard-api/internal/archive"
	"taskboard-api/internal/constants"
	"taskboard-api/internal/models"
	"taskboard-api/internal/repository"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTaskNotActive          = errors.New("task is not active")
	ErrTaskNotCompleted       = errors.New("task is not completed")
	ErrTaskTitleRequired      = errors.New("task description is required")
	ErrActiveTaskLimitReached = errors.New("board already has the maximum number of active tasks")
	ErrNoTaskIDsProvided      = errors.New("at least one task ID is required")
	ErrReorderSetMismatch     = errors.New("ordered IDs must match the current set of tasks in that section")
	ErrUnknownSection         = errors.New("section must be 'active' or 'completed'")
	ErrArchivedTaskNotFound   = errors.New("archived task not found")
	ErrArchivedBoardGone      = errors.New("the archived task references a board that no longer exists")
)

// TaskService is the facade behind every task mutation. Operations that can
// change a board's completion state run the archive engine inside the same
// transaction as the triggering mutation, so a board is never observed
// committed while over its ceiling with no archive step applied.
type TaskService struct {
	db     *gorm.DB
	engine *archive.Engine
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *gorm.DB, engine *archive.Engine) *TaskService {
	return &TaskService{
		db:     db,
		engine: engine,
	}
}

// AddTaskInput represents input for creating a task.
type AddTaskInput struct {
	BoardID string
	UserID  uint64
	Title   string
	DueDate time.Time
	Notes   string
}

// AddTask creates an active task on a board, enforcing the active-task cap.
func (s *TaskService) AddTask(input AddTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTaskTitleRequired
	}

	var task *models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := findOwnedBoard(tx, input.BoardID, input.UserID); err != nil {
			return err
		}

		taskRepo := repository.NewTaskRepository(tx)

		active, err := taskRepo.CountActive(input.BoardID)
		if err != nil {
			return fmt.Errorf("failed to count active tasks: %w", err)
		}
		if active >= constants.MaxActiveTasksPerBoard {
			return ErrActiveTaskLimitReached
		}

		position, err := taskRepo.NextPosition(input.BoardID, false)
		if err != nil {
			return fmt.Errorf("failed to allocate task position: %w", err)
		}

		task = &models.Task{
			BoardID:  input.BoardID,
			Title:    title,
			DueDate:  input.DueDate,
			Notes:    strings.TrimSpace(input.Notes),
			Position: position,
		}
		if err := taskRepo.Create(task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTaskInput represents the optional field updates for a task.
type UpdateTaskInput struct {
	Title   *string
	DueDate *time.Time
	Notes   *string
}

// UpdateTask updates the core fields of a task owned by the user.
func (s *TaskService) UpdateTask(taskID, userID uint64, input UpdateTaskInput) (*models.Task, error) {
	taskRepo := repository.NewTaskRepository(s.db)

	task, err := taskRepo.FindOwned(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTaskTitleRequired
		}
		task.Title = title
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
	if input.Notes != nil {
		task.Notes = strings.TrimSpace(*input.Notes)
	}

	if err := taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task regardless of completion state.
func (s *TaskService) DeleteTask(taskID, userID uint64) (*models.Task, error) {
	taskRepo := repository.NewTaskRepository(s.db)

	task, err := taskRepo.FindOwned(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if _, err := taskRepo.Delete(task.ID); err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	return task, nil
}

// CompleteResult reports a completion and how many tasks it caused to be
// archived.
type CompleteResult struct {
	Task     *models.Task
	Archived int
}

// CompleteTask marks an active task complete and runs overflow archiving on
// its board, all in one transaction. If archiving fails the completion rolls
// back with it.
func (s *TaskService) CompleteTask(taskID, userID uint64) (*CompleteResult, error) {
	result := &CompleteResult{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		taskRepo := repository.NewTaskRepository(tx)

		task, err := taskRepo.FindOwned(taskID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("failed to find task: %w", err)
		}
		if task.IsCompleted {
			return ErrTaskNotActive
		}

		completedOn := startOfDay(time.Now())
		task.IsCompleted = true
		task.CompletedOn = &completedOn

		position, err := taskRepo.NextPosition(task.BoardID, true)
		if err != nil {
			return fmt.Errorf("failed to allocate task position: %w", err)
		}
		task.Position = position

		if err := taskRepo.Update(task); err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		archived, err := s.engine.ArchiveOverflow(tx, task.BoardID, userID)
		if err != nil {
			return err
		}

		result.Task = task
		result.Archived = archived
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UncompleteTask moves a completed task back to the active section, blocked
// when the board is already at its active-task cap.
func (s *TaskService) UncompleteTask(taskID, userID uint64) (*models.Task, error) {
	var task *models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		taskRepo := repository.NewTaskRepository(tx)

		found, err := taskRepo.FindOwned(taskID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("failed to find task: %w", err)
		}
		if !found.IsCompleted {
			return ErrTaskNotCompleted
		}

		active, err := taskRepo.CountActive(found.BoardID)
		if err != nil {
			return fmt.Errorf("failed to count active tasks: %w", err)
		}
		if active >= constants.MaxActiveTasksPerBoard {
			return ErrActiveTaskLimitReached
		}

		position, err := taskRepo.NextPosition(found.BoardID, false)
		if err != nil {
			return fmt.Errorf("failed to allocate task position: %w", err)
		}

		found.IsCompleted = false
		found.CompletedOn = nil
		found.Position = position

		if err := taskRepo.Update(found); err != nil {
			return fmt.Errorf("failed to uncomplete task: %w", err)
		}

		task = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// BulkCompleteResult reports the outcome of a bulk completion.
type BulkCompleteResult struct {
	Requested int      `json:"requested"`
	Completed int      `json:"completed"`
	Archived  int      `json:"archived"`
	Skipped   []uint64 `json:"skipped"`
}

// BulkCompleteTasks completes several tasks on one board in a single
// transaction. IDs that are missing, foreign, or already completed are
// skipped; overflow archiving runs once at the end, and an archiving failure
// rolls the already-marked completions back with it.
func (s *TaskService) BulkCompleteTasks(boardID string, userID uint64, taskIDs []uint64) (*BulkCompleteResult, error) {
	if len(taskIDs) == 0 {
		return nil, ErrNoTaskIDsProvided
	}

	result := &BulkCompleteResult{
		Requested: len(taskIDs),
		Skipped:   []uint64{},
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := findOwnedBoard(tx, boardID, userID); err != nil {
			return err
		}

		taskRepo := repository.NewTaskRepository(tx)
		completedOn := startOfDay(time.Now())

		for _, taskID := range taskIDs {
			task, err := taskRepo.FindOwned(taskID, userID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					result.Skipped = append(result.Skipped, taskID)
					continue
				}
				return fmt.Errorf("failed to find task: %w", err)
			}
			if task.BoardID != boardID || task.IsCompleted {
				result.Skipped = append(result.Skipped, taskID)
				continue
			}

			on := completedOn
			task.IsCompleted = true
			task.CompletedOn = &on

			position, err := taskRepo.NextPosition(boardID, true)
			if err != nil {
				return fmt.Errorf("failed to allocate task position: %w", err)
			}
			task.Position = position

			if err := taskRepo.Update(task); err != nil {
				return fmt.Errorf("failed to complete task %d: %w", taskID, err)
			}
			result.Completed++
		}

		archived, err := s.engine.ArchiveOverflow(tx, boardID, userID)
		if err != nil {
			return err
		}
		result.Archived = archived
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BulkDeleteResult reports the outcome of a bulk deletion.
type BulkDeleteResult struct {
	Requested int      `json:"requested"`
	Deleted   int      `json:"deleted"`
	Skipped   []uint64 `json:"skipped"`
}

// BulkDeleteTasks deletes several tasks from one board in a single
// transaction, skipping ids that do not belong to the board.
func (s *TaskService) BulkDeleteTasks(boardID string, userID uint64, taskIDs []uint64) (*BulkDeleteResult, error) {
	if len(taskIDs) == 0 {
		return nil, ErrNoTaskIDsProvided
	}

	result := &BulkDeleteResult{
		Requested: len(taskIDs),
		Skipped:   []uint64{},
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := findOwnedBoard(tx, boardID, userID); err != nil {
			return err
		}

		taskRepo := repository.NewTaskRepository(tx)
		for _, taskID := range taskIDs {
			task, err := taskRepo.FindOwned(taskID, userID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					result.Skipped = append(result.Skipped, taskID)
					continue
				}
				return fmt.Errorf("failed to find task: %w", err)
			}
			if task.BoardID != boardID {
				result.Skipped = append(result.Skipped, taskID)
				continue
			}

			if _, err := taskRepo.Delete(taskID); err != nil {
				return fmt.Errorf("failed to delete task %d: %w", taskID, err)
			}
			result.Deleted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReorderTasks rewrites the positions of one board section. The provided ids
// must be exactly the section's current task set.
func (s *TaskService) ReorderTasks(boardID string, userID uint64, section string, orderedIDs []uint64) error {
	var completed bool
	switch section {
	case "active":
		completed = false
	case "completed":
		completed = true
	default:
		return ErrUnknownSection
	}
	if len(orderedIDs) == 0 {
		return ErrNoTaskIDsProvided
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := findOwnedBoard(tx, boardID, userID); err != nil {
			return err
		}

		taskRepo := repository.NewTaskRepository(tx)

		existing, err := taskRepo.ListSection(boardID, completed)
		if err != nil {
			return fmt.Errorf("failed to list section: %w", err)
		}

		if len(existing) != len(orderedIDs) {
			return ErrReorderSetMismatch
		}
		existingSet := make(map[uint64]struct{}, len(existing))
		for _, task := range existing {
			existingSet[task.ID] = struct{}{}
		}
		for _, id := range orderedIDs {
			if _, ok := existingSet[id]; !ok {
				return ErrReorderSetMismatch
			}
			delete(existingSet, id)
		}

		for i, id := range orderedIDs {
			if err := taskRepo.SetPosition(id, i+1); err != nil {
				return fmt.Errorf("failed to set position for task %d: %w", id, err)
			}
		}
		return nil
	})
}

// MoveResult reports a cross-board move.
type MoveResult struct {
	TaskID      uint64 `json:"task_id"`
	FromBoardID string `json:"from"`
	ToBoardID   string `json:"to"`
	IsCompleted bool   `json:"is_completed"`
	Archived    int    `json:"archived"`
	Moved       bool   `json:"moved"`
}

// MoveTask moves a task to another board owned by the same user, preserving
// completion state. Active moves enforce the target's active-task cap;
// before the row lands, the archive engine pre-clears room on the target so
// the move does not leave it over its total ceiling.
func (s *TaskService) MoveTask(taskID, userID uint64, targetBoardID string) (*MoveResult, error) {
	result := &MoveResult{TaskID: taskID}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		taskRepo := repository.NewTaskRepository(tx)

		task, err := taskRepo.FindOwned(taskID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("failed to find task: %w", err)
		}

		result.FromBoardID = task.BoardID
		result.ToBoardID = targetBoardID
		result.IsCompleted = task.IsCompleted

		if task.BoardID == targetBoardID {
			return nil
		}

		if err := findOwnedBoard(tx, targetBoardID, userID); err != nil {
			return err
		}

		if !task.IsCompleted {
			active, err := taskRepo.CountActive(targetBoardID)
			if err != nil {
				return fmt.Errorf("failed to count active tasks: %w", err)
			}
			if active >= constants.MaxActiveTasksPerBoard {
				return ErrActiveTaskLimitReached
			}
		}

		archived, err := s.engine.ArchiveToFit(tx, targetBoardID, userID, 1)
		if err != nil {
			return err
		}
		result.Archived = archived

		position, err := taskRepo.NextPosition(targetBoardID, task.IsCompleted)
		if err != nil {
			return fmt.Errorf("failed to allocate task position: %w", err)
		}

		task.BoardID = targetBoardID
		task.Position = position
		if err := taskRepo.Update(task); err != nil {
			return fmt.Errorf("failed to move task: %w", err)
		}

		result.Moved = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RestoreResult reports a restore from the archive.
type RestoreResult struct {
	NewTaskID uint64 `json:"task_id"`
	BoardID   string `json:"board_id"`
	Archived  int    `json:"archived"`
}

// RestoreArchivedTask turns an archive row back into a brand-new active task
// on its recorded board, then deletes the archive row in one transaction. The
// board must still exist and be owned by the user, the active-task cap is
// enforced, and the engine pre-clears room for the incoming row. The
// original task id is never reused.
func (s *TaskService) RestoreArchivedTask(archivedID, userID uint64) (*RestoreResult, error) {
	result := &RestoreResult{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		taskRepo := repository.NewTaskRepository(tx)

		row, err := taskRepo.FindArchivedOwned(archivedID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrArchivedTaskNotFound
			}
			return fmt.Errorf("failed to find archived task: %w", err)
		}

		if err := findOwnedBoard(tx, row.BoardID, userID); err != nil {
			if errors.Is(err, ErrBoardNotFound) {
				return ErrArchivedBoardGone
			}
			return err
		}

		active, err := taskRepo.CountActive(row.BoardID)
		if err != nil {
			return fmt.Errorf("failed to count active tasks: %w", err)
		}
		if active >= constants.MaxActiveTasksPerBoard {
			return ErrActiveTaskLimitReached
		}

		archived, err := s.engine.ArchiveToFit(tx, row.BoardID, userID, 1)
		if err != nil {
			return err
		}
		result.Archived = archived

		position, err := taskRepo.NextPosition(row.BoardID, false)
		if err != nil {
			return fmt.Errorf("failed to allocate task position: %w", err)
		}

		task := &models.Task{
			BoardID:  row.BoardID,
			Title:    row.Title,
			DueDate:  row.DueDate,
			Notes:    row.Notes,
			Position: position,
		}
		if err := taskRepo.Create(task); err != nil {
			return fmt.Errorf("failed to recreate task: %w", err)
		}

		if err := taskRepo.DeleteArchived(row.ID); err != nil {
			return fmt.Errorf("failed to delete archive row: %w", err)
		}

		result.NewTaskID = task.ID
		result.BoardID = row.BoardID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// findOwnedBoard asserts the board exists and belongs to the user, on the
// given transaction handle. Every facade entry point that takes a board id
// goes through this before doing anything else.
func findOwnedBoard(tx *gorm.DB, boardID string, userID uint64) error {
	_, err := repository.NewBoardRepository(tx).FindOwned(boardID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBoardNotFound
		}
		return fmt.Errorf("failed to verify board ownership: %w", err)
	}
	return nil
}
