// Package archive implements the overflow-archiving subsystem: the policy
// and transactional mechanics that move a board's oldest completed tasks out
// of the live tasks table into archived_tasks once the board exceeds its
// total-task ceiling.
package archive

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskboard-api/internal/constants"
	"taskboard-api/internal/models"
	"taskboard-api/internal/repository"
)

var (
	// ErrBoardNotFound is returned when the board does not exist or is not
	// owned by the acting user.
	ErrBoardNotFound = errors.New("archive: board not found for user")
)

// Config controls the engine. It is plain value state passed to the
// constructor so tests can run several configurations side by side.
type Config struct {
	// Enabled is the global kill switch. When false every archiving
	// operation is a no-op returning zero.
	Enabled bool

	// MaxTasksPerBoard is the total-task (active + completed) ceiling that
	// triggers eviction. It is distinct from, and at least as large as, the
	// active-task cap enforced by the services.
	MaxTasksPerBoard int
}

// Engine decides when completed tasks must be evicted into the archive,
// selects victims deterministically, and moves them inside the caller's
// transaction. The engine never opens, commits, or rolls back a transaction:
// the tx handle it receives is owned by the caller.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine. A non-positive ceiling falls back to the
// default so a misconfigured environment cannot archive every task away.
func NewEngine(cfg Config) *Engine {
	if cfg.MaxTasksPerBoard < 1 {
		cfg.MaxTasksPerBoard = constants.DefaultMaxTasksPerBoard
	}
	return &Engine{cfg: cfg}
}

// Enabled reports whether archiving is switched on.
func (e *Engine) Enabled() bool {
	return e.cfg.Enabled
}

// Ceiling returns the configured total-task ceiling.
func (e *Engine) Ceiling() int {
	return e.cfg.MaxTasksPerBoard
}

// ArchiveOverflow trims the board down to the ceiling by archiving its
// oldest completed tasks. It returns the number of tasks actually moved.
// Counting, selection, and movement all happen on tx, so the decision is
// always based on the transaction's own view of the board.
func (e *Engine) ArchiveOverflow(tx *gorm.DB, boardID string, userID uint64) (int, error) {
	return e.archiveExcess(tx, boardID, userID, 0)
}

// ArchiveToFit behaves like ArchiveOverflow but pre-clears room for
// requiredAdditional rows about to be added to the board (a restore, or a
// task moving in), so callers can make space instead of cleaning up after.
func (e *Engine) ArchiveToFit(tx *gorm.DB, boardID string, userID uint64, requiredAdditional int) (int, error) {
	if requiredAdditional < 0 {
		requiredAdditional = 0
	}
	return e.archiveExcess(tx, boardID, userID, requiredAdditional)
}

func (e *Engine) archiveExcess(tx *gorm.DB, boardID string, userID uint64, additional int) (int, error) {
	if !e.cfg.Enabled {
		return 0, nil
	}

	// Ownership is re-validated here by scoping the board lookup, even
	// though callers are expected to have checked it already.
	board, err := repository.NewBoardRepository(tx).FindOwned(boardID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrBoardNotFound
		}
		return 0, fmt.Errorf("archive: failed to look up board: %w", err)
	}

	taskRepo := repository.NewTaskRepository(tx)

	total, err := taskRepo.CountTotal(boardID)
	if err != nil {
		return 0, fmt.Errorf("archive: failed to count tasks: %w", err)
	}

	overflow := int(total) + additional - e.cfg.MaxTasksPerBoard
	if overflow <= 0 {
		return 0, nil
	}

	victims, err := e.selectVictims(tx, boardID, overflow)
	if err != nil {
		return 0, err
	}

	// Never touch active tasks: when fewer completed tasks exist than the
	// overflow, only what is available gets archived and the board stays
	// over its ceiling until more tasks complete.
	archivedOn := time.Now()
	archived := 0
	for _, task := range victims {
		row := &models.ArchivedTask{
			UserID:             userID,
			OriginalTaskID:     task.ID,
			BoardID:            boardID,
			BoardNameAtArchive: board.Header,
			Title:              task.Title,
			DueDate:            task.DueDate,
			Notes:              task.Notes,
			CompletedOn:        task.CompletedOn,
			ArchivedOn:         archivedOn,
		}
		if err := taskRepo.CreateArchived(row); err != nil {
			return archived, fmt.Errorf("archive: failed to insert archive row for task %d: %w", task.ID, err)
		}

		deleted, err := taskRepo.Delete(task.ID)
		if err != nil {
			return archived, fmt.Errorf("archive: failed to delete task %d: %w", task.ID, err)
		}
		if !deleted {
			// A concurrent transaction won the race for this row. Drop the
			// duplicate snapshot and move on; the winner archived it.
			if err := taskRepo.DeleteArchived(row.ID); err != nil {
				return archived, fmt.Errorf("archive: failed to drop duplicate snapshot: %w", err)
			}
			continue
		}
		archived++
	}

	return archived, nil
}

// selectVictims picks the completed tasks to evict, oldest first. Tasks with
// an unknown completion date sort before dated ones, then ascending
// completion date, then ascending creation time, with the row id as the
// final tie-break so the order is total for any fixed database state.
func (e *Engine) selectVictims(tx *gorm.DB, boardID string, limit int) ([]models.Task, error) {
	var victims []models.Task
	err := tx.
		Where("board_id = ? AND is_completed = ?", boardID, true).
		Order("CASE WHEN completed_on IS NULL THEN 0 ELSE 1 END, completed_on ASC, created_at ASC, id ASC").
		Limit(limit).
		Find(&victims).Error
	if err != nil {
		return nil, fmt.Errorf("archive: failed to select eviction candidates: %w", err)
	}
	return victims, nil
}
