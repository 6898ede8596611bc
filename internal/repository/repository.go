package repository

import (
	"taskboard-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// CreateWithDefaultBoard creates a user and their starter board
	// within a single transaction.
	CreateWithDefaultBoard(user *models.User, board *models.Board) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}

// BoardRepository defines the interface for board data access. Every lookup
// is scoped to the owning user; a board belonging to someone else behaves
// exactly like a missing board.
type BoardRepository interface {
	// Create creates a new board
	Create(board *models.Board) error

	// FindOwned finds a board by ID, scoped to the owning user
	FindOwned(boardID string, userID uint64) (*models.Board, error)

	// ListByUser lists a user's boards ordered by position, with tasks
	// ordered section-first then by position
	ListByUser(userID uint64) ([]models.Board, error)

	// Update updates a board
	Update(board *models.Board) error

	// Delete deletes a board and its tasks
	Delete(boardID string, userID uint64) error

	// CountByUser counts the boards a user owns
	CountByUser(userID uint64) (int64, error)

	// NextPosition returns the next ordering position for a new board
	NextPosition(userID uint64) (int, error)
}

// TaskRepository defines the interface for task and archive-row data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindOwned finds a task by ID, scoped to the owning user via its board
	FindOwned(taskID uint64, userID uint64) (*models.Task, error)

	// ListSection lists one section of a board in display order
	ListSection(boardID string, completed bool) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete removes a task row, reporting whether a row was deleted
	Delete(taskID uint64) (bool, error)

	// CountActive counts incomplete tasks on a board
	CountActive(boardID string) (int64, error)

	// CountTotal counts all tasks on a board, active and completed
	CountTotal(boardID string) (int64, error)

	// NextPosition returns the next ordering position within a board section
	NextPosition(boardID string, completed bool) (int, error)

	// SetPosition updates a single task's position
	SetPosition(taskID uint64, position int) error

	// CreateArchived inserts an archive snapshot row
	CreateArchived(row *models.ArchivedTask) error

	// FindArchivedOwned finds an archived task scoped to the owning user
	FindArchivedOwned(archivedID uint64, userID uint64) (*models.ArchivedTask, error)

	// DeleteArchived removes an archive row
	DeleteArchived(archivedID uint64) error

	// ListArchived returns a user's archived tasks newest-first
	ListArchived(userID uint64, limit, offset int) ([]models.ArchivedTask, error)

	// CountArchived counts a user's archived tasks
	CountArchived(userID uint64) (int64, error)
}
