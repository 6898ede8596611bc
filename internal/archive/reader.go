package archive

import (
	"fmt"

	"gorm.io/gorm"

	"taskboard-api/internal/models"
	"taskboard-api/internal/repository"
)

// Reader provides paginated access to a user's archived tasks, newest first.
type Reader struct {
	db *gorm.DB
}

// NewReader creates a Reader over the given database handle.
func NewReader(db *gorm.DB) *Reader {
	return &Reader{db: db}
}

// ListArchived returns archived tasks for the user ordered by archive time
// descending. limit is clamped to at least 1 and offset to at least 0; an
// empty result is not an error.
func (r *Reader) ListArchived(userID uint64, limit, offset int) ([]models.ArchivedTask, error) {
	if limit < 1 {
		limit = 1
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := repository.NewTaskRepository(r.db).ListArchived(userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("archive: failed to list archived tasks: %w", err)
	}
	return rows, nil
}

// CountArchived returns the user's total archived-task count for
// pagination math.
func (r *Reader) CountArchived(userID uint64) (int64, error) {
	count, err := repository.NewTaskRepository(r.db).CountArchived(userID)
	if err != nil {
		return 0, fmt.Errorf("archive: failed to count archived tasks: %w", err)
	}
	return count, nil
}
