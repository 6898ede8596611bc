package repository

import (
	"gorm.io/gorm"

	"taskboard-api/internal/database"
	"taskboard-api/internal/models"
	"taskboard-api/internal/utils"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository. Passing a transaction
// handle binds every operation to that transaction, which is how the archive
// engine and the service facade share one unit of work.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindOwned finds a task by ID scoped to the owning user via its board
func (r *GormTaskRepository) FindOwned(taskID uint64, userID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.
		Joins("JOIN boards ON boards.id = tasks.board_id").
		Where("tasks.id = ? AND boards.user_id = ?", taskID, userID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListSection lists one section of a board in display order
func (r *GormTaskRepository) ListSection(boardID string, completed bool) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Where("board_id = ? AND is_completed = ?", boardID, completed).
		Order("position, created_at").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task row. The boolean reports whether a row was actually
// deleted: a concurrent transaction may have removed it first, which callers
// (the archive engine in particular) must be able to detect.
func (r *GormTaskRepository) Delete(taskID uint64) (bool, error) {
	result := r.db.Delete(&models.Task{}, taskID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountActive counts incomplete tasks on a board
func (r *GormTaskRepository) CountActive(boardID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("board_id = ? AND is_completed = ?", boardID, false).
		Count(&count).Error
	return count, err
}

// CountTotal counts all tasks on a board
func (r *GormTaskRepository) CountTotal(boardID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("board_id = ?", boardID).
		Count(&count).Error
	return count, err
}

// NextPosition returns the next ordering position within a board section
func (r *GormTaskRepository) NextPosition(boardID string, completed bool) (int, error) {
	var max int
	err := r.db.Model(&models.Task{}).
		Where("board_id = ? AND is_completed = ?", boardID, completed).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// SetPosition updates a single task's position
func (r *GormTaskRepository) SetPosition(taskID uint64, position int) error {
	return r.db.Model(&models.Task{}).
		Where("id = ?", taskID).
		Update("position", position).Error
}

// CreateArchived inserts an archive snapshot row
func (r *GormTaskRepository) CreateArchived(row *models.ArchivedTask) error {
	return r.db.Create(row).Error
}

// FindArchivedOwned finds an archived task scoped to the owning user
func (r *GormTaskRepository) FindArchivedOwned(archivedID uint64, userID uint64) (*models.ArchivedTask, error) {
	var row models.ArchivedTask
	if err := r.db.Where("id = ? AND user_id = ?", archivedID, userID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// DeleteArchived removes an archive row
func (r *GormTaskRepository) DeleteArchived(archivedID uint64) error {
	return r.db.Delete(&models.ArchivedTask{}, archivedID).Error
}

// ListArchived returns a user's archived tasks ordered by archive time,
// newest first
func (r *GormTaskRepository) ListArchived(userID uint64, limit, offset int) ([]models.ArchivedTask, error) {
	var rows []models.ArchivedTask
	if err := r.db.
		Where("user_id = ?", userID).
		Order("archived_on DESC, id DESC").
		Scopes(database.Paginate(utils.PaginationParams{Limit: limit, Offset: offset})).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountArchived counts a user's archived tasks
func (r *GormTaskRepository) CountArchived(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.ArchivedTask{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
