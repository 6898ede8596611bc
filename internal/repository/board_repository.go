package repository

import (
	"gorm.io/gorm"

	"taskboard-api/internal/models"
)

// GormBoardRepository is a GORM implementation of BoardRepository
type GormBoardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &GormBoardRepository{db: db}
}

// Create creates a new board
func (r *GormBoardRepository) Create(board *models.Board) error {
	return r.db.Create(board).Error
}

// FindOwned finds a board by ID scoped to the owning user. A board owned by
// another user yields gorm.ErrRecordNotFound, never a different error.
func (r *GormBoardRepository) FindOwned(boardID string, userID uint64) (*models.Board, error) {
	var board models.Board
	if err := r.db.Where("id = ? AND user_id = ?", boardID, userID).
		First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// ListByUser lists a user's boards with their tasks in display order
func (r *GormBoardRepository) ListByUser(userID uint64) ([]models.Board, error) {
	var boards []models.Board
	if err := r.db.
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_completed, position, created_at")
		}).
		Where("user_id = ?", userID).
		Order("position, created_at").
		Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// Update updates a board
func (r *GormBoardRepository) Update(board *models.Board) error {
	return r.db.Save(board).Error
}

// Delete deletes a board and all of its tasks in a transaction. Archived
// tasks are owned by the user, not the board, and are left untouched.
func (r *GormBoardRepository) Delete(boardID string, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ?", boardID).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ? AND user_id = ?", boardID, userID).
			Delete(&models.Board{}).Error
	})
}

// CountByUser counts the boards a user owns
func (r *GormBoardRepository) CountByUser(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Board{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// NextPosition returns the next ordering position for a new board
func (r *GormBoardRepository) NextPosition(userID uint64) (int, error) {
	var max int
	err := r.db.Model(&models.Board{}).
		Where("user_id = ?", userID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}
