package models

import "time"

// Task is one entry on a board. Active and completed tasks share the table,
// partitioned by IsCompleted; Position orders tasks within their section.
//
// Invariant: CompletedOn is non-nil iff IsCompleted is true. Tasks are hard
// deleted: archiving physically moves rows into archived_tasks, and counts
// against the board ceiling must see real row counts, not soft-delete ghosts.
type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	BoardID     string     `gorm:"type:varchar(36);not null;index" json:"board_id"`
	Title       string     `gorm:"column:task;not null" json:"task"`
	DueDate     time.Time  `gorm:"type:date;not null" json:"due_date"`
	Notes       string     `gorm:"type:text" json:"notes"`
	IsCompleted bool       `gorm:"not null;default:false;index" json:"is_completed"`
	CompletedOn *time.Time `gorm:"type:date" json:"completed_on"`
	Position    int        `gorm:"not null;default:0" json:"position"`
	CreatedAt   time.Time  `json:"created_at"`

	// Relations
	Board Board `gorm:"foreignKey:BoardID" json:"-"`
}
