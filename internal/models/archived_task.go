package models

import "time"

// ArchivedTask is an append-only snapshot of a completed task at the moment
// the archive engine evicted it. Rows are owned by the user directly (not the
// board) so they survive board deletion; BoardID and BoardNameAtArchive are
// denormalized for display and may dangle once the board is gone.
//
// ID is the row's own surrogate key. OriginalTaskID is provenance only and is
// never reused: restore mints a fresh task identity.
type ArchivedTask struct {
	ID                 uint64     `gorm:"primarykey" json:"id"`
	UserID             uint64     `gorm:"not null;index" json:"user_id"`
	OriginalTaskID     uint64     `gorm:"not null;index" json:"original_task_id"`
	BoardID            string     `gorm:"type:varchar(36);not null" json:"board_id"`
	BoardNameAtArchive string     `gorm:"type:varchar(255);not null" json:"board_name_at_archive"`
	Title              string     `gorm:"column:task;not null" json:"task"`
	DueDate            time.Time  `gorm:"type:date;not null" json:"due_date"`
	Notes              string     `gorm:"type:text" json:"notes"`
	CompletedOn        *time.Time `gorm:"type:date" json:"completed_on"`
	ArchivedOn         time.Time  `gorm:"not null;index" json:"archived_on"`
}
