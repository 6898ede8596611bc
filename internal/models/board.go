package models

import "time"

// Board is a named task list owned by exactly one user. Boards are keyed by
// a client-generated UUID so ids survive export/import across databases.
type Board struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	Header    string    `gorm:"type:varchar(255);not null" json:"header"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User  User   `gorm:"foreignKey:UserID" json:"-"`
	Tasks []Task `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}
