package dto

import (
	"time"

	"taskboard-api/internal/constants"
	"taskboard-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// TaskDTO represents a task in API responses. Dates are rendered as
// YYYY-MM-DD strings.
type TaskDTO struct {
	ID          uint64 `json:"id"`
	BoardID     string `json:"board_id"`
	Task        string `json:"task"`
	DueDate     string `json:"due_date"`
	Notes       string `json:"notes"`
	IsCompleted bool   `json:"is_completed"`
	CompletedOn string `json:"completed_on,omitempty"`
	Position    int    `json:"position"`
}

// BoardDTO represents a board with its tasks partitioned into sections
type BoardDTO struct {
	ID        string    `json:"id"`
	Header    string    `json:"header"`
	Position  int       `json:"position"`
	Active    []TaskDTO `json:"active"`
	Completed []TaskDTO `json:"completed"`
}

// ArchivedTaskDTO represents an archive row in API responses
type ArchivedTaskDTO struct {
	ID                 uint64 `json:"id"`
	OriginalTaskID     uint64 `json:"original_task_id"`
	BoardID            string `json:"board_id"`
	BoardNameAtArchive string `json:"board_name_at_archive"`
	Task               string `json:"task"`
	DueDate            string `json:"due_date"`
	Notes              string `json:"notes"`
	CompletedOn        string `json:"completed_on,omitempty"`
	ArchivedOn         string `json:"archived_on"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		BoardID:     task.BoardID,
		Task:        task.Title,
		DueDate:     task.DueDate.Format(constants.DueDateLayout),
		Notes:       task.Notes,
		IsCompleted: task.IsCompleted,
		Position:    task.Position,
	}
	if task.CompletedOn != nil {
		dto.CompletedOn = task.CompletedOn.Format(constants.DueDateLayout)
	}
	return dto
}

// ToBoardDTO converts a Board model (tasks preloaded in display order) to a
// BoardDTO with active and completed sections
func ToBoardDTO(board models.Board) BoardDTO {
	dto := BoardDTO{
		ID:        board.ID,
		Header:    board.Header,
		Position:  board.Position,
		Active:    []TaskDTO{},
		Completed: []TaskDTO{},
	}
	for _, task := range board.Tasks {
		if task.IsCompleted {
			dto.Completed = append(dto.Completed, ToTaskDTO(task))
		} else {
			dto.Active = append(dto.Active, ToTaskDTO(task))
		}
	}
	return dto
}

// ToArchivedTaskDTO converts an ArchivedTask model to its DTO
func ToArchivedTaskDTO(row models.ArchivedTask) ArchivedTaskDTO {
	dto := ArchivedTaskDTO{
		ID:                 row.ID,
		OriginalTaskID:     row.OriginalTaskID,
		BoardID:            row.BoardID,
		BoardNameAtArchive: row.BoardNameAtArchive,
		Task:               row.Title,
		DueDate:            row.DueDate.Format(constants.DueDateLayout),
		Notes:              row.Notes,
		ArchivedOn:         row.ArchivedOn.Format(time.RFC3339),
	}
	if row.CompletedOn != nil {
		dto.CompletedOn = row.CompletedOn.Format(constants.DueDateLayout)
	}
	return dto
}

// ToArchivedTaskDTOs converts a slice of archive rows
func ToArchivedTaskDTOs(rows []models.ArchivedTask) []ArchivedTaskDTO {
	dtos := make([]ArchivedTaskDTO, len(rows))
	for i, row := range rows {
		dtos[i] = ToArchivedTaskDTO(row)
	}
	return dtos
}
