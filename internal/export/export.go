// Package export renders boards into agent- and spreadsheet-friendly
// formats: an ASCII snapshot, CSV, JSON, and a short health summary. It is
// shared by the HTTP export endpoint and the MCP export tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"taskboard-api/internal/constants"
	"taskboard-api/internal/dto"
)

const completedPreviewLimit = 10

// RenderASCII produces a lightweight text representation of a board.
func RenderASCII(board dto.BoardDTO) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Board: %s\n\nActive Tasks:\n", board.Header)

	if len(board.Active) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, task := range board.Active {
		due := task.DueDate
		if due == "" {
			due = "—"
		}
		fmt.Fprintf(&b, "  • [%s] %s", due, task.Task)
		if task.Notes != "" {
			fmt.Fprintf(&b, " — %s", task.Notes)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nCompleted Tasks:\n")
	if len(board.Completed) == 0 {
		b.WriteString("  (none)\n")
	}
	for i, task := range board.Completed {
		if i == completedPreviewLimit {
			fmt.Fprintf(&b, "  … %d more completed tasks\n", len(board.Completed)-completedPreviewLimit)
			break
		}
		completedOn := task.CompletedOn
		if completedOn == "" {
			completedOn = "—"
		}
		fmt.Fprintf(&b, "  • [%s] %s\n", completedOn, task.Task)
	}

	return strings.TrimRight(b.String(), "\n")
}

// BuildCSV generates a CSV document covering both board sections.
func BuildCSV(board dto.BoardDTO) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write([]string{"id", "status", "task", "due_date", "notes", "completed_on"}); err != nil {
		return "", fmt.Errorf("export: failed to write csv header: %w", err)
	}
	for _, task := range board.Active {
		if err := w.Write([]string{fmt.Sprint(task.ID), "active", task.Task, task.DueDate, task.Notes, ""}); err != nil {
			return "", fmt.Errorf("export: failed to write csv row: %w", err)
		}
	}
	for _, task := range board.Completed {
		if err := w.Write([]string{fmt.Sprint(task.ID), "completed", task.Task, task.DueDate, task.Notes, task.CompletedOn}); err != nil {
			return "", fmt.Errorf("export: failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("export: failed to flush csv: %w", err)
	}
	return b.String(), nil
}

// BuildJSON generates an indented JSON document for the board.
func BuildJSON(board dto.BoardDTO) (string, error) {
	data, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export: failed to marshal board: %w", err)
	}
	return string(data), nil
}

// Summarize produces a human-readable overview of board health relative to
// the given time.
func Summarize(board dto.BoardDTO, now time.Time) string {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	overdue := 0
	upcoming := 0
	var nextDue *dto.TaskDTO
	var nextDueDate time.Time
	for i := range board.Active {
		task := &board.Active[i]
		due, err := time.ParseInLocation(constants.DueDateLayout, task.DueDate, now.Location())
		if err != nil {
			continue
		}
		if due.Before(today) {
			overdue++
		} else if days := due.Sub(today) / (24 * time.Hour); days <= 7 {
			upcoming++
		}
		if nextDue == nil || due.Before(nextDueDate) {
			nextDue = task
			nextDueDate = due
		}
	}

	lines := []string{
		fmt.Sprintf("Board '%s' overview:", board.Header),
		fmt.Sprintf("- Active tasks: %d", len(board.Active)),
		fmt.Sprintf("- Completed tasks: %d", len(board.Completed)),
		fmt.Sprintf("- Total tasks (active + completed): %d", len(board.Active)+len(board.Completed)),
		fmt.Sprintf("- Overdue tasks: %d", overdue),
		fmt.Sprintf("- Due within 7 days: %d", upcoming),
	}
	if nextDue != nil {
		lines = append(lines, fmt.Sprintf("- Next due task: '%s' on %s", nextDue.Task, nextDue.DueDate))
	}

	return strings.Join(lines, "\n")
}
