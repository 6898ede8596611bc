package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard-api/internal/dto"
)

func sampleBoard() dto.BoardDTO {
	return dto.BoardDTO{
		ID:     "b-1",
		Header: "Work",
		Active: []dto.TaskDTO{
			{ID: 1, Task: "write report", DueDate: "2026-09-01", Notes: "for the Q3 review"},
			{ID: 2, Task: "send invoice", DueDate: "2026-08-25"},
		},
		Completed: []dto.TaskDTO{
			{ID: 3, Task: "book flights", DueDate: "2026-08-10", IsCompleted: true, CompletedOn: "2026-08-09"},
		},
	}
}

func TestRenderASCII(t *testing.T) {
	out := RenderASCII(sampleBoard())

	assert.Contains(t, out, "Board: Work")
	assert.Contains(t, out, "[2026-09-01] write report — for the Q3 review")
	assert.Contains(t, out, "[2026-08-25] send invoice")
	assert.Contains(t, out, "[2026-08-09] book flights")
}

func TestRenderASCIIEmptySections(t *testing.T) {
	out := RenderASCII(dto.BoardDTO{Header: "Empty"})

	assert.Contains(t, out, "Active Tasks:\n  (none)")
	assert.Contains(t, out, "Completed Tasks:\n  (none)")
}

func TestRenderASCIITruncatesCompleted(t *testing.T) {
	board := dto.BoardDTO{Header: "Busy"}
	for i := 0; i < 14; i++ {
		board.Completed = append(board.Completed, dto.TaskDTO{
			ID: uint64(i + 1), Task: fmt.Sprintf("done-%d", i), CompletedOn: "2026-08-01",
		})
	}

	out := RenderASCII(board)
	assert.Contains(t, out, "… 4 more completed tasks")
	assert.NotContains(t, out, "done-12")
}

func TestBuildCSV(t *testing.T) {
	out, err := BuildCSV(sampleBoard())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"id", "status", "task", "due_date", "notes", "completed_on"}, records[0])
	assert.Equal(t, []string{"1", "active", "write report", "2026-09-01", "for the Q3 review", ""}, records[1])
	assert.Equal(t, []string{"3", "completed", "book flights", "2026-08-10", "", "2026-08-09"}, records[3])
}

func TestBuildJSONRoundTrips(t *testing.T) {
	out, err := BuildJSON(sampleBoard())
	require.NoError(t, err)

	var decoded dto.BoardDTO
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "Work", decoded.Header)
	assert.Len(t, decoded.Active, 2)
	assert.Len(t, decoded.Completed, 1)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 30, 0, 0, time.UTC)
	out := Summarize(sampleBoard(), now)

	assert.Contains(t, out, "Board 'Work' overview:")
	assert.Contains(t, out, "- Active tasks: 2")
	assert.Contains(t, out, "- Completed tasks: 1")
	assert.Contains(t, out, "- Total tasks (active + completed): 3")
	// "send invoice" was due three days ago; "write report" is due in four.
	assert.Contains(t, out, "- Overdue tasks: 1")
	assert.Contains(t, out, "- Due within 7 days: 1")
	assert.Contains(t, out, "- Next due task: 'send invoice' on 2026-08-25")
}

func TestSummarizeEmptyBoard(t *testing.T) {
	out := Summarize(dto.BoardDTO{Header: "Bare"}, time.Now())

	assert.Contains(t, out, "- Active tasks: 0")
	assert.NotContains(t, out, "Next due task")
}
