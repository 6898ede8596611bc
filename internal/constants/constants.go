package constants

// Session
const (
	SessionCookieName = "board_session"
	ContextKeyUserID  = "user_id"
)

// Auth
const (
	MinPasswordLength = 8
)

// Board and task caps. MaxBoardsPerUser and MaxActiveTasksPerBoard are hard
// limits enforced by the services; DefaultMaxTasksPerBoard is the total-task
// ceiling the archive engine trims boards down to (configurable via
// MAX_TASKS_PER_BOARD).
const (
	MaxBoardsPerUser        = 4
	MaxActiveTasksPerBoard  = 10
	DefaultMaxTasksPerBoard = 10
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DueDateLayout is the wire format for due dates and completion dates.
const DueDateLayout = "2006-01-02"
