package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskboard-api/internal/archive"
	"taskboard-api/internal/constants"
	"taskboard-api/internal/models"
)

// TaskServiceTestSuite drives the task facade end to end against an
// in-memory SQLite database, with archiving enabled at a low ceiling so
// eviction paths are easy to trigger.
type TaskServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *TaskService
	user    *models.User
	board   *models.Board
}

func (suite *TaskServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Board{},
		&models.Task{},
		&models.ArchivedTask{},
	)
	suite.Require().NoError(err)

	engine := archive.NewEngine(archive.Config{Enabled: true, MaxTasksPerBoard: 5})
	suite.service = NewTaskService(suite.db, engine)

	suite.user = suite.createUser("worker")
	suite.board = suite.createBoard(suite.user.ID, "Inbox")
}

func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskServiceTestSuite) createUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *TaskServiceTestSuite) createBoard(userID uint64, header string) *models.Board {
	board := &models.Board{
		ID:     uuid.NewString(),
		UserID: userID,
		Header: header,
	}
	suite.Require().NoError(suite.db.Create(board).Error)
	return board
}

func (suite *TaskServiceTestSuite) addTask(boardID, title string) *models.Task {
	task, err := suite.service.AddTask(AddTaskInput{
		BoardID: boardID,
		UserID:  suite.user.ID,
		Title:   title,
		DueDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	})
	suite.Require().NoError(err)
	return task
}

func (suite *TaskServiceTestSuite) completeTask(taskID uint64) *CompleteResult {
	result, err := suite.service.CompleteTask(taskID, suite.user.ID)
	suite.Require().NoError(err)
	return result
}

func (suite *TaskServiceTestSuite) countTasks(boardID string) int64 {
	var count int64
	suite.Require().NoError(suite.db.Model(&models.Task{}).Where("board_id = ?", boardID).Count(&count).Error)
	return count
}

func (suite *TaskServiceTestSuite) countArchived(userID uint64) int64 {
	var count int64
	suite.Require().NoError(suite.db.Model(&models.ArchivedTask{}).Where("user_id = ?", userID).Count(&count).Error)
	return count
}

func (suite *TaskServiceTestSuite) TestAddTaskAssignsSequentialPositions() {
	first := suite.addTask(suite.board.ID, "first")
	second := suite.addTask(suite.board.ID, "  second  ")

	suite.Equal(1, first.Position)
	suite.Equal(2, second.Position)
	suite.Equal("second", second.Title)
	suite.False(first.IsCompleted)
	suite.Nil(first.CompletedOn)
}

func (suite *TaskServiceTestSuite) TestAddTaskRejectsBlankTitle() {
	_, err := suite.service.AddTask(AddTaskInput{
		BoardID: suite.board.ID,
		UserID:  suite.user.ID,
		Title:   "   ",
		DueDate: time.Now(),
	})
	suite.Require().ErrorIs(err, ErrTaskTitleRequired)
}

func (suite *TaskServiceTestSuite) TestAddTaskEnforcesActiveCap() {
	for i := 0; i < constants.MaxActiveTasksPerBoard; i++ {
		suite.addTask(suite.board.ID, "filler")
	}

	_, err := suite.service.AddTask(AddTaskInput{
		BoardID: suite.board.ID,
		UserID:  suite.user.ID,
		Title:   "one too many",
		DueDate: time.Now(),
	})
	suite.Require().ErrorIs(err, ErrActiveTaskLimitReached)
}

func (suite *TaskServiceTestSuite) TestAddTaskToForeignBoard() {
	other := suite.createUser("other")
	foreign := suite.createBoard(other.ID, "Theirs")

	_, err := suite.service.AddTask(AddTaskInput{
		BoardID: foreign.ID,
		UserID:  suite.user.ID,
		Title:   "sneaky",
		DueDate: time.Now(),
	})
	suite.Require().ErrorIs(err, ErrBoardNotFound)
}

func (suite *TaskServiceTestSuite) TestCompleteTaskSetsCompletionDate() {
	task := suite.addTask(suite.board.ID, "ship it")

	result := suite.completeTask(task.ID)

	suite.True(result.Task.IsCompleted)
	suite.Require().NotNil(result.Task.CompletedOn)
	suite.Equal(0, result.Archived)

	// Completion dates are day-granular.
	on := *result.Task.CompletedOn
	suite.Equal(0, on.Hour())
	suite.Equal(0, on.Minute())
}

func (suite *TaskServiceTestSuite) TestCompleteTaskTwiceFails() {
	task := suite.addTask(suite.board.ID, "once only")
	suite.completeTask(task.ID)

	_, err := suite.service.CompleteTask(task.ID, suite.user.ID)
	suite.Require().ErrorIs(err, ErrTaskNotActive)
}

func (suite *TaskServiceTestSuite) TestCompletionTriggersOverflowArchiving() {
	// Fill the board to its total ceiling of 5, all active.
	var tasks []*models.Task
	for i := 0; i < 5; i++ {
		tasks = append(tasks, suite.addTask(suite.board.ID, "task"))
	}

	// Completing tasks does not change the total, so nothing archives yet.
	for i := 0; i < 4; i++ {
		result := suite.completeTask(tasks[i].ID)
		suite.Equal(0, result.Archived)
	}

	// A sixth task pushes the total over the ceiling; the next completion
	// evicts the oldest completed task.
	suite.addTask(suite.board.ID, "overflow trigger")
	result := suite.completeTask(tasks[4].ID)

	suite.Equal(1, result.Archived)
	suite.Equal(int64(5), suite.countTasks(suite.board.ID))
	suite.Equal(int64(1), suite.countArchived(suite.user.ID))
}

func (suite *TaskServiceTestSuite) TestUncompleteTaskRoundTrip() {
	task := suite.addTask(suite.board.ID, "flip flop")
	suite.completeTask(task.ID)

	restored, err := suite.service.UncompleteTask(task.ID, suite.user.ID)
	suite.Require().NoError(err)
	suite.False(restored.IsCompleted)
	suite.Nil(restored.CompletedOn)
}

func (suite *TaskServiceTestSuite) TestUncompleteRequiresCompletedTask() {
	task := suite.addTask(suite.board.ID, "still active")

	_, err := suite.service.UncompleteTask(task.ID, suite.user.ID)
	suite.Require().ErrorIs(err, ErrTaskNotCompleted)
}

func (suite *TaskServiceTestSuite) TestUncompleteBlockedByActiveCap() {
	done := suite.addTask(suite.board.ID, "done")
	suite.completeTask(done.ID)

	for i := 0; i < constants.MaxActiveTasksPerBoard; i++ {
		suite.addTask(suite.board.ID, "filler")
	}

	_, err := suite.service.UncompleteTask(done.ID, suite.user.ID)
	suite.Require().ErrorIs(err, ErrActiveTaskLimitReached)
}

func (suite *TaskServiceTestSuite) TestDeleteTaskIsPermanent() {
	task := suite.addTask(suite.board.ID, "gone")

	deleted, err := suite.service.DeleteTask(task.ID, suite.user.ID)
	suite.Require().NoError(err)
	suite.Equal(task.ID, deleted.ID)

	suite.Equal(int64(0), suite.countTasks(suite.board.ID))
	// Deletion never archives.
	suite.Equal(int64(0), suite.countArchived(suite.user.ID))

	_, err = suite.service.DeleteTask(task.ID, suite.user.ID)
	suite.Require().ErrorIs(err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestForeignTasksAreInvisible() {
	other := suite.createUser("other")
	foreign := suite.createBoard(other.ID, "Theirs")
	task := &models.Task{BoardID: foreign.ID, Title: "private", DueDate: time.Now()}
	suite.Require().NoError(suite.db.Create(task).Error)

	_, err := suite.service.CompleteTask(task.ID, suite.user.ID)
	suite.Require().ErrorIs(err, ErrTaskNotFound)

	_, err = suite.service.DeleteTask(task.ID, suite.user.ID)
	suite.Require().ErrorIs(err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestBulkCompleteSkipsAndReports() {
	mine := suite.addTask(suite.board.ID, "mine")
	already := suite.addTask(suite.board.ID, "already done")
	suite.completeTask(already.ID)

	elsewhere := suite.createBoard(suite.user.ID, "Other board")
	offBoard := suite.addTask(elsewhere.ID, "off board")

	result, err := suite.service.BulkCompleteTasks(suite.board.ID, suite.user.ID,
		[]uint64{mine.ID, already.ID, offBoard.ID, 99999})
	suite.Require().NoError(err)

	suite.Equal(4, result.Requested)
	suite.Equal(1, result.Completed)
	suite.ElementsMatch([]uint64{already.ID, offBoard.ID, 99999}, result.Skipped)
}

func (suite *TaskServiceTestSuite) TestBulkCompleteArchivesOnce() {
	var ids []uint64
	for i := 0; i < 7; i++ {
		ids = append(ids, suite.addTask(suite.board.ID, "task").ID)
	}

	result, err := suite.service.BulkCompleteTasks(suite.board.ID, suite.user.ID, ids)
	suite.Require().NoError(err)

	suite.Equal(7, result.Completed)
	suite.Equal(2, result.Archived)
	suite.Equal(int64(5), suite.countTasks(suite.board.ID))
	suite.Equal(int64(2), suite.countArchived(suite.user.ID))
}

func (suite *TaskServiceTestSuite) TestBulkCompleteRequiresIDs() {
	_, err := suite.service.BulkCompleteTasks(suite.board.ID, suite.user.ID, nil)
	suite.Require().ErrorIs(err, ErrNoTaskIDsProvided)
}

func (suite *TaskServiceTestSuite) TestBulkDeleteSkipsForeignRows() {
	mine := suite.addTask(suite.board.ID, "mine")
	elsewhere := suite.createBoard(suite.user.ID, "Other board")
	offBoard := suite.addTask(elsewhere.ID, "off board")

	result, err := suite.service.BulkDeleteTasks(suite.board.ID, suite.user.ID,
		[]uint64{mine.ID, offBoard.ID})
	suite.Require().NoError(err)

	suite.Equal(1, result.Deleted)
	suite.Equal([]uint64{offBoard.ID}, result.Skipped)
	suite.Equal(int64(0), suite.countTasks(suite.board.ID))
	suite.Equal(int64(1), suite.countTasks(elsewhere.ID))
}

func (suite *TaskServiceTestSuite) TestReorderRewritesPositions() {
	a := suite.addTask(suite.board.ID, "a")
	b := suite.addTask(suite.board.ID, "b")
	c := suite.addTask(suite.board.ID, "c")

	err := suite.service.ReorderTasks(suite.board.ID, suite.user.ID, "active",
		[]uint64{c.ID, a.ID, b.ID})
	suite.Require().NoError(err)

	var tasks []models.Task
	suite.Require().NoError(suite.db.
		Where("board_id = ?", suite.board.ID).
		Order("position").
		Find(&tasks).Error)
	suite.Require().Len(tasks, 3)
	suite.Equal(c.ID, tasks[0].ID)
	suite.Equal(a.ID, tasks[1].ID)
	suite.Equal(b.ID, tasks[2].ID)
}

func (suite *TaskServiceTestSuite) TestReorderRejectsPartialSets() {
	a := suite.addTask(suite.board.ID, "a")
	suite.addTask(suite.board.ID, "b")

	err := suite.service.ReorderTasks(suite.board.ID, suite.user.ID, "active",
		[]uint64{a.ID})
	suite.Require().ErrorIs(err, ErrReorderSetMismatch)

	err = suite.service.ReorderTasks(suite.board.ID, suite.user.ID, "active",
		[]uint64{a.ID, 99999})
	suite.Require().ErrorIs(err, ErrReorderSetMismatch)
}

func (suite *TaskServiceTestSuite) TestReorderValidatesSection() {
	err := suite.service.ReorderTasks(suite.board.ID, suite.user.ID, "archived", []uint64{1})
	suite.Require().ErrorIs(err, ErrUnknownSection)
}

func (suite *TaskServiceTestSuite) TestMoveTaskBetweenBoards() {
	target := suite.createBoard(suite.user.ID, "Target")
	task := suite.addTask(suite.board.ID, "traveller")

	result, err := suite.service.MoveTask(task.ID, suite.user.ID, target.ID)
	suite.Require().NoError(err)

	suite.True(result.Moved)
	suite.Equal(suite.board.ID, result.FromBoardID)
	suite.Equal(target.ID, result.ToBoardID)
	suite.Equal(int64(0), suite.countTasks(suite.board.ID))
	suite.Equal(int64(1), suite.countTasks(target.ID))
}

func (suite *TaskServiceTestSuite) TestMoveToSameBoardIsNoOp() {
	task := suite.addTask(suite.board.ID, "stay put")

	result, err := suite.service.MoveTask(task.ID, suite.user.ID, suite.board.ID)
	suite.Require().NoError(err)
	suite.False(result.Moved)
	suite.Equal(int64(1), suite.countTasks(suite.board.ID))
}

func (suite *TaskServiceTestSuite) TestMoveBlockedByTargetActiveCap() {
	target := suite.createBoard(suite.user.ID, "Full")
	for i := 0; i < constants.MaxActiveTasksPerBoard; i++ {
		suite.addTask(target.ID, "filler")
	}
	task := suite.addTask(suite.board.ID, "homeless")

	_, err := suite.service.MoveTask(task.ID, suite.user.ID, target.ID)
	suite.Require().ErrorIs(err, ErrActiveTaskLimitReached)
}

func (suite *TaskServiceTestSuite) TestMovingCompletedTaskMakesRoomOnTarget() {
	target := suite.createBoard(suite.user.ID, "Busy")
	// Target sits at its total ceiling with completed tasks available to evict.
	var targetTasks []*models.Task
	for i := 0; i < 5; i++ {
		targetTasks = append(targetTasks, suite.addTask(target.ID, "resident"))
	}
	suite.completeTask(targetTasks[0].ID)

	task := suite.addTask(suite.board.ID, "incoming")
	suite.completeTask(task.ID)

	result, err := suite.service.MoveTask(task.ID, suite.user.ID, target.ID)
	suite.Require().NoError(err)

	suite.True(result.Moved)
	suite.True(result.IsCompleted)
	suite.Equal(1, result.Archived)
	suite.Equal(int64(5), suite.countTasks(target.ID))
}

func (suite *TaskServiceTestSuite) TestRestoreArchivedTaskRoundTrip() {
	var ids []uint64
	for i := 0; i < 6; i++ {
		ids = append(ids, suite.addTask(suite.board.ID, "task").ID)
	}
	result, err := suite.service.BulkCompleteTasks(suite.board.ID, suite.user.ID, ids)
	suite.Require().NoError(err)
	suite.Require().Equal(1, result.Archived)

	var row models.ArchivedTask
	suite.Require().NoError(suite.db.Where("user_id = ?", suite.user.ID).First(&row).Error)

	restored, err := suite.service.RestoreArchivedTask(row.ID, suite.user.ID)
	suite.Require().NoError(err)

	suite.Equal(suite.board.ID, restored.BoardID)
	// The original task identity is never reused.
	suite.NotEqual(row.OriginalTaskID, restored.NewTaskID)

	var task models.Task
	suite.Require().NoError(suite.db.First(&task, restored.NewTaskID).Error)
	suite.False(task.IsCompleted)
	suite.Nil(task.CompletedOn)
	suite.Equal(row.Title, task.Title)

	// The archive row is consumed.
	suite.Equal(int64(1), suite.countArchived(suite.user.ID))
	_, err = suite.service.RestoreArchivedTask(row.ID, suite.user.ID)
	suite.Require().ErrorIs(err, ErrArchivedTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestRestoreFailsWhenBoardIsGone() {
	row := &models.ArchivedTask{
		UserID:             suite.user.ID,
		OriginalTaskID:     42,
		BoardID:            uuid.NewString(),
		BoardNameAtArchive: "Deleted board",
		Title:              "orphan",
		DueDate:            time.Now(),
		ArchivedOn:         time.Now(),
	}
	suite.Require().NoError(suite.db.Create(row).Error)

	_, err := suite.service.RestoreArchivedTask(row.ID, suite.user.ID)
	suite.Require().ErrorIs(err, ErrArchivedBoardGone)

	// The failed restore leaves the archive row in place.
	suite.Equal(int64(1), suite.countArchived(suite.user.ID))
}

func (suite *TaskServiceTestSuite) TestRestoreBlockedByActiveCap() {
	row := &models.ArchivedTask{
		UserID:             suite.user.ID,
		OriginalTaskID:     42,
		BoardID:            suite.board.ID,
		BoardNameAtArchive: "Inbox",
		Title:              "returning",
		DueDate:            time.Now(),
		ArchivedOn:         time.Now(),
	}
	suite.Require().NoError(suite.db.Create(row).Error)

	for i := 0; i < constants.MaxActiveTasksPerBoard; i++ {
		suite.addTask(suite.board.ID, "filler")
	}

	_, err := suite.service.RestoreArchivedTask(row.ID, suite.user.ID)
	suite.Require().ErrorIs(err, ErrActiveTaskLimitReached)
}

func (suite *TaskServiceTestSuite) TestRestoreIsInvisibleToOtherUsers() {
	row := &models.ArchivedTask{
		UserID:             suite.user.ID,
		OriginalTaskID:     42,
		BoardID:            suite.board.ID,
		BoardNameAtArchive: "Inbox",
		Title:              "mine",
		DueDate:            time.Now(),
		ArchivedOn:         time.Now(),
	}
	suite.Require().NoError(suite.db.Create(row).Error)

	other := suite.createUser("other")
	_, err := suite.service.RestoreArchivedTask(row.ID, other.ID)
	suite.Require().ErrorIs(err, ErrArchivedTaskNotFound)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
