package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskboard-api/internal/archive"
	"taskboard-api/internal/constants"
	"taskboard-api/internal/dto"
	"taskboard-api/internal/models"
	"taskboard-api/internal/services"
)

// TaskHandlerTestSuite drives the task and archive endpoints over HTTP with
// an in-memory SQLite database and a stubbed-in session user.
type TaskHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	user   *models.User
	board  *models.Board
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
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

	suite.user = &models.User{Username: "apiuser", PasswordHash: "hashedpassword"}
	suite.Require().NoError(suite.db.Create(suite.user).Error)

	suite.board = &models.Board{ID: uuid.NewString(), UserID: suite.user.ID, Header: "Inbox"}
	suite.Require().NoError(suite.db.Create(suite.board).Error)

	engine := archive.NewEngine(archive.Config{Enabled: true, MaxTasksPerBoard: 5})
	taskService := services.NewTaskService(suite.db, engine)
	taskHandler := NewTaskHandler(taskService)
	archiveHandler := NewArchiveHandler(archive.NewReader(suite.db), taskService)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	// Tests bypass the session store and inject the user directly.
	userID := suite.user.ID
	suite.router.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, userID)
	})

	suite.router.POST("/api/boards/:id/tasks", taskHandler.AddTask)
	suite.router.POST("/api/boards/:id/reorder", taskHandler.ReorderTasks)
	suite.router.POST("/api/boards/:id/tasks/bulk-complete", taskHandler.BulkCompleteTasks)
	suite.router.POST("/api/boards/:id/tasks/bulk-delete", taskHandler.BulkDeleteTasks)
	suite.router.PATCH("/api/tasks/:id", taskHandler.UpdateTask)
	suite.router.DELETE("/api/tasks/:id", taskHandler.DeleteTask)
	suite.router.POST("/api/tasks/:id/complete", taskHandler.CompleteTask)
	suite.router.POST("/api/tasks/:id/uncomplete", taskHandler.UncompleteTask)
	suite.router.POST("/api/tasks/:id/move", taskHandler.MoveTask)
	suite.router.GET("/api/archive", archiveHandler.ListArchived)
	suite.router.POST("/api/archive/:id/restore", archiveHandler.RestoreArchivedTask)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) request(method, path string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		suite.Require().NoError(json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TaskHandlerTestSuite) addTaskViaAPI(boardID, title string) dto.TaskDTO {
	w := suite.request(http.MethodPost, "/api/boards/"+boardID+"/tasks", map[string]string{
		"task":     title,
		"due_date": "2026-09-15",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var task dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &task))
	return task
}

func (suite *TaskHandlerTestSuite) TestAddTask() {
	task := suite.addTaskViaAPI(suite.board.ID, "write tests")

	suite.Equal("write tests", task.Task)
	suite.Equal("2026-09-15", task.DueDate)
	suite.Equal(suite.board.ID, task.BoardID)
	suite.False(task.IsCompleted)
}

func (suite *TaskHandlerTestSuite) TestAddTaskValidation() {
	w := suite.request(http.MethodPost, "/api/boards/"+suite.board.ID+"/tasks", map[string]string{
		"task":     "bad date",
		"due_date": "15/09/2026",
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPost, "/api/boards/"+suite.board.ID+"/tasks", map[string]string{
		"due_date": "2026-09-15",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestAddTaskCapReturnsConflict() {
	for i := 0; i < constants.MaxActiveTasksPerBoard; i++ {
		suite.addTaskViaAPI(suite.board.ID, "filler")
	}

	w := suite.request(http.MethodPost, "/api/boards/"+suite.board.ID+"/tasks", map[string]string{
		"task":     "one too many",
		"due_date": "2026-09-15",
	})
	suite.Equal(http.StatusConflict, w.Code)

	var apiErr struct {
		Code string `json:"code"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &apiErr))
	suite.Equal("CAPACITY_EXCEEDED", apiErr.Code)
}

func (suite *TaskHandlerTestSuite) TestCompleteTaskReportsArchivedCount() {
	// Fill the board to its total ceiling of 5 and complete everything.
	for i := 0; i < 5; i++ {
		id := suite.addTaskViaAPI(suite.board.ID, "task").ID
		w := suite.request(http.MethodPost, fmt.Sprintf("/api/tasks/%d/complete", id), nil)
		suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	}

	// A sixth completion puts the board one over the ceiling.
	id := suite.addTaskViaAPI(suite.board.ID, "task").ID
	w := suite.request(http.MethodPost, fmt.Sprintf("/api/tasks/%d/complete", id), nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response struct {
		Task     dto.TaskDTO `json:"task"`
		Archived int         `json:"archived"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.True(response.Task.IsCompleted)
	suite.Equal(1, response.Archived)
}

func (suite *TaskHandlerTestSuite) TestCompleteUnknownTask() {
	w := suite.request(http.MethodPost, "/api/tasks/99999/complete", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCompleteTwiceConflicts() {
	task := suite.addTaskViaAPI(suite.board.ID, "once")
	w := suite.request(http.MethodPost, fmt.Sprintf("/api/tasks/%d/complete", task.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodPost, fmt.Sprintf("/api/tasks/%d/complete", task.ID), nil)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask() {
	task := suite.addTaskViaAPI(suite.board.ID, "draft")

	w := suite.request(http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), map[string]string{
		"task":     "final",
		"due_date": "2026-10-01",
		"notes":    "reviewed",
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var updated dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	suite.Equal("final", updated.Task)
	suite.Equal("2026-10-01", updated.DueDate)
	suite.Equal("reviewed", updated.Notes)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskRequiresAField() {
	task := suite.addTaskViaAPI(suite.board.ID, "unchanged")

	w := suite.request(http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), map[string]string{})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestBulkCompleteEndpoint() {
	a := suite.addTaskViaAPI(suite.board.ID, "a")
	b := suite.addTaskViaAPI(suite.board.ID, "b")

	w := suite.request(http.MethodPost, "/api/boards/"+suite.board.ID+"/tasks/bulk-complete",
		map[string]any{"task_ids": []uint64{a.ID, b.ID, 99999}})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var result services.BulkCompleteResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &result))
	suite.Equal(3, result.Requested)
	suite.Equal(2, result.Completed)
	suite.Equal([]uint64{99999}, result.Skipped)
}

func (suite *TaskHandlerTestSuite) TestReorderEndpoint() {
	a := suite.addTaskViaAPI(suite.board.ID, "a")
	b := suite.addTaskViaAPI(suite.board.ID, "b")

	w := suite.request(http.MethodPost, "/api/boards/"+suite.board.ID+"/reorder",
		map[string]any{"section": "active", "ordered_task_ids": []uint64{b.ID, a.ID}})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	// A stale set is rejected.
	w = suite.request(http.MethodPost, "/api/boards/"+suite.board.ID+"/reorder",
		map[string]any{"section": "active", "ordered_task_ids": []uint64{b.ID}})
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *TaskHandlerTestSuite) TestMoveEndpoint() {
	target := &models.Board{ID: uuid.NewString(), UserID: suite.user.ID, Header: "Target"}
	suite.Require().NoError(suite.db.Create(target).Error)

	task := suite.addTaskViaAPI(suite.board.ID, "traveller")

	w := suite.request(http.MethodPost, fmt.Sprintf("/api/tasks/%d/move", task.ID),
		map[string]string{"target_board_id": target.ID})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var result services.MoveResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &result))
	suite.True(result.Moved)
	suite.Equal(target.ID, result.ToBoardID)
}

func (suite *TaskHandlerTestSuite) TestArchiveListingAndRestore() {
	var ids []uint64
	for i := 0; i < 6; i++ {
		ids = append(ids, suite.addTaskViaAPI(suite.board.ID, "task").ID)
	}
	w := suite.request(http.MethodPost, "/api/boards/"+suite.board.ID+"/tasks/bulk-complete",
		map[string]any{"task_ids": ids})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.request(http.MethodGet, "/api/archive", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var listing struct {
		ArchivedTasks []dto.ArchivedTaskDTO `json:"archived_tasks"`
		Pagination    struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &listing))
	suite.Require().Len(listing.ArchivedTasks, 1)
	suite.Equal(int64(1), listing.Pagination.Total)
	suite.Equal("Inbox", listing.ArchivedTasks[0].BoardNameAtArchive)

	w = suite.request(http.MethodPost, fmt.Sprintf("/api/archive/%d/restore", listing.ArchivedTasks[0].ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var restore services.RestoreResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &restore))
	suite.Equal(suite.board.ID, restore.BoardID)
	suite.NotZero(restore.NewTaskID)
}

func (suite *TaskHandlerTestSuite) TestRestoreUnknownArchiveEntry() {
	w := suite.request(http.MethodPost, "/api/archive/99999/restore", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteEndpoint() {
	task := suite.addTaskViaAPI(suite.board.ID, "doomed")

	w := suite.request(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
