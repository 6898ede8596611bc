package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskboard-api/internal/constants"
	"taskboard-api/internal/models"
	"taskboard-api/internal/repository"
)

type boardTestEnv struct {
	db      *gorm.DB
	service *BoardService
	user    *models.User
}

func setupBoardTestEnv(t *testing.T) boardTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Board{},
		&models.Task{},
		&models.ArchivedTask{},
	)
	require.NoError(t, err)

	user := &models.User{Username: "boardowner", PasswordHash: "hashedpassword"}
	require.NoError(t, db.Create(user).Error)

	service := NewBoardService(repository.NewBoardRepository(db), repository.NewTaskRepository(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return boardTestEnv{db: db, service: service, user: user}
}

func TestBoardService_CreateBoard(t *testing.T) {
	env := setupBoardTestEnv(t)

	board, err := env.service.CreateBoard(env.user.ID, "  Projects  ")
	require.NoError(t, err)
	require.Equal(t, "Projects", board.Header)
	require.NotEmpty(t, board.ID)
	require.Equal(t, 1, board.Position)

	second, err := env.service.CreateBoard(env.user.ID, "Errands")
	require.NoError(t, err)
	require.Equal(t, 2, second.Position)
}

func TestBoardService_CreateBoardRejectsBlankName(t *testing.T) {
	env := setupBoardTestEnv(t)

	_, err := env.service.CreateBoard(env.user.ID, "   ")
	require.ErrorIs(t, err, ErrInvalidBoardName)
}

func TestBoardService_BoardCap(t *testing.T) {
	env := setupBoardTestEnv(t)

	for i := 0; i < constants.MaxBoardsPerUser; i++ {
		_, err := env.service.CreateBoard(env.user.ID, "Board")
		require.NoError(t, err)
	}

	_, err := env.service.CreateBoard(env.user.ID, "One too many")
	require.ErrorIs(t, err, ErrBoardLimitReached)
}

func TestBoardService_CannotDeleteLastBoard(t *testing.T) {
	env := setupBoardTestEnv(t)

	only, err := env.service.CreateBoard(env.user.ID, "Only one")
	require.NoError(t, err)

	err = env.service.DeleteBoard(only.ID, env.user.ID)
	require.ErrorIs(t, err, ErrCannotDeleteLastBoard)
}

func TestBoardService_DeleteBoardRemovesTasks(t *testing.T) {
	env := setupBoardTestEnv(t)

	keep, err := env.service.CreateBoard(env.user.ID, "Keep")
	require.NoError(t, err)
	doomed, err := env.service.CreateBoard(env.user.ID, "Doomed")
	require.NoError(t, err)

	task := &models.Task{BoardID: doomed.ID, Title: "casualty", DueDate: time.Now()}
	require.NoError(t, env.db.Create(task).Error)

	require.NoError(t, env.service.DeleteBoard(doomed.ID, env.user.ID))

	var count int64
	require.NoError(t, env.db.Model(&models.Task{}).Where("board_id = ?", doomed.ID).Count(&count).Error)
	require.Zero(t, count)

	_, err = env.service.GetBoard(doomed.ID, env.user.ID)
	require.ErrorIs(t, err, ErrBoardNotFound)
	_, err = env.service.GetBoard(keep.ID, env.user.ID)
	require.NoError(t, err)
}

func TestBoardService_RenameBoard(t *testing.T) {
	env := setupBoardTestEnv(t)

	board, err := env.service.CreateBoard(env.user.ID, "Old name")
	require.NoError(t, err)

	renamed, err := env.service.RenameBoard(board.ID, env.user.ID, "New name")
	require.NoError(t, err)
	require.Equal(t, "New name", renamed.Header)

	_, err = env.service.RenameBoard(board.ID, env.user.ID, "")
	require.ErrorIs(t, err, ErrInvalidBoardName)
}

func TestBoardService_ForeignBoardsAreNotFound(t *testing.T) {
	env := setupBoardTestEnv(t)

	other := &models.User{Username: "other", PasswordHash: "hashedpassword"}
	require.NoError(t, env.db.Create(other).Error)

	foreign := &models.Board{ID: uuid.NewString(), UserID: other.ID, Header: "Private"}
	require.NoError(t, env.db.Create(foreign).Error)

	_, err := env.service.GetBoard(foreign.ID, env.user.ID)
	require.ErrorIs(t, err, ErrBoardNotFound)

	_, err = env.service.RenameBoard(foreign.ID, env.user.ID, "Hijacked")
	require.ErrorIs(t, err, ErrBoardNotFound)

	err = env.service.DeleteBoard(foreign.ID, env.user.ID)
	require.ErrorIs(t, err, ErrBoardNotFound)
}

func TestBoardService_GetBoardOrdersSections(t *testing.T) {
	env := setupBoardTestEnv(t)

	board, err := env.service.CreateBoard(env.user.ID, "Ordered")
	require.NoError(t, err)

	completedOn := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	done := &models.Task{
		BoardID: board.ID, Title: "done", DueDate: time.Now(),
		IsCompleted: true, CompletedOn: &completedOn, Position: 1,
	}
	require.NoError(t, env.db.Create(done).Error)

	first := &models.Task{BoardID: board.ID, Title: "first", DueDate: time.Now(), Position: 1}
	second := &models.Task{BoardID: board.ID, Title: "second", DueDate: time.Now(), Position: 2}
	require.NoError(t, env.db.Create(first).Error)
	require.NoError(t, env.db.Create(second).Error)

	loaded, err := env.service.GetBoard(board.ID, env.user.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Tasks, 3)

	// Active tasks come first in position order, completed after.
	require.Equal(t, first.ID, loaded.Tasks[0].ID)
	require.Equal(t, second.ID, loaded.Tasks[1].ID)
	require.Equal(t, done.ID, loaded.Tasks[2].ID)
}

func TestBoardService_GetBoardStats(t *testing.T) {
	env := setupBoardTestEnv(t)

	board, err := env.service.CreateBoard(env.user.ID, "Numbers")
	require.NoError(t, err)

	today := startOfDay(time.Now())
	overdue := &models.Task{BoardID: board.ID, Title: "late", DueDate: today.AddDate(0, 0, -3)}
	soon := &models.Task{BoardID: board.ID, Title: "soon", DueDate: today.AddDate(0, 0, 2)}
	far := &models.Task{BoardID: board.ID, Title: "far", DueDate: today.AddDate(0, 0, 30)}
	require.NoError(t, env.db.Create(overdue).Error)
	require.NoError(t, env.db.Create(soon).Error)
	require.NoError(t, env.db.Create(far).Error)

	early := today.AddDate(0, 0, -10)
	late := today.AddDate(0, 0, -1)
	require.NoError(t, env.db.Create(&models.Task{
		BoardID: board.ID, Title: "old win", DueDate: today,
		IsCompleted: true, CompletedOn: &early,
	}).Error)
	require.NoError(t, env.db.Create(&models.Task{
		BoardID: board.ID, Title: "recent win", DueDate: today,
		IsCompleted: true, CompletedOn: &late,
	}).Error)

	stats, err := env.service.GetBoardStats(board.ID, env.user.ID)
	require.NoError(t, err)

	require.Equal(t, 3, stats.ActiveCount)
	require.Equal(t, 2, stats.CompletedCount)
	require.Equal(t, 5, stats.TotalCount)
	require.Equal(t, 1, stats.OverdueCount)
	require.Equal(t, 1, stats.DueWithin7Days)
	require.NotNil(t, stats.OldestCompletion)
	require.NotNil(t, stats.LatestCompletion)
	require.True(t, stats.OldestCompletion.Before(*stats.LatestCompletion))
}
