package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/todoboard/internal/domain/entities"
	"github.com/taskmaster/todoboard/internal/infrastructure/config"
	"github.com/taskmaster/todoboard/internal/infrastructure/database"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.New(config.DatabaseConfig{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "board.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.MigrateUp())

	db.DB.MustExec(`INSERT INTO users (id, first_name, last_name) VALUES
		(1, 'Zoe', 'Adams'), (2, 'Ada', 'Lovelace'), (3, 'Grace', '')`)
	return db.DB
}

func int64p(v int64) *int64 { return &v }

func TestTodoRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewTodoRepository(newTestDB(t))

	deadline := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	todo := &entities.Todo{
		Name:        "Write report",
		Description: "quarterly numbers",
		AuthorID:    int64p(1),
		AssigneeID:  int64p(2),
		Deadline:    &deadline,
	}
	require.NoError(t, repo.Create(ctx, todo))

	assert.NotZero(t, todo.ID)
	assert.False(t, todo.CreatedAt.IsZero())
	assert.Equal(t, entities.StatusTodo, todo.Status)

	got, err := repo.GetByID(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write report", got.Name)
	assert.Equal(t, int64(1), *got.AuthorID)
	assert.Equal(t, int64(2), *got.AssigneeID)
	require.NotNil(t, got.Deadline)
	assert.True(t, deadline.Equal(*got.Deadline))
}

func TestTodoRepositoryUnknownUser(t *testing.T) {
	ctx := context.Background()
	repo := NewTodoRepository(newTestDB(t))

	err := repo.Create(ctx, &entities.Todo{Name: "x", AuthorID: int64p(42)})
	assert.ErrorIs(t, err, entities.ErrUnknownUser)

	todo := &entities.Todo{Name: "y", AuthorID: int64p(1)}
	require.NoError(t, repo.Create(ctx, todo))
	todo.AssigneeID = int64p(77)
	assert.ErrorIs(t, repo.Update(ctx, todo), entities.ErrUnknownUser)
}

func TestTodoRepositoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewTodoRepository(newTestDB(t))

	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, &entities.Todo{Name: name, AuthorID: int64p(1)}))
	}

	todos, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 3)
	assert.Equal(t, "third", todos[0].Name)
	assert.Equal(t, "first", todos[2].Name)
}

func TestTodoRepositoryUpdateKeepsAuthor(t *testing.T) {
	ctx := context.Background()
	repo := NewTodoRepository(newTestDB(t))

	todo := &entities.Todo{Name: "draft", AuthorID: int64p(1)}
	require.NoError(t, repo.Create(ctx, todo))
	created := todo.CreatedAt

	todo.Name = "final"
	todo.Status = entities.StatusDone
	todo.AuthorID = int64p(2)
	todo.AssigneeID = int64p(3)
	require.NoError(t, repo.Update(ctx, todo))

	assert.Equal(t, "final", todo.Name)
	assert.Equal(t, entities.StatusDone, todo.Status)
	assert.Equal(t, int64(1), *todo.AuthorID, "author column is never rewritten")
	assert.Equal(t, int64(3), *todo.AssigneeID)
	assert.True(t, created.Equal(todo.CreatedAt))

	missing := &entities.Todo{ID: 999, Name: "ghost", Status: entities.StatusTodo}
	assert.ErrorIs(t, repo.Update(ctx, missing), entities.ErrTodoNotFound)
}

func TestTodoRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewTodoRepository(newTestDB(t))

	todo := &entities.Todo{Name: "gone soon", AuthorID: int64p(1)}
	require.NoError(t, repo.Create(ctx, todo))

	require.NoError(t, repo.Delete(ctx, todo.ID))
	_, err := repo.GetByID(ctx, todo.ID)
	assert.ErrorIs(t, err, entities.ErrTodoNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, todo.ID), entities.ErrTodoNotFound)
}

func TestTodoRepositoryReadsNullText(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	db.MustExec(`INSERT INTO todos (todo_id, status) VALUES (5, 'INPROGRESS')`)

	got, err := NewTodoRepository(db).GetByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "", got.Name)
	assert.Equal(t, "", got.Description)
	assert.Nil(t, got.AuthorID)
	assert.Nil(t, got.Deadline)
	assert.Equal(t, entities.StatusInProgress, got.Status)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, []string{"Ada", "Grace", "Zoe"}, []string{users[0].FirstName, users[1].FirstName, users[2].FirstName})

	user, err := repo.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Grace", user.FullName())

	_, err = repo.GetByID(ctx, 404)
	assert.ErrorIs(t, err, entities.ErrUserNotFound)
}

func TestTodoFromRecordDefaults(t *testing.T) {
	todo := TodoFromRecord(TodoRecord{ID: 1})
	assert.Equal(t, entities.StatusTodo, todo.Status)
	assert.Empty(t, todo.Name)

	rec := TodoToRecord(&entities.Todo{Name: "n"})
	assert.Equal(t, "TODO", rec.Status)
	require.NotNil(t, rec.Name)
	assert.Equal(t, "n", *rec.Name)
}

func TestUserFromRecord(t *testing.T) {
	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.FixedZone("CET", 3600))
	user := UserFromRecord(UserRecord{ID: 3, FirstName: "Grace", LastName: "Hopper", CreatedAt: created})
	assert.Equal(t, "Grace Hopper", user.FullName())
	assert.True(t, user.CreatedAt.Equal(created))
	assert.Equal(t, time.UTC, user.CreatedAt.Location())
}
