package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/taskmaster/todoboard/internal/domain/entities"
	"github.com/taskmaster/todoboard/internal/ports"
)

const todoColumns = `todo_id, name, description, author_id, assignee_id, deadline, status, created_at`

// TodoRepositoryImpl implements the TodoRepository interface on sqlx
type TodoRepositoryImpl struct {
	db *sqlx.DB
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *sqlx.DB) ports.TodoRepository {
	return &TodoRepositoryImpl{db: db}
}

func (r *TodoRepositoryImpl) List(ctx context.Context) ([]entities.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos ORDER BY created_at DESC, todo_id DESC`

	var records []TodoRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	todos := make([]entities.Todo, 0, len(records))
	for _, rec := range records {
		todos = append(todos, TodoFromRecord(rec))
	}
	return todos, nil
}

func (r *TodoRepositoryImpl) GetByID(ctx context.Context, id int64) (*entities.Todo, error) {
	query := r.db.Rebind(`SELECT ` + todoColumns + ` FROM todos WHERE todo_id = ?`)

	var rec TodoRecord
	if err := r.db.GetContext(ctx, &rec, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTodoNotFound
		}
		return nil, fmt.Errorf("get todo by id: %w", err)
	}

	todo := TodoFromRecord(rec)
	return &todo, nil
}

func (r *TodoRepositoryImpl) Create(ctx context.Context, todo *entities.Todo) error {
	rec := TodoToRecord(todo)
	query := r.db.Rebind(`
		INSERT INTO todos (name, description, author_id, assignee_id, deadline, status)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING todo_id`)

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		rec.Name, rec.Description, rec.AuthorID, rec.AssigneeID, rec.Deadline, rec.Status,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return entities.ErrUnknownUser
		}
		return fmt.Errorf("create todo: %w", err)
	}

	stored, err := r.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	*todo = *stored
	return nil
}

func (r *TodoRepositoryImpl) Update(ctx context.Context, todo *entities.Todo) error {
	rec := TodoToRecord(todo)
	query := r.db.Rebind(`
		UPDATE todos
		SET name = ?, description = ?, assignee_id = ?, deadline = ?, status = ?
		WHERE todo_id = ?`)

	result, err := r.db.ExecContext(ctx, query,
		rec.Name, rec.Description, rec.AssigneeID, rec.Deadline, rec.Status, rec.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return entities.ErrUnknownUser
		}
		return fmt.Errorf("update todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	if rowsAffected == 0 {
		return entities.ErrTodoNotFound
	}

	stored, err := r.GetByID(ctx, todo.ID)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	*todo = *stored
	return nil
}

func (r *TodoRepositoryImpl) Delete(ctx context.Context, id int64) error {
	query := r.db.Rebind(`DELETE FROM todos WHERE todo_id = ?`)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if rowsAffected == 0 {
		return entities.ErrTodoNotFound
	}
	return nil
}
