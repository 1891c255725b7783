package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/taskmaster/todoboard/internal/domain/entities"
)

// TodoRecord is the row shape of the todos table
type TodoRecord struct {
	ID          int64      `db:"todo_id"`
	Name        *string    `db:"name"`
	Description *string    `db:"description"`
	AuthorID    *int64     `db:"author_id"`
	AssigneeID  *int64     `db:"assignee_id"`
	Deadline    *time.Time `db:"deadline"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
}

// UserRecord is the row shape of the users table
type UserRecord struct {
	ID        int64     `db:"id"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	CreatedAt time.Time `db:"created_at"`
}

// TodoFromRecord converts a stored row into a domain todo.
// Missing text becomes the empty string and a missing status reads as TODO.
func TodoFromRecord(r TodoRecord) entities.Todo {
	todo := entities.Todo{
		ID:         r.ID,
		AuthorID:   r.AuthorID,
		AssigneeID: r.AssigneeID,
		Status:     entities.Status(r.Status),
		CreatedAt:  r.CreatedAt.UTC(),
	}
	if r.Name != nil {
		todo.Name = *r.Name
	}
	if r.Description != nil {
		todo.Description = *r.Description
	}
	if r.Deadline != nil {
		d := r.Deadline.UTC()
		todo.Deadline = &d
	}
	if todo.Status == "" {
		todo.Status = entities.StatusTodo
	}
	return todo
}

// TodoToRecord converts a domain todo into its row shape
func TodoToRecord(t *entities.Todo) TodoRecord {
	name, description := t.Name, t.Description
	status := t.Status
	if status == "" {
		status = entities.StatusTodo
	}
	return TodoRecord{
		ID:          t.ID,
		Name:        &name,
		Description: &description,
		AuthorID:    t.AuthorID,
		AssigneeID:  t.AssigneeID,
		Deadline:    t.Deadline,
		Status:      string(status),
		CreatedAt:   t.CreatedAt,
	}
}

func UserFromRecord(r UserRecord) entities.User {
	return entities.User{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

// isForeignKeyViolation recognises a dangling author or assignee reference on either driver
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
