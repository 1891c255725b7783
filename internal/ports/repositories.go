package ports

import (
	"context"
	"time"

	"github.com/taskmaster/todoboard/internal/domain/entities"
)

// TodoRepository defines the record store operations on the todos collection
type TodoRepository interface {
	// List returns every todo ordered by creation time, newest first.
	List(ctx context.Context) ([]entities.Todo, error)
	GetByID(ctx context.Context, id int64) (*entities.Todo, error)
	// Create inserts the todo and fills in the store-assigned ID and CreatedAt.
	Create(ctx context.Context, todo *entities.Todo) error
	// Update writes every mutable field. ID, CreatedAt and AuthorID are never written.
	Update(ctx context.Context, todo *entities.Todo) error
	Delete(ctx context.Context, id int64) error
}

// UserRepository defines the read-only user directory
type UserRepository interface {
	// List returns every user ordered by first name ascending.
	List(ctx context.Context) ([]entities.User, error)
	GetByID(ctx context.Context, id int64) (*entities.User, error)
}

// TodoCache holds the last loaded todo list between reloads
type TodoCache interface {
	// GetList reports ok=false on a miss.
	GetList(ctx context.Context) (todos []entities.Todo, ok bool, err error)
	SetList(ctx context.Context, todos []entities.Todo) error
	Invalidate(ctx context.Context) error
}

// ChangeOp names the write that produced a ChangeEvent
type ChangeOp string

const (
	ChangeCreated ChangeOp = "created"
	ChangeUpdated ChangeOp = "updated"
	ChangeDeleted ChangeOp = "deleted"
)

// ChangeEvent tells other instances that the todo set changed
type ChangeEvent struct {
	Origin string    `json:"origin"`
	Op     ChangeOp  `json:"op"`
	TodoID int64     `json:"todo_id"`
	At     time.Time `json:"at"`
}

// ChangeNotifier broadcasts writes so that every instance can reload
type ChangeNotifier interface {
	Publish(ctx context.Context, event ChangeEvent) error
}
