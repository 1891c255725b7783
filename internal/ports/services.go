package ports

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/taskmaster/todoboard/internal/domain/entities"
	"github.com/taskmaster/todoboard/internal/domain/filter"
)

// TodoService interface for todo board operations
type TodoService interface {
	ListTodos(ctx context.Context, criteria filter.Criteria) ([]entities.Todo, error)
	GetTodo(ctx context.Context, id int64) (*entities.Todo, error)
	CreateTodo(ctx context.Context, req CreateTodoRequest) (*entities.Todo, error)
	UpdateTodo(ctx context.Context, id int64, req UpdateTodoRequest) (*entities.Todo, error)
	DeleteTodo(ctx context.Context, id int64) error
	OverdueTodos(ctx context.Context) ([]entities.Todo, error)
	Invalidate(ctx context.Context) error
}

// UserService interface for the user directory
type UserService interface {
	ListUsers(ctx context.Context) ([]entities.User, error)
	Directory(ctx context.Context) (*Directory, error)
}

// Request/Response Types

// Deadline parses a deadline from JSON as either a date ("2006-01-02") or RFC3339.
// A date is stored as the start of that day in UTC. null or "" clears it.
type Deadline struct{ t *time.Time }

func NewDeadline(t *time.Time) Deadline { return Deadline{t: t} }

func (d *Deadline) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	t, err := ParseDeadline(*raw)
	if err != nil {
		return err
	}
	d.t = &t
	return nil
}

func (d Deadline) MarshalJSON() ([]byte, error) {
	if d.t == nil {
		return []byte("null"), nil
	}
	return json.Marshal(d.t.UTC().Format(time.RFC3339))
}

// Ptr returns the parsed deadline, nil when absent.
func (d Deadline) Ptr() *time.Time { return d.t }

// ParseDeadline accepts a date or an RFC3339 timestamp.
func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("deadline: use date (YYYY-MM-DD) or RFC3339 datetime")
}

// Todo related types
type CreateTodoRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description" validate:"max=1000"`
	AuthorID    int64           `json:"author_id" validate:"required,gt=0"`
	AssigneeID  *int64          `json:"assignee_id" validate:"omitempty,gt=0"`
	Deadline    Deadline        `json:"deadline"`
	Status      entities.Status `json:"status" validate:"omitempty,oneof=TODO INPROGRESS DONE CANCELLED"`
}

// UpdateTodoRequest replaces every mutable field of a todo. AuthorID may be
// echoed back but must equal the stored author.
type UpdateTodoRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description" validate:"max=1000"`
	AuthorID    *int64          `json:"author_id,omitempty" validate:"omitempty,gt=0"`
	AssigneeID  *int64          `json:"assignee_id" validate:"omitempty,gt=0"`
	Deadline    Deadline        `json:"deadline"`
	Status      entities.Status `json:"status" validate:"required,oneof=TODO INPROGRESS DONE CANCELLED"`
}

// Directory resolves weak user references to display names
type Directory struct {
	names map[int64]string
}

func NewDirectory(users []entities.User) *Directory {
	d := &Directory{names: make(map[int64]string, len(users))}
	for i := range users {
		d.names[users[i].ID] = users[i].FullName()
	}
	return d
}

// Name returns the full name of the user, or fallback when the reference is
// unset or does not resolve.
func (d *Directory) Name(id *int64, fallback string) string {
	if d == nil || id == nil {
		return fallback
	}
	if name, ok := d.names[*id]; ok {
		return name
	}
	return fallback
}

func (d *Directory) AuthorName(t *entities.Todo) string {
	return d.Name(t.AuthorID, entities.UnknownAuthor)
}

func (d *Directory) AssigneeName(t *entities.Todo) string {
	return d.Name(t.AssigneeID, entities.UnknownAssignee)
}

// TodoView is a todo as rendered for clients, with resolved names and derived flags
type TodoView struct {
	entities.Todo
	AuthorName   string `json:"author_name"`
	AssigneeName string `json:"assignee_name"`
	StatusLabel  string `json:"status_label"`
	IsOverdue    bool   `json:"is_overdue"`
	IsCompleted  bool   `json:"is_completed"`
	IsInProgress bool   `json:"is_in_progress"`
}

func NewTodoView(t entities.Todo, dir *Directory, now time.Time) TodoView {
	return TodoView{
		Todo:         t,
		AuthorName:   dir.AuthorName(&t),
		AssigneeName: dir.AssigneeName(&t),
		StatusLabel:  t.Status.Label(),
		IsOverdue:    t.IsOverdue(now),
		IsCompleted:  t.IsCompleted(),
		IsInProgress: t.IsInProgress(),
	}
}

// NewTodoViews renders todos in order. The result is never nil.
func NewTodoViews(todos []entities.Todo, dir *Directory, now time.Time) []TodoView {
	views := make([]TodoView, 0, len(todos))
	for _, t := range todos {
		views = append(views, NewTodoView(t, dir, now))
	}
	return views
}

// TodoListResponse wraps a filtered list
type TodoListResponse struct {
	Todos []TodoView `json:"todos"`
	Count int        `json:"count"`
}

// SettingsResponse carries presentation settings
type SettingsResponse struct {
	Theme    string   `json:"theme"`
	DarkMode bool     `json:"dark_mode"`
	Statuses []string `json:"statuses"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
