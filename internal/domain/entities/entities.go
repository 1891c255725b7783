package entities

import (
	"errors"
	"strings"
	"time"
)

// Common errors
var (
	ErrTodoNotFound    = errors.New("todo not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrUnknownUser     = errors.New("referenced user does not exist")
	ErrAuthorImmutable = errors.New("author cannot be changed after creation")
)

// SchemaVersion is the todo record shape this build reads and writes.
// Version 1 carried a free-text author; version 2 references a user by id.
const SchemaVersion = 2

// Placeholder labels for weak references that do not resolve.
const (
	UnknownAuthor   = "Unknown Author"
	UnknownAssignee = "Unknown Assignee"
)

type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "INPROGRESS"
	StatusDone       Status = "DONE"
	StatusCancelled  Status = "CANCELLED"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone, StatusCancelled}

// Todo represents one task
type Todo struct {
	ID          int64      `json:"todo_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	AuthorID    *int64     `json:"author_id"`
	AssigneeID  *int64     `json:"assignee_id"`
	Deadline    *time.Time `json:"deadline"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// User represents a person who may author or be assigned a todo
type User struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Business logic methods for Todo

// IsOverdue reports whether the deadline has passed at now while the todo is still open.
func (t *Todo) IsOverdue(now time.Time) bool {
	if t.Deadline == nil || t.Status == StatusDone || t.Status == StatusCancelled {
		return false
	}
	return t.Deadline.Before(now)
}

// Overdue is IsOverdue evaluated against the wall clock.
func (t *Todo) Overdue() bool {
	return t.IsOverdue(time.Now())
}

func (t *Todo) IsCompleted() bool {
	return t.Status == StatusDone
}

func (t *Todo) IsInProgress() bool {
	return t.Status == StatusInProgress
}

func (t *Todo) HasDeadline() bool {
	return t.Deadline != nil
}

// Business logic methods for User

// FullName joins first and last name with a space and trims the result.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Utility methods
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusCancelled:
		return true
	default:
		return false
	}
}

// Label returns the human readable form of the status.
func (s Status) Label() string {
	switch s {
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
