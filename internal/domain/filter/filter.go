// Package filter derives the visible todo list from the full loaded set.
package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/taskmaster/todoboard/internal/domain/entities"
)

var ErrInvalidDeadlinePresence = errors.New("deadline filter must be any, has-deadline or no-deadline")

type DeadlinePresence string

const (
	DeadlineAny  DeadlinePresence = "any"
	DeadlineSet  DeadlinePresence = "has-deadline"
	DeadlineNone DeadlinePresence = "no-deadline"
)

// Criteria holds the independently togglable constraints. The zero value
// constrains nothing.
type Criteria struct {
	SearchText string
	Status     entities.Status
	AuthorID   *int64
	AssigneeID *int64
	Deadline   DeadlinePresence
}

// IsZero reports whether no criterion is active.
func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.SearchText) == "" &&
		c.Status == "" &&
		c.AuthorID == nil &&
		c.AssigneeID == nil &&
		(c.Deadline == "" || c.Deadline == DeadlineAny)
}

// Apply returns the todos that pass every active criterion, in input order.
// The input slice is never modified.
func Apply(todos []entities.Todo, c Criteria) []entities.Todo {
	out := make([]entities.Todo, 0, len(todos))
	for i := range todos {
		if c.Match(&todos[i]) {
			out = append(out, todos[i])
		}
	}
	return out
}

// Match reports whether a single todo passes all active criteria.
func (c Criteria) Match(t *entities.Todo) bool {
	if strings.TrimSpace(c.SearchText) != "" {
		// Only the blank check trims; the needle keeps its surrounding spaces.
		needle := strings.ToLower(c.SearchText)
		if !containsFold(t.Name, needle) && !containsFold(t.Description, needle) {
			return false
		}
	}

	if c.Status != "" && t.Status != c.Status {
		return false
	}

	if c.AuthorID != nil && (t.AuthorID == nil || *t.AuthorID != *c.AuthorID) {
		return false
	}

	if c.AssigneeID != nil && (t.AssigneeID == nil || *t.AssigneeID != *c.AssigneeID) {
		return false
	}

	switch c.Deadline {
	case DeadlineSet:
		return t.HasDeadline()
	case DeadlineNone:
		return !t.HasDeadline()
	}

	return true
}

func containsFold(field, lowerNeedle string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(strings.ToLower(field), lowerNeedle)
}

// ParseID parses a user identifier from its string form. Blank input means
// "no constraint" and yields nil.
func ParseID(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ParseDeadlinePresence validates the deadline filter. Blank input means any.
func ParseDeadlinePresence(raw string) (DeadlinePresence, error) {
	switch d := DeadlinePresence(strings.TrimSpace(raw)); d {
	case "", DeadlineAny:
		return DeadlineAny, nil
	case DeadlineSet, DeadlineNone:
		return d, nil
	default:
		return "", ErrInvalidDeadlinePresence
	}
}

// RawCriteria is the string form of Criteria as it arrives from a query string or CLI flags.
type RawCriteria struct {
	Search     string
	Status     string
	AuthorID   string
	AssigneeID string
	Deadline   string
}

// Parse validates every field and builds the criteria. Blank fields constrain nothing.
func (r RawCriteria) Parse() (Criteria, error) {
	c := Criteria{SearchText: r.Search}

	if status := strings.TrimSpace(r.Status); status != "" {
		s, err := entities.ParseStatus(status)
		if err != nil {
			return Criteria{}, fmt.Errorf("status %q: %w", status, err)
		}
		c.Status = s
	}

	var err error
	if c.AuthorID, err = ParseID(r.AuthorID); err != nil {
		return Criteria{}, fmt.Errorf("author id %q is not a number", r.AuthorID)
	}
	if c.AssigneeID, err = ParseID(r.AssigneeID); err != nil {
		return Criteria{}, fmt.Errorf("assignee id %q is not a number", r.AssigneeID)
	}
	if c.Deadline, err = ParseDeadlinePresence(r.Deadline); err != nil {
		return Criteria{}, err
	}
	return c, nil
}
