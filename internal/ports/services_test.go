package ports

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/todoboard/internal/domain/entities"
)

func TestDeadlineUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *time.Time
	}{
		{"null", `null`, nil},
		{"empty", `""`, nil},
		{"blank", `"  "`, nil},
		{"date only", `"2026-02-19"`, ptrTime(time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC))},
		{"rfc3339", `"2026-02-19T10:30:00+02:00"`, ptrTime(time.Date(2026, 2, 19, 8, 30, 0, 0, time.UTC))},
		{"no zone", `"2026-02-19T10:30:00"`, ptrTime(time.Date(2026, 2, 19, 10, 30, 0, 0, time.UTC))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Deadline
			require.NoError(t, json.Unmarshal([]byte(tt.in), &d))
			if tt.want == nil {
				assert.Nil(t, d.Ptr())
				return
			}
			require.NotNil(t, d.Ptr())
			assert.True(t, tt.want.Equal(*d.Ptr()), "got %v want %v", d.Ptr(), tt.want)
		})
	}

	var d Deadline
	assert.Error(t, json.Unmarshal([]byte(`"next week"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`42`), &d))
}

func TestDeadlineMarshal(t *testing.T) {
	b, err := json.Marshal(NewDeadline(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(b))

	b, err = json.Marshal(NewDeadline(ptrTime(time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, err)
	assert.JSONEq(t, `"2026-02-19T00:00:00Z"`, string(b))
}

func TestCreateTodoRequestDecodesDeadline(t *testing.T) {
	var req CreateTodoRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"n","author_id":3,"deadline":"2026-01-02"}`), &req))
	require.NotNil(t, req.Deadline.Ptr())
	assert.Equal(t, int64(3), req.AuthorID)
	assert.Nil(t, req.AssigneeID)
}

func TestDirectory(t *testing.T) {
	dir := NewDirectory([]entities.User{
		{ID: 1, FirstName: "Ada", LastName: "Lovelace"},
		{ID: 2, FirstName: "Grace"},
	})

	one, two, missing := int64(1), int64(2), int64(9)
	todo := entities.Todo{AuthorID: &one, AssigneeID: &two}
	assert.Equal(t, "Ada Lovelace", dir.AuthorName(&todo))
	assert.Equal(t, "Grace", dir.AssigneeName(&todo))

	orphan := entities.Todo{AuthorID: &missing}
	assert.Equal(t, entities.UnknownAuthor, dir.AuthorName(&orphan))
	assert.Equal(t, entities.UnknownAssignee, dir.AssigneeName(&orphan))

	var nilDir *Directory
	assert.Equal(t, entities.UnknownAuthor, nilDir.AuthorName(&todo))
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestNewTodoView(t *testing.T) {
	dir := NewDirectory([]entities.User{{ID: 1, FirstName: "Ada", LastName: "Lovelace"}})
	one := int64(1)
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	view := NewTodoView(entities.Todo{ID: 5, AuthorID: &one, Deadline: &past, Status: entities.StatusInProgress}, dir, now)
	assert.Equal(t, "Ada Lovelace", view.AuthorName)
	assert.Equal(t, entities.UnknownAssignee, view.AssigneeName)
	assert.Equal(t, "In Progress", view.StatusLabel)
	assert.True(t, view.IsOverdue)
	assert.True(t, view.IsInProgress)
	assert.False(t, view.IsCompleted)

	b, err := json.Marshal(view)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"todo_id":5`)
	assert.Contains(t, string(b), `"author_name":"Ada Lovelace"`)

	assert.NotNil(t, NewTodoViews(nil, dir, now))
}
