package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/todoboard/internal/adapters/events"
	"github.com/taskmaster/todoboard/internal/infrastructure/config"
	"github.com/taskmaster/todoboard/internal/infrastructure/database"
	"github.com/taskmaster/todoboard/internal/infrastructure/logger"
	"github.com/taskmaster/todoboard/internal/ports"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg, db := newTestStore(t)
	srv, err := New(cfg, db, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, srv.Warm(context.Background()))
	return srv
}

func newTestStore(t *testing.T) (*config.Config, *database.DB) {
	t.Helper()

	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), "board.db")},
		Security: config.SecurityConfig{CORSAllowedOrigins: "*"},
		Metrics:  config.MetricsConfig{Enabled: true},
		UI:       config.UIConfig{Theme: "light"},
		Server:   config.ServerConfig{RequestTimeout: 5 * time.Second},
	}

	db, err := database.New(cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.MigrateUp())
	db.DB.MustExec(`INSERT INTO users (id, first_name, last_name) VALUES (1, 'Ada', 'Lovelace'), (2, 'Grace', 'Hopper')`)
	return cfg, db
}

func call(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthAndReadiness(t *testing.T) {
	srv := newTestServer(t)

	rec := call(srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = call(srv, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ready"`)
}

func TestTodoLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := call(srv, http.MethodPost, "/api/v1/todos", `{"name":"Buy milk","description":"2 liters","author_id":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created ports.TodoView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Ada Lovelace", created.AuthorName)

	rec = call(srv, http.MethodPost, "/api/v1/todos", `{"name":"Write report","author_id":2,"assignee_id":1,"deadline":"2020-01-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = call(srv, http.MethodGet, "/api/v1/todos?search=MILK", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list ports.TodoListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, created.ID, list.Todos[0].ID)

	rec = call(srv, http.MethodGet, "/api/v1/todos/overdue", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Write report", list.Todos[0].Name)

	target := "/api/v1/todos/" + jsonID(created.ID)
	rec = call(srv, http.MethodPut, target, `{"name":"Buy milk","status":"DONE","author_id":2}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(srv, http.MethodPut, target, `{"name":"Buy oat milk","status":"DONE","assignee_id":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"assignee_name":"Grace Hopper"`)

	rec = call(srv, http.MethodGet, "/api/v1/todos?status=DONE&assignee_id=2", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Buy oat milk", list.Todos[0].Name)

	rec = call(srv, http.MethodPost, "/api/v1/todos", `{"name":"Nobody","author_id":42}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	assert.Equal(t, http.StatusNoContent, call(srv, http.MethodDelete, target, "").Code)
	assert.Equal(t, http.StatusNotFound, call(srv, http.MethodGet, target, "").Code)

	rec = call(srv, http.MethodGet, "/api/v1/todos", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
}

func TestValidationErrorsAreJSON(t *testing.T) {
	srv := newTestServer(t)

	rec := call(srv, http.MethodPost, "/api/v1/todos", `{"name":"","author_id":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message"`)

	rec = call(srv, http.MethodGet, "/api/v1/todos?author_id=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not a number")
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	call(srv, http.MethodGet, "/api/v1/todos", "")
	rec := call(srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="/api/v1/todos",status="200"} 1`)
	assert.Contains(t, body, "todoboard_snapshot_todos 0")
	assert.Contains(t, body, `todoboard_reloads_total{result="ok"} 1`)
}

func TestSettingsAndUsers(t *testing.T) {
	srv := newTestServer(t)

	rec := call(srv, http.MethodGet, "/api/v1/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"dark_mode":false`)

	rec = call(srv, http.MethodGet, "/api/v1/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"first_name":"Ada"`)
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

type failedToken struct{ err error }

func (t failedToken) Wait() bool                     { return true }
func (t failedToken) WaitTimeout(time.Duration) bool { return true }
func (t failedToken) Error() error                   { return t.err }
func (t failedToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// refusingClient is a connected broker client that rejects subscriptions.
type refusingClient struct {
	mqtt.Client
	disconnected bool
}

func (c *refusingClient) Subscribe(string, byte, mqtt.MessageHandler) mqtt.Token {
	return failedToken{err: errors.New("not authorized")}
}

func (c *refusingClient) Disconnect(uint) { c.disconnected = true }

func TestNewDisconnectsNotifierOnFailure(t *testing.T) {
	cfg, db := newTestStore(t)
	client := &refusingClient{}
	notifier := events.NewNotifierFromClient(client, "todoboard/todos/changed", logger.NewNop())

	_, err := New(cfg, db, logger.NewNop(), WithNotifier(notifier))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authorized")
	assert.True(t, client.disconnected)
}
