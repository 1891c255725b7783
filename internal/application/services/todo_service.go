package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/taskmaster/todoboard/internal/domain/entities"
	"github.com/taskmaster/todoboard/internal/domain/filter"
	"github.com/taskmaster/todoboard/internal/infrastructure/logger"
	"github.com/taskmaster/todoboard/internal/infrastructure/metrics"
	"github.com/taskmaster/todoboard/internal/ports"
)

const (
	reloadKey = "todos"

	defaultReloadTimeout = 30 * time.Second
)

// TodoService owns the loaded todo snapshot and every write to the store.
// Reads filter the snapshot; writes go to the store and then replace it.
type TodoService struct {
	todoRepo ports.TodoRepository
	cache    ports.TodoCache
	notifier ports.ChangeNotifier
	metrics  *metrics.Metrics
	logger   *logger.Logger
	now      func() time.Time

	reloadTimeout time.Duration
	sf            singleflight.Group

	// commitMu orders invalidations against reload results. gen counts
	// invalidations; a load started under an older gen is discarded.
	commitMu sync.Mutex
	gen      uint64

	mu     sync.RWMutex
	todos  []entities.Todo
	loaded bool
}

// TodoServiceOption configures optional collaborators
type TodoServiceOption func(*TodoService)

// WithCache keeps loaded lists in a shared cache
func WithCache(c ports.TodoCache) TodoServiceOption {
	return func(s *TodoService) { s.cache = c }
}

// WithNotifier announces every write to other instances
func WithNotifier(n ports.ChangeNotifier) TodoServiceOption {
	return func(s *TodoService) { s.notifier = n }
}

func WithMetrics(m *metrics.Metrics) TodoServiceOption {
	return func(s *TodoService) { s.metrics = m }
}

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) TodoServiceOption {
	return func(s *TodoService) { s.now = now }
}

// WithReloadTimeout bounds a shared store load, which outlives the request that started it
func WithReloadTimeout(d time.Duration) TodoServiceOption {
	return func(s *TodoService) { s.reloadTimeout = d }
}

// NewTodoService creates a new todo service
func NewTodoService(todoRepo ports.TodoRepository, logger *logger.Logger, opts ...TodoServiceOption) *TodoService {
	s := &TodoService{
		todoRepo: todoRepo,
		logger:   logger.WithComponent("todo_service"),
		now:      time.Now,

		reloadTimeout: defaultReloadTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.TodoService = (*TodoService)(nil)

// ListTodos returns the snapshot narrowed by the criteria, newest first
func (s *TodoService) ListTodos(ctx context.Context, criteria filter.Criteria) ([]entities.Todo, error) {
	todos, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	result := filter.Apply(todos, criteria)
	s.metrics.ObserveFilter(len(result))
	return result, nil
}

// OverdueTodos returns the open todos whose deadline has passed
func (s *TodoService) OverdueTodos(ctx context.Context) ([]entities.Todo, error) {
	todos, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	overdue := make([]entities.Todo, 0)
	for i := range todos {
		if todos[i].IsOverdue(now) {
			overdue = append(overdue, todos[i])
		}
	}
	return overdue, nil
}

// GetTodo reads a single todo from the store
func (s *TodoService) GetTodo(ctx context.Context, id int64) (*entities.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get todo %d: %w", id, err)
	}
	return todo, nil
}

// CreateTodo stores a new todo. An empty status becomes TODO.
func (s *TodoService) CreateTodo(ctx context.Context, req ports.CreateTodoRequest) (*entities.Todo, error) {
	status := req.Status
	if status == "" {
		status = entities.StatusTodo
	}
	if _, err := entities.ParseStatus(string(status)); err != nil {
		return nil, err
	}

	authorID := req.AuthorID
	todo := &entities.Todo{
		Name:        req.Name,
		Description: req.Description,
		AuthorID:    &authorID,
		AssigneeID:  req.AssigneeID,
		Deadline:    req.Deadline.Ptr(),
		Status:      status,
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	s.logger.Infow("Todo created successfully", "todo_id", todo.ID, "author_id", authorID)
	s.afterWrite(ctx, ports.ChangeCreated, todo.ID)
	return todo, nil
}

// UpdateTodo replaces the mutable fields of a todo. The author is fixed at creation.
func (s *TodoService) UpdateTodo(ctx context.Context, id int64, req ports.UpdateTodoRequest) (*entities.Todo, error) {
	if _, err := entities.ParseStatus(string(req.Status)); err != nil {
		return nil, err
	}

	existing, err := s.todoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load todo %d: %w", id, err)
	}

	if req.AuthorID != nil && (existing.AuthorID == nil || *existing.AuthorID != *req.AuthorID) {
		return nil, entities.ErrAuthorImmutable
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.AssigneeID = req.AssigneeID
	existing.Deadline = req.Deadline.Ptr()
	existing.Status = req.Status

	if err := s.todoRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update todo %d: %w", id, err)
	}

	s.logger.Infow("Todo updated successfully", "todo_id", id, "status", existing.Status)
	s.afterWrite(ctx, ports.ChangeUpdated, id)
	return existing, nil
}

// DeleteTodo removes a todo from the store
func (s *TodoService) DeleteTodo(ctx context.Context, id int64) error {
	if err := s.todoRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete todo %d: %w", id, err)
	}

	s.logger.Infow("Todo deleted successfully", "todo_id", id)
	s.afterWrite(ctx, ports.ChangeDeleted, id)
	return nil
}

// Invalidate drops the cached list and reloads the snapshot from the store
func (s *TodoService) Invalidate(ctx context.Context) error {
	s.commitMu.Lock()
	s.gen++
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warnw("Failed to invalidate todo cache", "error", err)
		}
	}
	s.commitMu.Unlock()

	// A reload already in flight predates the write; start a new one.
	s.sf.Forget(reloadKey)
	_, err := s.reload(ctx, false)
	return err
}

// HandleRemoteChange reacts to a write made by another instance
func (s *TodoService) HandleRemoteChange(ctx context.Context, event ports.ChangeEvent) {
	err := s.Invalidate(ctx)
	s.metrics.ObserveNotification("received", err)
	if err != nil {
		s.logger.Errorw("Failed to reload after remote change", "origin", event.Origin, "op", event.Op, "todo_id", event.TodoID, "error", err)
		return
	}
	s.logger.Debugw("Reloaded after remote change", "origin", event.Origin, "op", event.Op, "todo_id", event.TodoID)
}

// Snapshot returns the loaded todo set, loading it on first use.
// Callers must not modify the returned slice.
func (s *TodoService) Snapshot(ctx context.Context) ([]entities.Todo, error) {
	s.mu.RLock()
	todos, loaded := s.todos, s.loaded
	s.mu.RUnlock()

	if loaded {
		return todos, nil
	}
	return s.reload(ctx, true)
}

// reload runs one shared load per generation. The load is detached from the
// caller so that a cancelled request does not fail the others waiting on it;
// each caller still stops waiting when its own context ends.
func (s *TodoService) reload(ctx context.Context, useCache bool) ([]entities.Todo, error) {
	ch := s.sf.DoChan(reloadKey, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.reloadTimeout)
		defer cancel()
		return s.loadAndCommit(loadCtx, useCache)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("failed to load todos: %w", res.Err)
		}
		return res.Val.([]entities.Todo), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to load todos: %w", ctx.Err())
	}
}

// loadAndCommit stores the loaded list as the snapshot, and in the cache when
// it came from the store, unless an invalidation happened meanwhile.
func (s *TodoService) loadAndCommit(ctx context.Context, useCache bool) ([]entities.Todo, error) {
	s.commitMu.Lock()
	gen := s.gen
	s.commitMu.Unlock()

	todos, fromStore, err := s.load(ctx, useCache)
	if err != nil {
		s.metrics.ObserveReload(0, err)
		return nil, err
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	if s.gen != gen {
		s.logger.Debugw("Discarded todo load overtaken by a write", "todos", len(todos))
		return todos, nil
	}

	if fromStore && s.cache != nil {
		if err := s.cache.SetList(ctx, todos); err != nil {
			s.logger.WithError(err).Warnw("Todo cache write failed")
		}
	}

	s.mu.Lock()
	s.todos = todos
	s.loaded = true
	s.mu.Unlock()
	s.metrics.ObserveReload(len(todos), nil)
	return todos, nil
}

// load reads the cache first when allowed, then the store. fromStore reports
// whether the list came from the store.
func (s *TodoService) load(ctx context.Context, useCache bool) (todos []entities.Todo, fromStore bool, err error) {
	if s.cache != nil && useCache {
		cached, ok, err := s.cache.GetList(ctx)
		switch {
		case err != nil:
			s.metrics.ObserveCache("error")
			s.logger.WithError(err).Warnw("Todo cache read failed")
		case ok:
			s.metrics.ObserveCache("hit")
			return cached, false, nil
		default:
			s.metrics.ObserveCache("miss")
		}
	}

	start := time.Now()
	todos, err = s.todoRepo.List(ctx)
	s.logger.LogDatabaseQuery("list todos", float64(time.Since(start).Microseconds())/1e3, err)
	if err != nil {
		return nil, false, err
	}
	return todos, true, nil
}

// afterWrite refreshes the snapshot and tells other instances. The write itself
// already succeeded, so failures here only mark the snapshot stale.
func (s *TodoService) afterWrite(ctx context.Context, op ports.ChangeOp, id int64) {
	if err := s.Invalidate(ctx); err != nil {
		s.logger.Errorw("Failed to reload todos after write", "op", op, "todo_id", id, "error", err)
		s.mu.Lock()
		s.loaded = false
		s.mu.Unlock()
	}

	if s.notifier == nil {
		return
	}
	err := s.notifier.Publish(ctx, ports.ChangeEvent{Op: op, TodoID: id, At: s.now().UTC()})
	s.metrics.ObserveNotification("published", err)
	if err != nil {
		s.logger.Warnw("Failed to publish todo change", "op", op, "todo_id", id, "error", err)
	}
}
