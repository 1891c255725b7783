package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/todoboard/internal/domain/entities"
	"github.com/taskmaster/todoboard/internal/domain/filter"
	"github.com/taskmaster/todoboard/internal/infrastructure/logger"
	"github.com/taskmaster/todoboard/internal/ports"
)

// TodoHandler handles todo-related requests
type TodoHandler struct {
	todoService ports.TodoService
	userService ports.UserService
	logger      *logger.Logger
	now         func() time.Time
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(todoService ports.TodoService, userService ports.UserService, logger *logger.Logger) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
		userService: userService,
		logger:      logger,
		now:         time.Now,
	}
}

// ListTodos godoc
// @Summary List todos
// @Description List the loaded todos, newest first, narrowed by any combination of filters
// @Tags todos
// @Produce json
// @Param search query string false "Case-insensitive text matched against name or description"
// @Param status query string false "Exact status" Enums(TODO, INPROGRESS, DONE, CANCELLED)
// @Param author_id query int false "Author user id"
// @Param assignee_id query int false "Assignee user id"
// @Param deadline query string false "Deadline presence" Enums(any, has-deadline, no-deadline)
// @Success 200 {object} ports.TodoListResponse
// @Failure 400 {object} ports.ErrorResponse
// @Failure 500 {object} ports.ErrorResponse
// @Router /todos [get]
func (h *TodoHandler) ListTodos(c echo.Context) error {
	criteria, err := filter.RawCriteria{
		Search:     c.QueryParam("search"),
		Status:     c.QueryParam("status"),
		AuthorID:   c.QueryParam("author_id"),
		AssigneeID: c.QueryParam("assignee_id"),
		Deadline:   c.QueryParam("deadline"),
	}.Parse()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	todos, err := h.todoService.ListTodos(ctx, criteria)
	if err != nil {
		h.logger.Errorw("List todos failed", "error", err)
		return todoError(err)
	}

	return h.renderList(c, todos)
}

// OverdueTodos godoc
// @Summary List overdue todos
// @Description Open todos whose deadline has passed
// @Tags todos
// @Produce json
// @Success 200 {object} ports.TodoListResponse
// @Failure 500 {object} ports.ErrorResponse
// @Router /todos/overdue [get]
func (h *TodoHandler) OverdueTodos(c echo.Context) error {
	todos, err := h.todoService.OverdueTodos(c.Request().Context())
	if err != nil {
		h.logger.Errorw("List overdue todos failed", "error", err)
		return todoError(err)
	}

	return h.renderList(c, todos)
}

// GetTodo godoc
// @Summary Get todo by ID
// @Tags todos
// @Produce json
// @Param id path int true "Todo ID"
// @Success 200 {object} ports.TodoView
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Router /todos/{id} [get]
func (h *TodoHandler) GetTodo(c echo.Context) error {
	id, err := todoID(c)
	if err != nil {
		return err
	}

	todo, err := h.todoService.GetTodo(c.Request().Context(), id)
	if err != nil {
		h.logger.Warnw("Get todo failed", "error", err, "todo_id", id)
		return todoError(err)
	}

	return h.renderOne(c, http.StatusOK, todo)
}

// CreateTodo godoc
// @Summary Create a new todo
// @Description Create a todo. Status defaults to TODO.
// @Tags todos
// @Accept json
// @Produce json
// @Param request body ports.CreateTodoRequest true "Todo data"
// @Success 201 {object} ports.TodoView
// @Failure 400 {object} ports.ErrorResponse
// @Failure 422 {object} ports.ErrorResponse
// @Router /todos [post]
func (h *TodoHandler) CreateTodo(c echo.Context) error {
	var req ports.CreateTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	todo, err := h.todoService.CreateTodo(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Create todo failed", "error", err)
		return todoError(err)
	}

	return h.renderOne(c, http.StatusCreated, todo)
}

// UpdateTodo godoc
// @Summary Update a todo
// @Description Replace every mutable field. The author cannot change.
// @Tags todos
// @Accept json
// @Produce json
// @Param id path int true "Todo ID"
// @Param request body ports.UpdateTodoRequest true "Todo data"
// @Success 200 {object} ports.TodoView
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Failure 409 {object} ports.ErrorResponse
// @Router /todos/{id} [put]
func (h *TodoHandler) UpdateTodo(c echo.Context) error {
	id, err := todoID(c)
	if err != nil {
		return err
	}

	var req ports.UpdateTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	todo, err := h.todoService.UpdateTodo(c.Request().Context(), id, req)
	if err != nil {
		h.logger.Errorw("Update todo failed", "error", err, "todo_id", id)
		return todoError(err)
	}

	return h.renderOne(c, http.StatusOK, todo)
}

// DeleteTodo godoc
// @Summary Delete a todo
// @Tags todos
// @Param id path int true "Todo ID"
// @Success 204
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Router /todos/{id} [delete]
func (h *TodoHandler) DeleteTodo(c echo.Context) error {
	id, err := todoID(c)
	if err != nil {
		return err
	}

	if err := h.todoService.DeleteTodo(c.Request().Context(), id); err != nil {
		h.logger.Errorw("Delete todo failed", "error", err, "todo_id", id)
		return todoError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ReloadTodos godoc
// @Summary Reload todos
// @Description Drop any cached list and reload the full set from the store
// @Tags todos
// @Produce json
// @Success 200 {object} ports.MessageResponse
// @Failure 500 {object} ports.ErrorResponse
// @Router /todos/reload [post]
func (h *TodoHandler) ReloadTodos(c echo.Context) error {
	if err := h.todoService.Invalidate(c.Request().Context()); err != nil {
		h.logger.Errorw("Reload todos failed", "error", err)
		return todoError(err)
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Todos reloaded"})
}

func (h *TodoHandler) renderList(c echo.Context, todos []entities.Todo) error {
	dir, err := h.userService.Directory(c.Request().Context())
	if err != nil {
		h.logger.Errorw("Load user directory failed", "error", err)
		return todoError(err)
	}

	views := ports.NewTodoViews(todos, dir, h.now())
	return c.JSON(http.StatusOK, ports.TodoListResponse{Todos: views, Count: len(views)})
}

func (h *TodoHandler) renderOne(c echo.Context, code int, todo *entities.Todo) error {
	dir, err := h.userService.Directory(c.Request().Context())
	if err != nil {
		h.logger.Errorw("Load user directory failed", "error", err)
		return todoError(err)
	}

	return c.JSON(code, ports.NewTodoView(*todo, dir, h.now()))
}

func todoID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid todo ID")
	}
	return id, nil
}

// todoError maps service errors to HTTP errors. Store failures keep their message.
func todoError(err error) error {
	switch {
	case errors.Is(err, entities.ErrTodoNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Todo not found")
	case errors.Is(err, entities.ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, entities.ErrUnknownUser):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, entities.ErrAuthorImmutable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
}
