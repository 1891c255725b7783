package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/todoboard/internal/domain/entities"
	"github.com/taskmaster/todoboard/internal/infrastructure/config"
	"github.com/taskmaster/todoboard/internal/infrastructure/logger"
	"github.com/taskmaster/todoboard/internal/ports"
)

// UserHandler handles user directory requests
type UserHandler struct {
	userService ports.UserService
	logger      *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService ports.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// ListUsers godoc
// @Summary List users
// @Description Every user, ordered by first name, for author and assignee pickers
// @Tags users
// @Produce json
// @Success 200 {array} entities.User
// @Failure 500 {object} ports.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		h.logger.Errorw("List users failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
	if users == nil {
		users = []entities.User{}
	}

	return c.JSON(http.StatusOK, users)
}

// SettingsHandler serves presentation settings
type SettingsHandler struct {
	ui config.UIConfig
}

// NewSettingsHandler creates a settings handler for the given UI configuration
func NewSettingsHandler(ui config.UIConfig) *SettingsHandler {
	return &SettingsHandler{ui: ui}
}

// GetSettings godoc
// @Summary Get UI settings
// @Description Theme and the status values clients can offer
// @Tags settings
// @Produce json
// @Success 200 {object} ports.SettingsResponse
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	statuses := make([]string, 0, len(entities.Statuses))
	for _, s := range entities.Statuses {
		statuses = append(statuses, string(s))
	}

	return c.JSON(http.StatusOK, ports.SettingsResponse{
		Theme:    h.ui.Theme,
		DarkMode: h.ui.IsDark(),
		Statuses: statuses,
	})
}
