package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"frenchnotes/internal/model"
	"frenchnotes/internal/service"
)

// AdminHandler handles the admin surface: user management and the device
// approval workflow.
type AdminHandler struct {
	userService   service.UserService
	deviceService service.DeviceService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(userService service.UserService, deviceService service.DeviceService) *AdminHandler {
	return &AdminHandler{
		userService:   userService,
		deviceService: deviceService,
	}
}

// DecideRequest carries an admin approval decision for a login log entry.
type DecideRequest struct {
	Status string `json:"status" validate:"required,oneof=approved denied"`
}

// ListUsers godoc
// @Summary List all students
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListStudents(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// DeleteUser godoc
// @Summary Delete a user and their login ledger
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.userService.DeleteUser(c.Request().Context(), uint(id)); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "user removed successfully",
	})
}

// ResetUserLogs godoc
// @Summary Delete all login ledger entries of a user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Router /admin/users/{id}/reset-logs [post]
func (h *AdminHandler) ResetUserLogs(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.deviceService.ResetLogs(c.Request().Context(), uint(id)); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "user logs reset successfully",
	})
}

// ListLoginLogs godoc
// @Summary List all device login ledger entries
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.LoginLog
// @Router /admin/login-logs [get]
func (h *AdminHandler) ListLoginLogs(c echo.Context) error {
	logs, err := h.deviceService.ListLogs(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, logs)
}

// DecideLoginLog godoc
// @Summary Approve or deny a device login entry
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Login log ID"
// @Param request body DecideRequest true "Decision"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/login-logs/{id} [post]
func (h *AdminHandler) DecideLoginLog(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req DecideRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := h.deviceService.Decide(c.Request().Context(), uint(id), model.LoginStatus(req.Status))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "login " + req.Status,
		"log":     entry,
	})
}
