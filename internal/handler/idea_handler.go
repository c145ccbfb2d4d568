package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"frenchnotes/internal/service"
)

// IdeaHandler handles idea proposal endpoints.
type IdeaHandler struct {
	ideaService service.IdeaService
}

// NewIdeaHandler creates a new idea handler.
func NewIdeaHandler(ideaService service.IdeaService) *IdeaHandler {
	return &IdeaHandler{ideaService: ideaService}
}

// IdeaUpdateRequest represents an admin edit of an idea.
type IdeaUpdateRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

// List godoc
// @Summary List all ideas with submitter identity
// @Tags ideas
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Idea
// @Router /ideas [get]
func (h *IdeaHandler) List(c echo.Context) error {
	ideas, err := h.ideaService.List(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, ideas)
}

// Submit godoc
// @Summary Submit an idea with optional file attachment
// @Tags ideas
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param body formData string true "Body"
// @Param file formData file false "Attachment"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /ideas/submit [post]
func (h *IdeaHandler) Submit(c echo.Context) error {
	claims, err := CurrentClaims(c)
	if err != nil {
		return err
	}

	title := c.FormValue("title")
	body := c.FormValue("body")
	if title == "" || body == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and body are required")
	}

	file, err := readFormFile(c, "file")
	if err != nil {
		return err
	}

	idea, err := h.ideaService.Submit(c.Request().Context(), claims.UserID, title, body, file)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "idea submitted successfully",
		"idea":    idea,
	})
}

// Update godoc
// @Summary Update an idea
// @Tags ideas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Idea ID"
// @Param request body IdeaUpdateRequest true "Updated fields"
// @Success 200 {object} model.Idea
// @Failure 404 {object} errors.ErrorResponse
// @Router /ideas/{id} [put]
func (h *IdeaHandler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req IdeaUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	idea, err := h.ideaService.Update(c.Request().Context(), uint(id), req.Title, req.Body)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, idea)
}

// Delete godoc
// @Summary Delete an idea and its attachment
// @Tags ideas
// @Produce json
// @Security BearerAuth
// @Param id path int true "Idea ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /ideas/{id} [delete]
func (h *IdeaHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.ideaService.Delete(c.Request().Context(), uint(id)); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "idea deleted successfully",
	})
}
