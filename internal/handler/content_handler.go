package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"frenchnotes/internal/model"
	"frenchnotes/internal/service"
)

// ContentHandler handles the learning content endpoints. Create and update
// accept multipart forms so media can travel alongside the fields.
type ContentHandler struct {
	contentService service.ContentService
}

// NewContentHandler creates a new content handler.
func NewContentHandler(contentService service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// List godoc
// @Summary List content, optionally filtered by type
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param type query string false "Content type filter"
// @Success 200 {array} model.Content
// @Failure 400 {object} errors.ErrorResponse
// @Router /content [get]
func (h *ContentHandler) List(c echo.Context) error {
	contents, err := h.contentService.List(c.Request().Context(), model.ContentType(c.QueryParam("type")))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, contents)
}

// Create godoc
// @Summary Create content with optional image/audio upload
// @Tags content
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param type formData string true "Content type"
// @Param text formData string true "Body text"
// @Param image formData file false "Image file"
// @Param audio formData file false "Audio file"
// @Success 201 {object} model.Content
// @Failure 400 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /content [post]
func (h *ContentHandler) Create(c echo.Context) error {
	input, err := h.bindInput(c)
	if err != nil {
		return err
	}
	if input.Title == "" || input.Type == "" || input.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title, type and text are required")
	}

	content, err := h.contentService.Create(c.Request().Context(), input)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, content)
}

// Update godoc
// @Summary Update content, replacing media when re-uploaded
// @Tags content
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Content ID"
// @Param title formData string true "Title"
// @Param type formData string true "Content type"
// @Param text formData string true "Body text"
// @Param image formData file false "Image file"
// @Param audio formData file false "Audio file"
// @Success 200 {object} model.Content
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /content/{id} [put]
func (h *ContentHandler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	input, err := h.bindInput(c)
	if err != nil {
		return err
	}

	content, err := h.contentService.Update(c.Request().Context(), uint(id), input)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, content)
}

// Delete godoc
// @Summary Delete content and its hosted media
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param id path int true "Content ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /content/{id} [delete]
func (h *ContentHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.contentService.Delete(c.Request().Context(), uint(id)); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "content and associated media deleted successfully",
	})
}

func (h *ContentHandler) bindInput(c echo.Context) (*service.ContentInput, error) {
	image, err := readFormFile(c, "image")
	if err != nil {
		return nil, err
	}
	audio, err := readFormFile(c, "audio")
	if err != nil {
		return nil, err
	}
	return &service.ContentInput{
		Title: c.FormValue("title"),
		Type:  model.ContentType(c.FormValue("type")),
		Text:  c.FormValue("text"),
		Image: image,
		Audio: audio,
	}, nil
}
