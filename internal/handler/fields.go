package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
	"github.com/otabek-dev/kinoteka-bot/internal/repository"
)

type fieldResp struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	ChannelID   string    `json:"channel_id"`
	ChannelLink string    `json:"channel_link"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func toFieldResp(f model.Field) fieldResp {
	return fieldResp{
		ID: f.ID, Name: f.Name, ChannelID: f.ChannelID,
		ChannelLink: f.ChannelLink, IsActive: f.IsActive, CreatedAt: f.CreatedAt,
	}
}

// ListFields returns every field including deactivated ones; the
// dashboard shows the full history, the bot only offers active ones.
func (h *DashboardHandler) ListFields(c echo.Context) error {
	fields, err := h.Fields.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]fieldResp, 0, len(fields))
	for _, f := range fields {
		out = append(out, toFieldResp(f))
	}
	return c.JSON(http.StatusOK, out)
}

// CreateField adds a content grouping bound to a publication channel.
func (h *DashboardHandler) CreateField(c echo.Context) error {
	var body struct {
		Name        string `json:"name"`
		ChannelID   string `json:"channel_id"`
		ChannelLink string `json:"channel_link"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" || strings.TrimSpace(body.ChannelID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and channel_id are required"})
	}

	f := &model.Field{
		Name:        name,
		ChannelID:   strings.TrimSpace(body.ChannelID),
		ChannelLink: strings.TrimSpace(body.ChannelLink),
	}
	if err := h.Fields.Create(c.Request().Context(), f); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "field already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, toFieldResp(*f))
}

// DeactivateField soft-deletes a field.  Content already filed under
// it keeps resolving.
func (h *DashboardHandler) DeactivateField(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Fields.Deactivate(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "field not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
