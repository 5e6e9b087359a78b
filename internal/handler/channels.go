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

type mandatoryChannelResp struct {
	ID              uint64    `json:"id"`
	ChannelID       string    `json:"channel_id"`
	ChannelName     string    `json:"channel_name"`
	ChannelLink     string    `json:"channel_link"`
	Kind            string    `json:"kind"`
	Order           int       `json:"order"`
	IsActive        bool      `json:"is_active"`
	CurrentMembers  int       `json:"current_members"`
	PendingRequests int       `json:"pending_requests"`
	CreatedAt       time.Time `json:"created_at"`
}

type storageChannelResp struct {
	ID          uint64    `json:"id"`
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListMandatoryChannels returns the full subscription gate roster.
func (h *DashboardHandler) ListMandatoryChannels(c echo.Context) error {
	chans, err := h.Channels.ListMandatory(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]mandatoryChannelResp, 0, len(chans))
	for _, ch := range chans {
		out = append(out, mandatoryChannelResp{
			ID: ch.ID, ChannelID: ch.ChannelID, ChannelName: ch.ChannelName,
			ChannelLink: ch.ChannelLink, Kind: string(ch.Kind), Order: ch.Order,
			IsActive: ch.IsActive, CurrentMembers: ch.CurrentMembers,
			PendingRequests: ch.PendingRequests, CreatedAt: ch.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// CreateMandatoryChannel adds a channel to the subscription gate.
// External channels need no channel id; they are display-only.
func (h *DashboardHandler) CreateMandatoryChannel(c echo.Context) error {
	var body struct {
		ChannelID   string `json:"channel_id"`
		ChannelName string `json:"channel_name"`
		ChannelLink string `json:"channel_link"`
		Kind        string `json:"kind"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	kind := model.ChannelKind(strings.ToUpper(strings.TrimSpace(body.Kind)))
	switch kind {
	case model.ChannelPublic, model.ChannelPrivate, model.ChannelExternal:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind must be PUBLIC, PRIVATE or EXTERNAL"})
	}
	if strings.TrimSpace(body.ChannelLink) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "channel_link is required"})
	}
	if kind != model.ChannelExternal && strings.TrimSpace(body.ChannelID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "channel_id is required"})
	}

	ch := &model.MandatoryChannel{
		ChannelID:   strings.TrimSpace(body.ChannelID),
		ChannelName: strings.TrimSpace(body.ChannelName),
		ChannelLink: strings.TrimSpace(body.ChannelLink),
		Kind:        kind,
	}
	if err := h.Channels.CreateMandatory(c.Request().Context(), ch); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "channel already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, mandatoryChannelResp{
		ID: ch.ID, ChannelID: ch.ChannelID, ChannelName: ch.ChannelName,
		ChannelLink: ch.ChannelLink, Kind: string(ch.Kind), Order: ch.Order,
		IsActive: true, CreatedAt: ch.CreatedAt,
	})
}

// DeactivateMandatoryChannel removes a channel from the gate without
// dropping its row.
func (h *DashboardHandler) DeactivateMandatoryChannel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Channels.DeactivateMandatory(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "channel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListStorageChannels returns the active storage roster.
func (h *DashboardHandler) ListStorageChannels(c echo.Context) error {
	chans, err := h.Channels.ListStorageActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]storageChannelResp, 0, len(chans))
	for _, ch := range chans {
		out = append(out, storageChannelResp{
			ID: ch.ID, ChannelID: ch.ChannelID, ChannelName: ch.ChannelName,
			IsActive: ch.IsActive, CreatedAt: ch.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// CreateStorageChannel registers a channel the bot uploads videos into.
func (h *DashboardHandler) CreateStorageChannel(c echo.Context) error {
	var body struct {
		ChannelID   string `json:"channel_id"`
		ChannelName string `json:"channel_name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(body.ChannelID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "channel_id is required"})
	}

	ch := &model.StorageChannel{
		ChannelID:   strings.TrimSpace(body.ChannelID),
		ChannelName: strings.TrimSpace(body.ChannelName),
	}
	if err := h.Channels.CreateStorage(c.Request().Context(), ch); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "channel already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, storageChannelResp{
		ID: ch.ID, ChannelID: ch.ChannelID, ChannelName: ch.ChannelName,
		IsActive: true, CreatedAt: ch.CreatedAt,
	})
}

// DeactivateStorageChannel stops new uploads into a channel; stored
// copies stay retrievable.
func (h *DashboardHandler) DeactivateStorageChannel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Channels.DeactivateStorage(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "channel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
