package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
)

type userResp struct {
	ID             uint64     `json:"id"`
	TelegramID     int64      `json:"telegram_id"`
	FirstName      string     `json:"first_name"`
	Username       string     `json:"username"`
	IsPremium      bool       `json:"is_premium"`
	PremiumExpires *time.Time `json:"premium_expires,omitempty"`
	IsBlocked      bool       `json:"is_blocked"`
	CreatedAt      time.Time  `json:"created_at"`
}

func toUserResp(u model.User) userResp {
	return userResp{
		ID:             u.ID,
		TelegramID:     u.TelegramID,
		FirstName:      u.FirstName,
		Username:       u.Username,
		IsPremium:      u.IsPremium,
		PremiumExpires: u.PremiumExpires,
		IsBlocked:      u.IsBlocked,
		CreatedAt:      u.CreatedAt,
	}
}

// ListUsers pages through registered users.  ?limit= and ?offset= are
// optional; limit is capped at 200.
func (h *DashboardHandler) ListUsers(c echo.Context) error {
	limit := 50
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > 200 {
		limit = 200
	}
	offset := 0
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
		offset = v
	}

	users, err := h.Users.List(c.Request().Context(), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResp(u))
	}
	return c.JSON(http.StatusOK, out)
}

// BlockUser excludes a user from broadcasts.
func (h *DashboardHandler) BlockUser(c echo.Context) error {
	return h.setBlocked(c, true)
}

// UnblockUser re-enables a blocked user.
func (h *DashboardHandler) UnblockUser(c echo.Context) error {
	return h.setBlocked(c, false)
}

func (h *DashboardHandler) setBlocked(c echo.Context, blocked bool) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Users.SetBlocked(c.Request().Context(), id, blocked); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
