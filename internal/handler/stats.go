package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type statsResp struct {
	TotalUsers   int `json:"total_users"`
	PremiumUsers int `json:"premium_users"`
	BlockedUsers int `json:"blocked_users"`
	TotalMovies  int `json:"total_movies"`
	TotalSerials int `json:"total_serials"`
	WatchesToday int `json:"watches_today"`
}

// GetStats returns the aggregate counters shown on the dashboard
// landing page.
func (h *DashboardHandler) GetStats(c echo.Context) error {
	s, err := h.Users.Stats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, statsResp{
		TotalUsers:   s.TotalUsers,
		PremiumUsers: s.PremiumUsers,
		BlockedUsers: s.BlockedUsers,
		TotalMovies:  s.TotalMovies,
		TotalSerials: s.TotalSerials,
		WatchesToday: s.WatchesToday,
	})
}
