package handler // HTTP handlers for the dashboard API

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/otabek-dev/kinoteka-bot/internal/repository"
)

// DashboardHandler bundles the repositories the dashboard CRUD
// endpoints operate on.
type DashboardHandler struct {
	Users    *repository.UserRepo
	Admins   *repository.AdminRepo
	Movies   *repository.MovieRepo
	Series   *repository.SeriesRepo
	Fields   *repository.FieldRepo
	Channels *repository.ChannelRepo
	Payments *repository.PaymentRepo
	Settings *repository.SettingsRepo
}

func NewDashboardHandler(
	users *repository.UserRepo,
	admins *repository.AdminRepo,
	movies *repository.MovieRepo,
	series *repository.SeriesRepo,
	fields *repository.FieldRepo,
	channels *repository.ChannelRepo,
	payments *repository.PaymentRepo,
	settings *repository.SettingsRepo,
) *DashboardHandler {
	return &DashboardHandler{
		Users:    users,
		Admins:   admins,
		Movies:   movies,
		Series:   series,
		Fields:   fields,
		Channels: channels,
		Payments: payments,
		Settings: settings,
	}
}

// getAdminID extracts the authenticated admin's id from context.  JWT
// numeric claims decode as float64, so several shapes are accepted.
func getAdminID(c echo.Context) (uint64, error) {
	switch t := c.Get("admin_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid admin_id in context")
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
