package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
	"github.com/otabek-dev/kinoteka-bot/internal/repository"
	"github.com/otabek-dev/kinoteka-bot/internal/utils"
)

type adminResp struct {
	ID         uint64    `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListAdmins returns every registered operator.
func (h *DashboardHandler) ListAdmins(c echo.Context) error {
	admins, err := h.Admins.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]adminResp, 0, len(admins))
	for _, a := range admins {
		out = append(out, adminResp{
			ID: a.ID, TelegramID: a.TelegramID, Username: a.Username,
			Role: a.Role, CreatedAt: a.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// CreateAdmin registers a new operator.  A password is optional and
// only needed for dashboard access.
func (h *DashboardHandler) CreateAdmin(c echo.Context) error {
	reviewerID, err := getAdminID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		TelegramID int64  `json:"telegram_id"`
		Username   string `json:"username"`
		Role       string `json:"role"`
		Password   string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.TelegramID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "telegram_id is required"})
	}
	role := strings.ToUpper(strings.TrimSpace(body.Role))
	if role != model.RoleSuperAdmin {
		role = model.RoleAdmin
	}

	a := &model.Admin{
		TelegramID: body.TelegramID,
		Username:   strings.TrimSpace(body.Username),
		Role:       role,
	}
	if body.Password != "" {
		hash, err := utils.HashPassword(body.Password, 12)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
		}
		a.PasswordHash = hash
	}
	// creator id recorded in the same column the bot-side flow uses
	if creator, err := h.Admins.GetByID(c.Request().Context(), reviewerID); err == nil {
		a.CreatedBy = creator.TelegramID
	}

	if err := h.Admins.Create(c.Request().Context(), a); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "admin already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, adminResp{
		ID: a.ID, TelegramID: a.TelegramID, Username: a.Username,
		Role: a.Role, CreatedAt: a.CreatedAt,
	})
}

// DeleteAdmin removes an operator by telegram id.
func (h *DashboardHandler) DeleteAdmin(c echo.Context) error {
	tgID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Admins.Delete(c.Request().Context(), tgID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "admin not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
