package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
)

type premiumSettingsResp struct {
	MonthlyPrice    int64  `json:"monthly_price"`
	ThreeMonthPrice int64  `json:"three_month_price"`
	SixMonthPrice   int64  `json:"six_month_price"`
	YearlyPrice     int64  `json:"yearly_price"`
	CardNumber      string `json:"card_number"`
	CardHolder      string `json:"card_holder"`
}

// GetPremiumSettings returns the current tier prices and card info.
func (h *DashboardHandler) GetPremiumSettings(c echo.Context) error {
	s, err := h.Settings.Premium(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, premiumSettingsResp{
		MonthlyPrice: s.MonthlyPrice, ThreeMonthPrice: s.ThreeMonthPrice,
		SixMonthPrice: s.SixMonthPrice, YearlyPrice: s.YearlyPrice,
		CardNumber: s.CardNumber, CardHolder: s.CardHolder,
	})
}

// UpdatePrices replaces all four tier prices at once.
func (h *DashboardHandler) UpdatePrices(c echo.Context) error {
	var body struct {
		MonthlyPrice    int64 `json:"monthly_price"`
		ThreeMonthPrice int64 `json:"three_month_price"`
		SixMonthPrice   int64 `json:"six_month_price"`
		YearlyPrice     int64 `json:"yearly_price"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.MonthlyPrice <= 0 || body.ThreeMonthPrice <= 0 ||
		body.SixMonthPrice <= 0 || body.YearlyPrice <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "prices must be positive"})
	}
	s := &model.PremiumSettings{
		MonthlyPrice:    body.MonthlyPrice,
		ThreeMonthPrice: body.ThreeMonthPrice,
		SixMonthPrice:   body.SixMonthPrice,
		YearlyPrice:     body.YearlyPrice,
	}
	if err := h.Settings.UpdatePrices(c.Request().Context(), s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateCard replaces the manual-transfer card details.
func (h *DashboardHandler) UpdateCard(c echo.Context) error {
	var body struct {
		CardNumber string `json:"card_number"`
		CardHolder string `json:"card_holder"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	number := strings.ReplaceAll(strings.TrimSpace(body.CardNumber), " ", "")
	if len(number) != 16 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "card_number must be 16 digits"})
	}
	if strings.TrimSpace(body.CardHolder) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "card_holder is required"})
	}
	if err := h.Settings.UpdateCard(c.Request().Context(), number, strings.TrimSpace(body.CardHolder)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type botSettingsResp struct {
	WelcomeMessage  string `json:"welcome_message"`
	AboutBot        string `json:"about_bot"`
	SupportUsername string `json:"support_username"`
	AdminChatID     string `json:"admin_chat_id"`
}

// GetBotSettings returns the editable bot texts.
func (h *DashboardHandler) GetBotSettings(c echo.Context) error {
	s, err := h.Settings.Bot(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, botSettingsResp{
		WelcomeMessage: s.WelcomeMessage, AboutBot: s.AboutBot,
		SupportUsername: s.SupportUsername, AdminChatID: s.AdminChatID,
	})
}

// UpdateBotSettings replaces the bot texts and contact points.
func (h *DashboardHandler) UpdateBotSettings(c echo.Context) error {
	var body botSettingsResp
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s := &model.BotSettings{
		WelcomeMessage:  body.WelcomeMessage,
		AboutBot:        body.AboutBot,
		SupportUsername: strings.TrimPrefix(strings.TrimSpace(body.SupportUsername), "@"),
		AdminChatID:     strings.TrimSpace(body.AdminChatID),
	}
	if err := h.Settings.UpdateBot(c.Request().Context(), s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
