package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/otabek-dev/kinoteka-bot/internal/payment"
)

// PaymeHandler is the JSON-RPC webhook endpoint the Payme gateway
// calls.  Responses always carry HTTP 200; protocol failures are
// reported inside the JSON-RPC error object.
type PaymeHandler struct {
	Gateway *payment.Gateway
}

func NewPaymeHandler(g *payment.Gateway) *PaymeHandler {
	return &PaymeHandler{Gateway: g}
}

// Webhook authenticates the merchant and dispatches the JSON-RPC call.
func (h *PaymeHandler) Webhook(c echo.Context) error {
	var req payment.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, payment.Unauthorized(nil))
	}
	if !h.Gateway.Authorized(c.Request().Header.Get("Authorization")) {
		return c.JSON(http.StatusOK, payment.Unauthorized(req.ID))
	}
	return c.JSON(http.StatusOK, h.Gateway.Handle(c.Request().Context(), req))
}
