package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
	"github.com/otabek-dev/kinoteka-bot/internal/payment"
	"github.com/otabek-dev/kinoteka-bot/internal/repository"
)

type paymentResp struct {
	ID           uint64    `json:"id"`
	UserID       uint64    `json:"user_id"`
	Amount       int64     `json:"amount"`
	DurationDays int       `json:"duration_days"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func toPaymentResp(p model.Payment) paymentResp {
	return paymentResp{
		ID: p.ID, UserID: p.UserID, Amount: p.Amount,
		DurationDays: p.DurationDays, Status: p.Status, CreatedAt: p.CreatedAt,
	}
}

// PaymentHandler settles manual receipts from the dashboard through
// the same reviewer the bot's inline buttons use.
type PaymentHandler struct {
	Payments *repository.PaymentRepo
	Reviewer *payment.Reviewer
}

func NewPaymentHandler(payments *repository.PaymentRepo, reviewer *payment.Reviewer) *PaymentHandler {
	return &PaymentHandler{Payments: payments, Reviewer: reviewer}
}

// ListPending returns receipts awaiting review.
func (h *PaymentHandler) ListPending(c echo.Context) error {
	pending, err := h.Payments.ListPending(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]paymentResp, 0, len(pending))
	for _, p := range pending {
		out = append(out, toPaymentResp(p))
	}
	return c.JSON(http.StatusOK, out)
}

// Approve grants the purchased premium period.
func (h *PaymentHandler) Approve(c echo.Context) error {
	return h.review(c, true)
}

// Reject marks the receipt rejected without granting anything.
func (h *PaymentHandler) Reject(c echo.Context) error {
	return h.review(c, false)
}

func (h *PaymentHandler) review(c echo.Context, approve bool) error {
	reviewerID, err := getAdminID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var pay *model.Payment
	if approve {
		pay, err = h.Reviewer.Approve(c.Request().Context(), id, reviewerID)
	} else {
		pay, err = h.Reviewer.Reject(c.Request().Context(), id, reviewerID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "payment already reviewed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "review failed"})
	}
	return c.JSON(http.StatusOK, toPaymentResp(*pay))
}
