// Package payment implements the premium paywall's money side: Payme
// checkout links and the merchant JSON-RPC webhook, plus manual
// receipt review helpers.
package payment

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
	"github.com/otabek-dev/kinoteka-bot/internal/repository"
)

// Payme JSON-RPC error codes.
const (
	codeInvalidAuth    = -32504
	codeInvalidAmount  = -31001
	codeTxNotFound     = -31003
	codeCannotPerform  = -31008
	codeInvalidAccount = -31050
)

// Transaction states in Payme's model.
const (
	statePending         = 1
	statePerformed       = 2
	stateCancelled       = -1
	stateCancelledPostOp = -2
)

// Request is one JSON-RPC call from the merchant API.
type Request struct {
	ID     any             `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// Error is a JSON-RPC error payload.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Response is the JSON-RPC reply envelope.
type Response struct {
	ID     any    `json:"id"`
	Result any    `json:"result,omitempty"`
	Error  *Error `json:"error,omitempty"`
}

type txParams struct {
	ID      string `json:"id"`
	Time    int64  `json:"time"`
	Amount  int64  `json:"amount"` // tiyin
	Reason  int    `json:"reason"`
	Account struct {
		UserID string `json:"user_id"`
	} `json:"account"`
}

// UserStore is the user slice the gateway needs.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GrantPremium(ctx context.Context, id uint64, until time.Time) error
	RevokePremium(ctx context.Context, id uint64) error
}

// SettingsStore resolves the current tier prices.
type SettingsStore interface {
	Premium(ctx context.Context) (*model.PremiumSettings, error)
}

// PaymentStore is the payment persistence slice the gateway needs.
type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	GetByID(ctx context.Context, id uint64) (*model.Payment, error)
	GetByGatewayTx(ctx context.Context, txID string) (*model.Payment, error)
	MarkPerformed(ctx context.Context, id uint64, at time.Time) error
	MarkCancelled(ctx context.Context, id uint64) error
}

// Gateway handles Payme merchant calls for premium purchases.
type Gateway struct {
	merchantID string
	key        string
	payments   PaymentStore
	users      UserStore
	settings   SettingsStore
}

// NewGateway constructs a Gateway from the merchant credentials.
func NewGateway(merchantID, key string, payments PaymentStore, users UserStore, settings SettingsStore) *Gateway {
	return &Gateway{
		merchantID: merchantID,
		key:        key,
		payments:   payments,
		users:      users,
		settings:   settings,
	}
}

// CheckoutLink builds the hosted checkout URL for a purchase.  amount
// is in so'm; Payme counts tiyin, hence the ×100.
func (g *Gateway) CheckoutLink(userID uint64, amount int64) string {
	payload := fmt.Sprintf("m=%s;ac.user_id=%d;a=%d", g.merchantID, userID, amount*100)
	return "https://checkout.paycom.uz/" + base64.StdEncoding.EncodeToString([]byte(payload))
}

// Authorized verifies the webhook's Basic auth header.  Payme signs in
// as user "Paycom" with the merchant key as password.
func (g *Gateway) Authorized(header string) bool {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, prefix))
	if err != nil {
		return false
	}
	return string(raw) == "Paycom:"+g.key
}

// Handle dispatches one authorized JSON-RPC request.
func (g *Gateway) Handle(ctx context.Context, req Request) Response {
	var p txParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return rpcError(req.ID, codeInvalidAccount, "bad params")
		}
	}
	switch req.Method {
	case "CheckPerformTransaction":
		return g.checkPerform(ctx, req.ID, p)
	case "CreateTransaction":
		return g.create(ctx, req.ID, p)
	case "PerformTransaction":
		return g.perform(ctx, req.ID, p)
	case "CancelTransaction":
		return g.cancel(ctx, req.ID, p)
	case "CheckTransaction":
		return g.check(ctx, req.ID, p)
	default:
		return rpcError(req.ID, codeCannotPerform, "unknown method")
	}
}

// Unauthorized is the reply for a failed auth check.
func Unauthorized(id any) Response {
	return rpcError(id, codeInvalidAuth, "invalid authorization")
}

func rpcError(id any, code int, msg string) Response {
	return Response{ID: id, Error: &Error{Code: code, Message: msg}}
}

// durationForAmount maps a paid so'm amount onto a tier length.  Zero
// means the amount matches no tier.
func durationForAmount(s *model.PremiumSettings, amount int64) int {
	switch amount {
	case s.MonthlyPrice:
		return 30
	case s.ThreeMonthPrice:
		return 90
	case s.SixMonthPrice:
		return 180
	case s.YearlyPrice:
		return 365
	}
	return 0
}

func (g *Gateway) validate(ctx context.Context, p txParams) (*model.User, int, *Error) {
	var userID uint64
	if _, err := fmt.Sscanf(p.Account.UserID, "%d", &userID); err != nil {
		return nil, 0, &Error{Code: codeInvalidAccount, Message: "bad account"}
	}
	user, err := g.users.GetByID(ctx, userID)
	if err != nil {
		return nil, 0, &Error{Code: codeInvalidAccount, Message: "user not found"}
	}
	settings, err := g.settings.Premium(ctx)
	if err != nil {
		return nil, 0, &Error{Code: codeCannotPerform, Message: "settings unavailable"}
	}
	days := durationForAmount(settings, p.Amount/100)
	if days == 0 {
		return nil, 0, &Error{Code: codeInvalidAmount, Message: "amount matches no tier"}
	}
	return user, days, nil
}

func (g *Gateway) checkPerform(ctx context.Context, id any, p txParams) Response {
	if _, _, rpcErr := g.validate(ctx, p); rpcErr != nil {
		return Response{ID: id, Error: rpcErr}
	}
	return Response{ID: id, Result: map[string]any{"allow": true}}
}

func (g *Gateway) create(ctx context.Context, id any, p txParams) Response {
	if existing, err := g.payments.GetByGatewayTx(ctx, p.ID); err == nil {
		// idempotent retry of the same transaction
		return Response{ID: id, Result: map[string]any{
			"create_time": existing.CreatedAt.UnixMilli(),
			"transaction": fmt.Sprintf("%d", existing.ID),
			"state":       paymeState(existing),
		}}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return rpcError(id, codeCannotPerform, "storage unavailable")
	}

	user, days, rpcErr := g.validate(ctx, p)
	if rpcErr != nil {
		return Response{ID: id, Error: rpcErr}
	}
	pay := &model.Payment{
		UserID:       user.ID,
		Amount:       p.Amount / 100,
		DurationDays: days,
		Status:       model.PaymentPending,
		GatewayTxID:  p.ID,
	}
	if err := g.payments.Create(ctx, pay); err != nil {
		return rpcError(id, codeCannotPerform, "storage unavailable")
	}
	created, err := g.payments.GetByID(ctx, pay.ID)
	if err != nil {
		return rpcError(id, codeCannotPerform, "storage unavailable")
	}
	return Response{ID: id, Result: map[string]any{
		"create_time": created.CreatedAt.UnixMilli(),
		"transaction": fmt.Sprintf("%d", created.ID),
		"state":       statePending,
	}}
}

func (g *Gateway) perform(ctx context.Context, id any, p txParams) Response {
	pay, err := g.payments.GetByGatewayTx(ctx, p.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return rpcError(id, codeTxNotFound, "transaction not found")
	}
	if err != nil {
		return rpcError(id, codeCannotPerform, "storage unavailable")
	}

	now := time.Now().UTC()
	switch pay.Status {
	case model.PaymentApproved:
		// idempotent retry
	case model.PaymentPending:
		if err := g.payments.MarkPerformed(ctx, pay.ID, now); err != nil {
			return rpcError(id, codeCannotPerform, "cannot perform")
		}
		pay.PerformedAt = &now
		if err := g.grantPremium(ctx, pay); err != nil {
			log.Printf("[payme] grant premium payment %d: %v", pay.ID, err)
		}
	default:
		return rpcError(id, codeCannotPerform, "transaction cancelled")
	}

	performed := now.UnixMilli()
	if pay.PerformedAt != nil {
		performed = pay.PerformedAt.UnixMilli()
	}
	return Response{ID: id, Result: map[string]any{
		"transaction":  fmt.Sprintf("%d", pay.ID),
		"perform_time": performed,
		"state":        statePerformed,
	}}
}

func (g *Gateway) cancel(ctx context.Context, id any, p txParams) Response {
	pay, err := g.payments.GetByGatewayTx(ctx, p.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return rpcError(id, codeTxNotFound, "transaction not found")
	}
	if err != nil {
		return rpcError(id, codeCannotPerform, "storage unavailable")
	}

	state := stateCancelled
	if pay.Status == model.PaymentApproved {
		state = stateCancelledPostOp
		if err := g.users.RevokePremium(ctx, pay.UserID); err != nil {
			log.Printf("[payme] revoke premium user %d: %v", pay.UserID, err)
		}
	}
	if pay.Status != model.PaymentCancelled {
		if err := g.payments.MarkCancelled(ctx, pay.ID); err != nil {
			return rpcError(id, codeCannotPerform, "cannot cancel")
		}
	}
	return Response{ID: id, Result: map[string]any{
		"transaction": fmt.Sprintf("%d", pay.ID),
		"cancel_time": time.Now().UTC().UnixMilli(),
		"state":       state,
	}}
}

func (g *Gateway) check(ctx context.Context, id any, p txParams) Response {
	pay, err := g.payments.GetByGatewayTx(ctx, p.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return rpcError(id, codeTxNotFound, "transaction not found")
	}
	if err != nil {
		return rpcError(id, codeCannotPerform, "storage unavailable")
	}
	var performed int64
	if pay.PerformedAt != nil {
		performed = pay.PerformedAt.UnixMilli()
	}
	return Response{ID: id, Result: map[string]any{
		"create_time":  pay.CreatedAt.UnixMilli(),
		"perform_time": performed,
		"cancel_time":  0,
		"transaction":  fmt.Sprintf("%d", pay.ID),
		"state":        paymeState(pay),
		"reason":       nil,
	}}
}

func paymeState(p *model.Payment) int {
	switch p.Status {
	case model.PaymentApproved:
		return statePerformed
	case model.PaymentCancelled:
		if p.PerformedAt != nil {
			return stateCancelledPostOp
		}
		return stateCancelled
	default:
		return statePending
	}
}

func (g *Gateway) grantPremium(ctx context.Context, pay *model.Payment) error {
	user, err := g.users.GetByID(ctx, pay.UserID)
	if err != nil {
		return err
	}
	// extend from the current expiry when premium is still running
	base := time.Now().UTC()
	if user.PremiumActive(base) {
		base = *user.PremiumExpires
	}
	return g.users.GrantPremium(ctx, user.ID, base.AddDate(0, 0, pay.DurationDays))
}
