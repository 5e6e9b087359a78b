package payment

import (
	"context"
	"time"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
)

// ReviewStore is the persistence slice manual review needs.
type ReviewStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Payment, error)
	Review(ctx context.Context, id uint64, status string, reviewerID uint64) error
}

// Reviewer settles photographed-receipt payments.  Approval grants the
// purchased premium period; both verdicts are final, a second verdict
// on the same payment fails.
type Reviewer struct {
	payments ReviewStore
	users    UserStore
}

// NewReviewer constructs a Reviewer.
func NewReviewer(payments ReviewStore, users UserStore) *Reviewer {
	return &Reviewer{payments: payments, users: users}
}

// Approve marks the payment approved and extends the user's premium by
// the purchased duration.
func (r *Reviewer) Approve(ctx context.Context, paymentID, reviewerID uint64) (*model.Payment, error) {
	pay, err := r.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if err := r.payments.Review(ctx, paymentID, model.PaymentApproved, reviewerID); err != nil {
		return nil, err
	}
	user, err := r.users.GetByID(ctx, pay.UserID)
	if err != nil {
		return nil, err
	}
	base := time.Now().UTC()
	if user.PremiumActive(base) {
		base = *user.PremiumExpires
	}
	if err := r.users.GrantPremium(ctx, user.ID, base.AddDate(0, 0, pay.DurationDays)); err != nil {
		return nil, err
	}
	pay.Status = model.PaymentApproved
	return pay, nil
}

// Reject marks the payment rejected without touching premium status.
func (r *Reviewer) Reject(ctx context.Context, paymentID, reviewerID uint64) (*model.Payment, error) {
	pay, err := r.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if err := r.payments.Review(ctx, paymentID, model.PaymentRejected, reviewerID); err != nil {
		return nil, err
	}
	pay.Status = model.PaymentRejected
	return pay, nil
}
