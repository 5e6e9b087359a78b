package repository // repository for premium purchases

import (
	"context"
	"database/sql"
	"time"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
)

// PaymentRepo manages premium purchase attempts, both manual receipts
// and Payme gateway transactions.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo constructs a PaymentRepo given a DB handle.
func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

const paymentCols = `id, user_id, amount, duration_days, status,
	receipt_file_id, gateway_tx_id, reviewed_by, created_at, performed_at`

// Create inserts a new pending payment and fills in its id.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO payments
		(user_id, amount, duration_days, status, receipt_file_id, gateway_tx_id)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.UserID, p.Amount, p.DurationDays,
		p.Status, p.ReceiptFileID, p.GatewayTxID)
	if err != nil {
		if isDuplicateKey(err) {
			// gateway_tx_id carries a unique index
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID fetches a payment by primary key.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	const q = `SELECT ` + paymentCols + ` FROM payments WHERE id = ?`
	return scanPayment(r.db.QueryRowContext(ctx, q, id))
}

// GetByGatewayTx fetches a payment by its Payme transaction id.
func (r *PaymentRepo) GetByGatewayTx(ctx context.Context, txID string) (*model.Payment, error) {
	const q = `SELECT ` + paymentCols + ` FROM payments WHERE gateway_tx_id = ?`
	return scanPayment(r.db.QueryRowContext(ctx, q, txID))
}

// ListPending returns payments awaiting manual review, oldest first.
func (r *PaymentRepo) ListPending(ctx context.Context) ([]model.Payment, error) {
	const q = `SELECT ` + paymentCols + ` FROM payments
		WHERE status = ? AND receipt_file_id <> '' ORDER BY created_at`
	return r.list(ctx, q, model.PaymentPending)
}

// ListByUser returns a user's payments, newest first.
func (r *PaymentRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Payment, error) {
	const q = `SELECT ` + paymentCols + ` FROM payments
		WHERE user_id = ? ORDER BY created_at DESC`
	return r.list(ctx, q, userID)
}

func (r *PaymentRepo) list(ctx context.Context, q string, args ...any) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Review settles a pending payment.  The WHERE clause guards against
// double review: a second approve/reject on the same payment returns
// ErrConflict.
func (r *PaymentRepo) Review(ctx context.Context, id uint64, status string, reviewerID uint64) error {
	const q = `UPDATE payments SET status = ?, reviewed_by = ?
		WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, status, reviewerID, id, model.PaymentPending)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// MarkPerformed records the gateway perform time and flips the payment
// to APPROVED, guarded the same way as Review.
func (r *PaymentRepo) MarkPerformed(ctx context.Context, id uint64, at time.Time) error {
	const q = `UPDATE payments SET status = ?, performed_at = ?
		WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, model.PaymentApproved, at, id, model.PaymentPending)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// MarkCancelled cancels a gateway transaction regardless of its
// current state; Payme may cancel performed transactions.
func (r *PaymentRepo) MarkCancelled(ctx context.Context, id uint64) error {
	const q = `UPDATE payments SET status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, model.PaymentCancelled, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPayment(row rowScanner) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.UserID, &p.Amount, &p.DurationDays, &p.Status,
		&p.ReceiptFileID, &p.GatewayTxID, &p.ReviewedBy, &p.CreatedAt,
		&p.PerformedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
