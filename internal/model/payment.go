package model

import "time"

// Payment statuses.  Manual receipts move PENDING -> APPROVED/REJECTED
// by an admin; gateway transactions move PENDING -> APPROVED when the
// gateway performs them, or CANCELLED.
const (
	PaymentPending   = "PENDING"
	PaymentApproved  = "APPROVED"
	PaymentRejected  = "REJECTED"
	PaymentCancelled = "CANCELLED"
)

// Payment is one premium purchase attempt, either a photographed
// receipt awaiting manual review or a Payme gateway transaction.
type Payment struct {
	ID            uint64     // payments.id
	UserID        uint64     // payments.user_id
	Amount        int64      // amount in so'm
	DurationDays  int        // premium days granted on approval
	Status        string     // payments.status
	ReceiptFileID string     // photo file id for manual payments
	GatewayTxID   string     // Payme transaction id, empty for manual
	ReviewedBy    uint64     // admin id that approved/rejected, 0 = none
	CreatedAt     time.Time  // payments.created_at
	PerformedAt   *time.Time // when the gateway performed the transaction
}

// PremiumSettings holds the prices and card details shown to users
// buying premium manually.  A single row table.
type PremiumSettings struct {
	MonthlyPrice    int64  // 1 month, so'm
	ThreeMonthPrice int64  // 3 months
	SixMonthPrice   int64  // 6 months
	YearlyPrice     int64  // 12 months
	CardNumber      string // card for manual transfers
	CardHolder      string // card owner name
}
