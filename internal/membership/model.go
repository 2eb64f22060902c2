package membership

import "time"

const (
	PaymentMethodCreditCard   = "credit_card"
	PaymentMethodBankTransfer = "bank_transfer"
)

const (
	TransactionPending  = "pending"
	TransactionApproved = "approved"
	TransactionRejected = "rejected"
)

const (
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
)

const PaymentCompleted = "completed"

// Transaction is a member's request to purchase a plan. It records the
// plan price at purchase time, so later plan price changes never affect
// what the member owes.
type Transaction struct {
	ID            int        `db:"id" json:"id"`
	UserID        int        `db:"user_id" json:"user_id"`
	PlanID        int        `db:"plan_id" json:"plan_id"`
	AmountCents   int64      `db:"amount_cents" json:"amount_cents"`
	PaymentMethod string     `db:"payment_method" json:"payment_method"`
	Status        string     `db:"status" json:"status"`
	DecidedBy     *int       `db:"decided_by" json:"decided_by,omitempty"`
	DecidedAt     *time.Time `db:"decided_at" json:"decided_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`

	// Joined columns for listings.
	UserName string `db:"user_name" json:"user_name,omitempty"`
	PlanName string `db:"plan_name" json:"plan_name,omitempty"`
}

type Subscription struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	PlanID    int       `db:"plan_id" json:"plan_id"`
	Status    string    `db:"status" json:"status"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	UserName string `db:"user_name" json:"user_name,omitempty"`
	PlanName string `db:"plan_name" json:"plan_name,omitempty"`
}

// IsCurrentlyUsable reports whether the subscription grants access right
// now: status active and the clock inside [StartDate, EndDate].
func (s *Subscription) IsCurrentlyUsable(now time.Time) bool {
	return s.Status == SubscriptionActive && !now.Before(s.StartDate) && !now.After(s.EndDate)
}

type Payment struct {
	ID             int       `db:"id" json:"id"`
	UserID         int       `db:"user_id" json:"user_id"`
	PlanID         int       `db:"plan_id" json:"plan_id"`
	SubscriptionID int       `db:"subscription_id" json:"subscription_id"`
	TransactionID  *int      `db:"transaction_id" json:"transaction_id,omitempty"`
	AmountCents    int64     `db:"amount_cents" json:"amount_cents"`
	PaymentMethod  string    `db:"payment_method" json:"payment_method"`
	Status         string    `db:"status" json:"status"`
	PaidAt         time.Time `db:"paid_at" json:"paid_at"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`

	UserName string `db:"user_name" json:"user_name,omitempty"`
	PlanName string `db:"plan_name" json:"plan_name,omitempty"`
}

type PurchaseRequest struct {
	PlanID        int    `json:"plan_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=credit_card bank_transfer"`
}

// Approve is a pointer so a body that omits the field fails validation
// instead of silently rejecting the transaction.
type DecisionRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

type CreateSubscriptionRequest struct {
	UserID        int    `json:"user_id" binding:"required"`
	PlanID        int    `json:"plan_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"omitempty,oneof=credit_card bank_transfer"`
}
