package membership

import (
	"context"

	"gymdesk/internal/plan"
)

type Repository interface {
	CreateTransaction(ctx context.Context, t *Transaction) error
	GetTransaction(ctx context.Context, id int) (*Transaction, error)
	ListTransactions(ctx context.Context, status string) ([]Transaction, error)
	ListUserTransactions(ctx context.Context, userID int) ([]Transaction, error)

	// ApproveTransaction flips a pending transaction to approved and, in
	// the same database transaction, activates the membership: any prior
	// active subscription is expired, a fresh subscription is inserted and
	// a completed payment is recorded.
	ApproveTransaction(ctx context.Context, txID, adminID int) (*Subscription, error)
	RejectTransaction(ctx context.Context, txID, adminID int) error

	// ActivateDirect records an immediately-completed purchase made at the
	// front desk, skipping the pending-approval step.
	ActivateDirect(ctx context.Context, userID int, p *plan.Plan, paymentMethod string) (*Subscription, error)

	GetSubscription(ctx context.Context, id int) (*Subscription, error)
	GetActiveSubscription(ctx context.Context, userID int) (*Subscription, error)
	ListUserSubscriptions(ctx context.Context, userID int) ([]Subscription, error)
	ListSubscriptions(ctx context.Context, status string) ([]Subscription, error)
	CancelSubscription(ctx context.Context, id int) error

	ListPayments(ctx context.Context) ([]Payment, error)
	ListUserPayments(ctx context.Context, userID int) ([]Payment, error)
}
