package membership

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"gymdesk/internal/plan"
)

var (
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrTransactionDecided   = errors.New("transaction already decided")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrNotActive            = errors.New("subscription is not active")
	ErrNoActiveSubscription = errors.New("no active subscription")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTransaction(ctx context.Context, t *Transaction) error {
	query := `INSERT INTO transactions (user_id, plan_id, amount_cents, payment_method, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id, status, created_at`
	return r.db.QueryRowxContext(ctx, query, t.UserID, t.PlanID, t.AmountCents, t.PaymentMethod).
		Scan(&t.ID, &t.Status, &t.CreatedAt)
}

func (r *repository) GetTransaction(ctx context.Context, id int) (*Transaction, error) {
	var t Transaction
	query := `SELECT t.id, t.user_id, t.plan_id, t.amount_cents, t.payment_method, t.status,
			t.decided_by, t.decided_at, t.created_at,
			u.name AS user_name, p.name AS plan_name
		FROM transactions t
		JOIN users u ON u.id = t.user_id
		JOIN membership_plans p ON p.id = t.plan_id
		WHERE t.id = $1`
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) ListTransactions(ctx context.Context, status string) ([]Transaction, error) {
	query := `SELECT t.id, t.user_id, t.plan_id, t.amount_cents, t.payment_method, t.status,
			t.decided_by, t.decided_at, t.created_at,
			u.name AS user_name, p.name AS plan_name
		FROM transactions t
		JOIN users u ON u.id = t.user_id
		JOIN membership_plans p ON p.id = t.plan_id`

	args := []interface{}{}
	if status != "" {
		query += ` WHERE t.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY t.created_at DESC`

	txs := []Transaction{}
	if err := r.db.SelectContext(ctx, &txs, query, args...); err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *repository) ListUserTransactions(ctx context.Context, userID int) ([]Transaction, error) {
	query := `SELECT t.id, t.user_id, t.plan_id, t.amount_cents, t.payment_method, t.status,
			t.decided_by, t.decided_at, t.created_at,
			p.name AS plan_name
		FROM transactions t
		JOIN membership_plans p ON p.id = t.plan_id
		WHERE t.user_id = $1
		ORDER BY t.created_at DESC`

	txs := []Transaction{}
	if err := r.db.SelectContext(ctx, &txs, query, userID); err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *repository) ApproveTransaction(ctx context.Context, txID, adminID int) (*Subscription, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Lock the transaction row first so two admins deciding at once
	// serialize here.
	var t Transaction
	err = tx.QueryRowxContext(ctx,
		`SELECT id, user_id, plan_id, amount_cents, payment_method, status, created_at
		 FROM transactions
		 WHERE id = $1
		 FOR UPDATE`,
		txID,
	).StructScan(&t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if t.Status != TransactionPending {
		return nil, ErrTransactionDecided
	}

	var p plan.Plan
	err = tx.QueryRowxContext(ctx,
		`SELECT id, name, description, price_cents, duration_days, is_active, created_at
		 FROM membership_plans
		 WHERE id = $1`,
		t.PlanID,
	).StructScan(&p)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE transactions
		 SET status = 'approved', decided_by = $1, decided_at = NOW()
		 WHERE id = $2`,
		adminID, txID,
	)
	if err != nil {
		return nil, err
	}

	sub, err := activate(ctx, tx, t.UserID, &p, t.AmountCents, t.PaymentMethod, t.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *repository) RejectTransaction(ctx context.Context, txID, adminID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET status = 'rejected', decided_by = $1, decided_at = NOW()
		 WHERE id = $2 AND status = 'pending'`,
		adminID, txID,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Distinguish missing from already-decided for the caller.
		var status string
		err = r.db.GetContext(ctx, &status, `SELECT status FROM transactions WHERE id = $1`, txID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTransactionNotFound
		}
		if err != nil {
			return err
		}
		return ErrTransactionDecided
	}
	return nil
}

func (r *repository) ActivateDirect(ctx context.Context, userID int, p *plan.Plan, paymentMethod string) (*Subscription, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// A front-desk purchase skips the approval queue but still leaves the
	// same paper trail: an already-approved transaction.
	var txID int
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO transactions (user_id, plan_id, amount_cents, payment_method, status, decided_at)
		 VALUES ($1, $2, $3, $4, 'approved', NOW())
		 RETURNING id`,
		userID, p.ID, p.PriceCents, paymentMethod,
	).Scan(&txID)
	if err != nil {
		return nil, err
	}

	sub, err := activate(ctx, tx, userID, p, p.PriceCents, paymentMethod, txID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return sub, nil
}

// activate expires any active subscription the user holds, inserts the
// replacement and records the completed payment against it. A user never
// holds two active subscriptions; a new purchase supersedes the old one.
func activate(ctx context.Context, tx *sqlx.Tx, userID int, p *plan.Plan, amountCents int64, paymentMethod string, txID int) (*Subscription, error) {
	_, err := tx.ExecContext(ctx,
		`UPDATE subscriptions
		 SET status = 'expired'
		 WHERE user_id = $1 AND status = 'active'`,
		userID,
	)
	if err != nil {
		return nil, err
	}

	sub := &Subscription{}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO subscriptions (user_id, plan_id, status, start_date, end_date)
		 VALUES ($1, $2, 'active', NOW(), NOW() + make_interval(days => $3))
		 RETURNING id, user_id, plan_id, status, start_date, end_date, created_at`,
		userID, p.ID, p.DurationDays,
	).StructScan(sub)
	if err != nil {
		return nil, err
	}
	sub.PlanName = p.Name

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payments (user_id, plan_id, subscription_id, transaction_id, amount_cents, payment_method, status, paid_at)
		 VALUES ($1, $2, $3, $4, $5, $6, 'completed', NOW())`,
		userID, p.ID, sub.ID, txID, amountCents, paymentMethod,
	)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (r *repository) GetSubscription(ctx context.Context, id int) (*Subscription, error) {
	var s Subscription
	query := `SELECT s.id, s.user_id, s.plan_id, s.status, s.start_date, s.end_date, s.created_at,
			p.name AS plan_name
		FROM subscriptions s
		JOIN membership_plans p ON p.id = s.plan_id
		WHERE s.id = $1`
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) GetActiveSubscription(ctx context.Context, userID int) (*Subscription, error) {
	var s Subscription
	query := `SELECT s.id, s.user_id, s.plan_id, s.status, s.start_date, s.end_date, s.created_at,
			p.name AS plan_name
		FROM subscriptions s
		JOIN membership_plans p ON p.id = s.plan_id
		WHERE s.user_id = $1 AND s.status = 'active'
		ORDER BY s.created_at DESC
		LIMIT 1`
	if err := r.db.GetContext(ctx, &s, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveSubscription
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) ListUserSubscriptions(ctx context.Context, userID int) ([]Subscription, error) {
	query := `SELECT s.id, s.user_id, s.plan_id, s.status, s.start_date, s.end_date, s.created_at,
			p.name AS plan_name
		FROM subscriptions s
		JOIN membership_plans p ON p.id = s.plan_id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC`

	subs := []Subscription{}
	if err := r.db.SelectContext(ctx, &subs, query, userID); err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repository) ListSubscriptions(ctx context.Context, status string) ([]Subscription, error) {
	query := `SELECT s.id, s.user_id, s.plan_id, s.status, s.start_date, s.end_date, s.created_at,
			u.name AS user_name, p.name AS plan_name
		FROM subscriptions s
		JOIN users u ON u.id = s.user_id
		JOIN membership_plans p ON p.id = s.plan_id`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE s.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY s.created_at DESC`

	subs := []Subscription{}
	if err := r.db.SelectContext(ctx, &subs, query, args...); err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repository) CancelSubscription(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions
		 SET status = 'cancelled'
		 WHERE id = $1 AND status = 'active'`,
		id,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var status string
		err = r.db.GetContext(ctx, &status, `SELECT status FROM subscriptions WHERE id = $1`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSubscriptionNotFound
		}
		if err != nil {
			return err
		}
		return ErrNotActive
	}
	return nil
}

func (r *repository) ListPayments(ctx context.Context) ([]Payment, error) {
	query := `SELECT pay.id, pay.user_id, pay.plan_id, pay.subscription_id, pay.transaction_id,
			pay.amount_cents, pay.payment_method, pay.status, pay.paid_at, pay.created_at,
			u.name AS user_name, p.name AS plan_name
		FROM payments pay
		JOIN users u ON u.id = pay.user_id
		JOIN membership_plans p ON p.id = pay.plan_id
		ORDER BY pay.paid_at DESC`

	payments := []Payment{}
	if err := r.db.SelectContext(ctx, &payments, query); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repository) ListUserPayments(ctx context.Context, userID int) ([]Payment, error) {
	query := `SELECT pay.id, pay.user_id, pay.plan_id, pay.subscription_id, pay.transaction_id,
			pay.amount_cents, pay.payment_method, pay.status, pay.paid_at, pay.created_at,
			p.name AS plan_name
		FROM payments pay
		JOIN membership_plans p ON p.id = pay.plan_id
		WHERE pay.user_id = $1
		ORDER BY pay.paid_at DESC`

	payments := []Payment{}
	if err := r.db.SelectContext(ctx, &payments, query, userID); err != nil {
		return nil, err
	}
	return payments, nil
}
