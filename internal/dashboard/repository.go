package dashboard

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CountMembers(ctx context.Context) (int, error)
	CountActiveSubscriptions(ctx context.Context) (int, error)
	CountPendingTransactions(ctx context.Context) (int, error)
	// RevenueCents sums completed payments. Approved transactions always
	// have a matching payment row, so this covers both purchase paths.
	RevenueCents(ctx context.Context) (int64, error)
	// Deprecated: TransactionRevenueCents sums approved transactions
	// instead of completed payments. Every purchase path records an
	// approved transaction, so the two agree; kept for older dashboard
	// clients. Use RevenueCents.
	TransactionRevenueCents(ctx context.Context) (int64, error)
	CountTodayCheckIns(ctx context.Context) (int, error)
	CountCurrentlyInGym(ctx context.Context) (int, error)
	CountClasses(ctx context.Context) (int, error)
	CountBookingsSince(ctx context.Context, days int) (int, error)
	RecentActivity(ctx context.Context, limit int) ([]Activity, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, query, args...)
	return n, err
}

func (r *repository) CountMembers(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE role = 'member'`)
}

func (r *repository) CountActiveSubscriptions(ctx context.Context) (int, error) {
	return r.count(ctx,
		`SELECT COUNT(*) FROM subscriptions
		 WHERE status = 'active' AND end_date >= NOW()`)
}

func (r *repository) CountPendingTransactions(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM transactions WHERE status = 'pending'`)
}

func (r *repository) RevenueCents(ctx context.Context) (int64, error) {
	var cents int64
	err := r.db.GetContext(ctx, &cents,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE status = 'completed'`)
	return cents, err
}

func (r *repository) TransactionRevenueCents(ctx context.Context) (int64, error) {
	var cents int64
	err := r.db.GetContext(ctx, &cents,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions WHERE status = 'approved'`)
	return cents, err
}

func (r *repository) CountTodayCheckIns(ctx context.Context) (int, error) {
	return r.count(ctx,
		`SELECT COUNT(*) FROM attendances WHERE check_in >= date_trunc('day', NOW())`)
}

func (r *repository) CountCurrentlyInGym(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM attendances WHERE check_out IS NULL`)
}

func (r *repository) CountClasses(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM gym_classes`)
}

func (r *repository) CountBookingsSince(ctx context.Context, days int) (int, error) {
	return r.count(ctx,
		`SELECT COUNT(*) FROM class_bookings
		 WHERE created_at >= NOW() - make_interval(days => $1)`, days)
}

func (r *repository) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = 20
	}

	activity := []Activity{}
	err := r.db.SelectContext(ctx, &activity, `
		SELECT * FROM (
			SELECT 'signup' AS type, u.name AS user_name, u.role AS detail, u.created_at AS occurred_at
			FROM users u
			UNION ALL
			SELECT 'transaction' AS type, u.name AS user_name, t.status AS detail, t.created_at AS occurred_at
			FROM transactions t JOIN users u ON u.id = t.user_id
			UNION ALL
			SELECT 'booking' AS type, u.name AS user_name, c.name AS detail, b.created_at AS occurred_at
			FROM class_bookings b
			JOIN users u ON u.id = b.user_id
			JOIN gym_classes c ON c.id = b.gym_class_id
			UNION ALL
			SELECT 'subscription' AS type, u.name AS user_name, p.name AS detail, s.created_at AS occurred_at
			FROM subscriptions s
			JOIN users u ON u.id = s.user_id
			JOIN membership_plans p ON p.id = s.plan_id
			UNION ALL
			SELECT 'check_in' AS type, u.name AS user_name, '' AS detail, a.check_in AS occurred_at
			FROM attendances a JOIN users u ON u.id = a.user_id
		) feed
		ORDER BY occurred_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return activity, nil
}
