package membership

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/plan"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, mock, closer
}

func TestCreateTransaction(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO transactions (user_id, plan_id, amount_cents, payment_method, status)`)).
		WithArgs(7, 1, int64(499), "credit_card").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "created_at"}).AddRow(10, "pending", now))

	tx := &Transaction{UserID: 7, PlanID: 1, AmountCents: 499, PaymentMethod: "credit_card"}
	err := repo.CreateTransaction(context.Background(), tx)

	require.NoError(t, err)
	require.Equal(t, 10, tx.ID)
	require.Equal(t, TransactionPending, tx.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveTransaction(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	end := now.AddDate(0, 0, 30)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, plan_id, amount_cents, payment_method, status, created_at
		 FROM transactions
		 WHERE id = $1
		 FOR UPDATE`)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "plan_id", "amount_cents", "payment_method", "status", "created_at"}).
			AddRow(10, 7, 1, int64(1599), "credit_card", "pending", now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, description, price_cents, duration_days, is_active, created_at
		 FROM membership_plans
		 WHERE id = $1`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "price_cents", "duration_days", "is_active", "created_at"}).
			AddRow(1, "Premium", "", int64(1599), 30, true, now))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE transactions`)).
		WithArgs(1, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE subscriptions
		 SET status = 'expired'
		 WHERE user_id = $1 AND status = 'active'`)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO subscriptions`)).
		WithArgs(7, 1, 30).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "plan_id", "status", "start_date", "end_date", "created_at"}).
			AddRow(5, 7, 1, "active", now, end, now))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO payments`)).
		WithArgs(7, 1, 5, 10, int64(1599), "credit_card").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	sub, err := repo.ApproveTransaction(context.Background(), 10, 1)

	require.NoError(t, err)
	require.Equal(t, 5, sub.ID)
	require.Equal(t, SubscriptionActive, sub.Status)
	require.Equal(t, "Premium", sub.PlanName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActivateDirect_RecordsApprovedTransaction(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	end := now.AddDate(0, 0, 30)
	p := &plan.Plan{ID: 2, Name: "GymBro", PriceCents: 2999, DurationDays: 30, IsActive: true}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO transactions (user_id, plan_id, amount_cents, payment_method, status, decided_at)
		 VALUES ($1, $2, $3, $4, 'approved', NOW())`)).
		WithArgs(7, 2, int64(2999), "bank_transfer").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE subscriptions
		 SET status = 'expired'
		 WHERE user_id = $1 AND status = 'active'`)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO subscriptions`)).
		WithArgs(7, 2, 30).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "plan_id", "status", "start_date", "end_date", "created_at"}).
			AddRow(6, 7, 2, "active", now, end, now))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO payments`)).
		WithArgs(7, 2, 6, 42, int64(2999), "bank_transfer").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	sub, err := repo.ActivateDirect(context.Background(), 7, p, "bank_transfer")

	require.NoError(t, err)
	require.Equal(t, 6, sub.ID)
	require.Equal(t, "GymBro", sub.PlanName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveTransaction_AlreadyDecided(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "plan_id", "amount_cents", "payment_method", "status", "created_at"}).
			AddRow(10, 7, 1, int64(1599), "credit_card", "approved", time.Now()))
	mock.ExpectRollback()

	_, err := repo.ApproveTransaction(context.Background(), 10, 1)

	require.ErrorIs(t, err, ErrTransactionDecided)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectTransaction(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE transactions
		 SET status = 'rejected', decided_by = $1, decided_at = NOW()
		 WHERE id = $2 AND status = 'pending'`)).
		WithArgs(1, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RejectTransaction(context.Background(), 10, 1)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectTransaction_AlreadyDecided(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE transactions`)).
		WithArgs(1, 10).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM transactions WHERE id = $1`)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("approved"))

	err := repo.RejectTransaction(context.Background(), 10, 1)

	require.ErrorIs(t, err, ErrTransactionDecided)
}

func TestCancelSubscription(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE subscriptions
		 SET status = 'cancelled'
		 WHERE id = $1 AND status = 'active'`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CancelSubscription(context.Background(), 5)
	require.NoError(t, err)
}

func TestCancelSubscription_NotActive(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE subscriptions`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM subscriptions WHERE id = $1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("cancelled"))

	err := repo.CancelSubscription(context.Background(), 5)
	require.ErrorIs(t, err, ErrNotActive)
}

func TestGetActiveSubscription_None(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE s.user_id = $1 AND s.status = 'active'`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetActiveSubscription(context.Background(), 7)
	require.ErrorIs(t, err, ErrNoActiveSubscription)
}

func TestListSubscriptions_StatusFilter(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE s.status = $1`)).
		WithArgs("active").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "plan_id", "status", "start_date", "end_date", "created_at",
			"user_name", "plan_name",
		}).AddRow(1, 7, 2, "active", now, now.AddDate(0, 0, 30), now, "Jane", "Premium"))

	subs, err := repo.ListSubscriptions(context.Background(), "active")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.Equal(t, "Jane", subs[0].UserName)
	require.Equal(t, "Premium", subs[0].PlanName)
}
