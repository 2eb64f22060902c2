package plan

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
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

func planColumns() []string {
	return []string{"id", "name", "description", "price_cents", "duration_days", "is_active", "created_at"}
}

func TestCreatePlan(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO membership_plans (name, description, price_cents, duration_days, is_active)`)).
		WithArgs("Premium", "Full access including group classes.", int64(1599), 30).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(2, now))

	p := &Plan{Name: "Premium", Description: "Full access including group classes.", PriceCents: 1599, DurationDays: 30}
	err := repo.Create(context.Background(), p)

	require.NoError(t, err)
	require.Equal(t, 2, p.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAll_ActiveOnly(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE is_active = TRUE`)).
		WillReturnRows(sqlmock.NewRows(planColumns()).
			AddRow(1, "Basic", "", int64(499), 30, true, now).
			AddRow(2, "Premium", "", int64(1599), 30, true, now))

	plans, err := repo.GetAll(context.Background(), true)

	require.NoError(t, err)
	require.Len(t, plans, 2)
	require.Equal(t, "Basic", plans[0].Name)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM membership_plans WHERE id = $1`)).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(planColumns()))

	_, err := repo.GetByID(context.Background(), 99)
	require.ErrorIs(t, err, ErrPlanNotFound)
}

func TestDeactivate(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE membership_plans SET is_active = FALSE WHERE id = $1`)).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Deactivate(context.Background(), 1))
}

func TestDeactivate_NotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE membership_plans SET is_active = FALSE WHERE id = $1`)).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, repo.Deactivate(context.Background(), 99), ErrPlanNotFound)
}
