package class

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

func classRows(capacity int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "description", "instructor", "day_of_week", "start_time", "end_time", "capacity", "created_at"}).
		AddRow(3, "Yoga Class", "", "Sarah Johnson", "Tuesday", "10:00", "11:00", capacity, time.Now())
}

func TestBook(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WithArgs(3).
		WillReturnRows(classRows(20))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM class_bookings WHERE user_id = $1 AND gym_class_id = $2)`)).
		WithArgs(7, 3).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM class_bookings WHERE gym_class_id = $1`)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO class_bookings (user_id, gym_class_id)`)).
		WithArgs(7, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "gym_class_id", "created_at"}).
			AddRow(1, 7, 3, time.Now()))
	mock.ExpectCommit()

	b, err := repo.Book(context.Background(), 7, 3)

	require.NoError(t, err)
	require.Equal(t, 1, b.ID)
	require.Equal(t, "Yoga Class", b.ClassName)
	require.Equal(t, "Tuesday", b.DayOfWeek)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBook_ClassFull(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WithArgs(3).
		WillReturnRows(classRows(20))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs(7, 3).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*)`)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(20))
	mock.ExpectRollback()

	_, err := repo.Book(context.Background(), 7, 3)

	require.ErrorIs(t, err, ErrClassFull)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBook_AlreadyBooked(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WithArgs(3).
		WillReturnRows(classRows(20))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs(7, 3).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.Book(context.Background(), 7, 3)

	require.ErrorIs(t, err, ErrAlreadyBooked)
}

func TestBook_ClassNotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.Book(context.Background(), 7, 99)

	require.ErrorIs(t, err, ErrClassNotFound)
}

func TestCancelBooking(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT b.id, b.user_id, b.gym_class_id, b.created_at`)).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "gym_class_id", "created_at", "class_name", "instructor", "day_of_week", "start_time", "end_time"}).
			AddRow(4, 7, 3, time.Now(), "Yoga Class", "Sarah Johnson", "Tuesday", "10:00", "11:00"))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM class_bookings WHERE id = $1`)).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	b, err := repo.CancelBooking(context.Background(), 4)

	require.NoError(t, err)
	require.Equal(t, "Yoga Class", b.ClassName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteClass_NotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM gym_classes WHERE id = $1`)).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteClass(context.Background(), 99)
	require.ErrorIs(t, err, ErrClassNotFound)
}
