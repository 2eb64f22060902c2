package user

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
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

func TestCreateUser(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id, name, email, password_hash, role, created_at")).
		WithArgs("Jane", "jane@example.com", "hash", "member").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at"}).
			AddRow(1, "Jane", "jane@example.com", "hash", "member", now))

	u, err := repo.Create(ctx, "Jane", "jane@example.com", "hash", "member")
	require.NoError(t, err)
	require.Equal(t, 1, u.ID)
	require.Equal(t, "member", u.Role)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("Jane", "jane@example.com", "hash", "member").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	_, err := repo.Create(context.Background(), "Jane", "jane@example.com", "hash", "member")
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestFindByEmailAndID(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash, role, created_at FROM users WHERE email = $1")).
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at"}).
			AddRow(1, "Jane", "jane@example.com", "hash", "member", now))

	u, err := repo.FindByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.Equal(t, "Jane", u.Name)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash, role, created_at FROM users WHERE id = $1")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at"}).
			AddRow(1, "Jane", "jane@example.com", "hash", "member", now))

	got, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, got.ID)
}

func TestEmailExists(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)")).
		WithArgs("taken@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(ctx, "taken@example.com")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestListByRole(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at"}).
		AddRow(1, "Alice", "alice@example.com", "hash", "member", now).
		AddRow(2, "Bob", "bob@example.com", "hash", "member", now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash, role, created_at FROM users WHERE role = $1 ORDER BY name ASC")).
		WithArgs("member").
		WillReturnRows(rows)

	members, err := repo.ListByRole(ctx, "member")
	require.NoError(t, err)
	require.Len(t, members, 2)
}
