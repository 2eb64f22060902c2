package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gymdesk/internal/db"
)

var (
	ErrAlreadyCheckedIn = errors.New("already checked in")
	ErrNoOpenCheckIn    = errors.New("no open check-in")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) CheckIn(ctx context.Context, userID int) (*Attendance, error) {
	// Conditional insert: the WHERE NOT EXISTS clause makes the open-visit
	// check and the insert one atomic statement, so two concurrent
	// check-ins cannot both succeed.
	a := &Attendance{}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO attendances (user_id, check_in)
		 SELECT $1, NOW()
		 WHERE NOT EXISTS (
			SELECT 1 FROM attendances WHERE user_id = $1 AND check_out IS NULL
		 )
		 RETURNING id, user_id, check_in, check_out, created_at`,
		userID,
	).StructScan(a)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlreadyCheckedIn
		}
		// Two racing check-ins can both pass NOT EXISTS; the loser hits
		// the one-open-visit unique index.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}
	return a, nil
}

func (r *repository) CheckOut(ctx context.Context, userID int) (*Attendance, error) {
	a := &Attendance{}
	err := r.db.QueryRowxContext(ctx,
		`UPDATE attendances
		 SET check_out = NOW()
		 WHERE id = (
			SELECT id FROM attendances
			WHERE user_id = $1 AND check_out IS NULL
			ORDER BY check_in DESC
			LIMIT 1
		 )
		 RETURNING id, user_id, check_in, check_out, created_at`,
		userID,
	).StructScan(a)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoOpenCheckIn
		}
		return nil, err
	}
	return a, nil
}

func (r *repository) HasOpen(ctx context.Context, userID int) (bool, error) {
	return db.Exists(ctx, r.db,
		`SELECT EXISTS (SELECT 1 FROM attendances WHERE user_id = $1 AND check_out IS NULL)`,
		userID,
	)
}

func (r *repository) ListByUser(ctx context.Context, userID, limit int) ([]Attendance, error) {
	if limit <= 0 {
		limit = 50
	}

	visits := []Attendance{}
	err := r.db.SelectContext(ctx, &visits,
		`SELECT id, user_id, check_in, check_out, created_at
		 FROM attendances
		 WHERE user_id = $1
		 ORDER BY check_in DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	return visits, nil
}

func (r *repository) VisitDays(ctx context.Context, userID int) ([]time.Time, error) {
	days := []time.Time{}
	err := r.db.SelectContext(ctx, &days,
		`SELECT check_in
		 FROM attendances
		 WHERE user_id = $1
		 ORDER BY check_in DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return days, nil
}

func (r *repository) CountByUser(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM attendances WHERE user_id = $1`, userID)
	return count, err
}

func (r *repository) CountByUserSince(ctx context.Context, userID int, since time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM attendances WHERE user_id = $1 AND check_in >= $2`,
		userID, since)
	return count, err
}

func (r *repository) ListToday(ctx context.Context) ([]Attendance, error) {
	visits := []Attendance{}
	err := r.db.SelectContext(ctx, &visits,
		`SELECT a.id, a.user_id, a.check_in, a.check_out, a.created_at,
			u.name AS user_name
		 FROM attendances a
		 JOIN users u ON u.id = a.user_id
		 WHERE a.check_in >= date_trunc('day', NOW())
		 ORDER BY a.check_in DESC`,
	)
	if err != nil {
		return nil, err
	}
	return visits, nil
}
