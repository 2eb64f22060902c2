package plan

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrPlanNotFound = errors.New("plan not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Plan) error {
	query := `INSERT INTO membership_plans (name, description, price_cents, duration_days, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, created_at`
	return r.db.QueryRowxContext(ctx, query, p.Name, p.Description, p.PriceCents, p.DurationDays).
		Scan(&p.ID, &p.CreatedAt)
}

func (r *repository) GetAll(ctx context.Context, activeOnly bool) ([]Plan, error) {
	query := `SELECT id, name, description, price_cents, duration_days, is_active, created_at
		FROM membership_plans`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY price_cents ASC`

	plans := []Plan{}
	if err := r.db.SelectContext(ctx, &plans, query); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Plan, error) {
	var p Plan
	query := `SELECT id, name, description, price_cents, duration_days, is_active, created_at
		FROM membership_plans WHERE id = $1`
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByName(ctx context.Context, name string) (*Plan, error) {
	var p Plan
	query := `SELECT id, name, description, price_cents, duration_days, is_active, created_at
		FROM membership_plans WHERE name = $1`
	if err := r.db.GetContext(ctx, &p, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Deactivate(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE membership_plans SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPlanNotFound
	}
	return nil
}
