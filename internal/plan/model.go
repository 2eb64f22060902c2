package plan

import "time"

// Plan is a purchasable membership tier. Plans are reference data:
// price changes do not touch transactions created before the change,
// and plans are deactivated rather than deleted.
type Plan struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	PriceCents   int64     `db:"price_cents" json:"price_cents"`
	DurationDays int       `db:"duration_days" json:"duration_days"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type CreatePlanRequest struct {
	Name         string `json:"name" binding:"required,max=255"`
	Description  string `json:"description"`
	PriceCents   int64  `json:"price_cents" binding:"required,gt=0"`
	DurationDays int    `json:"duration_days" binding:"required,min=1"`
}
