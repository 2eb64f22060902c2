package attendance

import (
	"context"
	"time"
)

type Repository interface {
	// CheckIn opens a visit record. A member with an open visit cannot
	// check in again.
	CheckIn(ctx context.Context, userID int) (*Attendance, error)
	// CheckOut closes the member's open visit.
	CheckOut(ctx context.Context, userID int) (*Attendance, error)
	HasOpen(ctx context.Context, userID int) (bool, error)
	ListByUser(ctx context.Context, userID, limit int) ([]Attendance, error)
	VisitDays(ctx context.Context, userID int) ([]time.Time, error)
	CountByUser(ctx context.Context, userID int) (int, error)
	CountByUserSince(ctx context.Context, userID int, since time.Time) (int, error)
	ListToday(ctx context.Context) ([]Attendance, error)
}
