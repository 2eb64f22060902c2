package class

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrClassNotFound   = errors.New("class not found")
	ErrClassFull       = errors.New("class is full")
	ErrAlreadyBooked   = errors.New("already booked for this class")
	ErrBookingNotFound = errors.New("booking not found")
)

const classColumns = `id, name, description, instructor, day_of_week, start_time, end_time, capacity, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateClass(ctx context.Context, gc *GymClass) error {
	query := `INSERT INTO gym_classes (name, description, instructor, day_of_week, start_time, end_time, capacity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	return r.db.QueryRowxContext(ctx, query,
		gc.Name, gc.Description, gc.Instructor, gc.DayOfWeek, gc.StartTime, gc.EndTime, gc.Capacity,
	).Scan(&gc.ID, &gc.CreatedAt)
}

func (r *repository) UpdateClass(ctx context.Context, gc *GymClass) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE gym_classes
		 SET name = $1, description = $2, instructor = $3, day_of_week = $4,
		     start_time = $5, end_time = $6, capacity = $7
		 WHERE id = $8`,
		gc.Name, gc.Description, gc.Instructor, gc.DayOfWeek, gc.StartTime, gc.EndTime, gc.Capacity, gc.ID,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrClassNotFound
	}
	return nil
}

func (r *repository) DeleteClass(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM gym_classes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrClassNotFound
	}
	return nil
}

func (r *repository) GetClass(ctx context.Context, id int) (*GymClass, error) {
	var gc GymClass
	err := r.db.GetContext(ctx, &gc, `SELECT `+classColumns+` FROM gym_classes WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return &gc, nil
}

const availabilityQuery = `SELECT c.id, c.name, c.description, c.instructor, c.day_of_week,
		c.start_time, c.end_time, c.capacity, c.created_at,
		COUNT(b.id) AS booked_count,
		c.capacity - COUNT(b.id) AS available_spots
	FROM gym_classes c
	LEFT JOIN class_bookings b ON b.gym_class_id = c.id`

func (r *repository) ListClasses(ctx context.Context) ([]ClassWithAvailability, error) {
	query := availabilityQuery + `
	GROUP BY c.id
	ORDER BY c.day_of_week, c.start_time`

	classes := []ClassWithAvailability{}
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *repository) ListClassesForDays(ctx context.Context, days []string) ([]ClassWithAvailability, error) {
	if len(days) == 0 {
		return []ClassWithAvailability{}, nil
	}

	query, args, err := sqlx.In(availabilityQuery+`
	WHERE c.day_of_week IN (?)
	GROUP BY c.id
	ORDER BY c.start_time`, days)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	classes := []ClassWithAvailability{}
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *repository) Book(ctx context.Context, userID, classID int) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var gc GymClass
	err = tx.QueryRowxContext(ctx,
		`SELECT `+classColumns+`
		 FROM gym_classes
		 WHERE id = $1
		 FOR UPDATE`,
		classID,
	).StructScan(&gc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}

	var alreadyBooked bool
	err = tx.QueryRowxContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM class_bookings WHERE user_id = $1 AND gym_class_id = $2)`,
		userID, classID,
	).Scan(&alreadyBooked)
	if err != nil {
		return nil, err
	}
	if alreadyBooked {
		return nil, ErrAlreadyBooked
	}

	var booked int
	err = tx.QueryRowxContext(ctx,
		`SELECT COUNT(*) FROM class_bookings WHERE gym_class_id = $1`,
		classID,
	).Scan(&booked)
	if err != nil {
		return nil, err
	}
	if booked >= gc.Capacity {
		return nil, ErrClassFull
	}

	b := &Booking{}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO class_bookings (user_id, gym_class_id)
		 VALUES ($1, $2)
		 RETURNING id, user_id, gym_class_id, created_at`,
		userID, classID,
	).StructScan(b)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	b.ClassName = gc.Name
	b.Instructor = gc.Instructor
	b.DayOfWeek = gc.DayOfWeek
	b.StartTime = gc.StartTime
	b.EndTime = gc.EndTime
	return b, nil
}

func (r *repository) GetBooking(ctx context.Context, id int) (*Booking, error) {
	var b Booking
	query := `SELECT b.id, b.user_id, b.gym_class_id, b.created_at,
			c.name AS class_name, c.instructor, c.day_of_week, c.start_time, c.end_time
		FROM class_bookings b
		JOIN gym_classes c ON c.id = b.gym_class_id
		WHERE b.id = $1`
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) CancelBooking(ctx context.Context, id int) (*Booking, error) {
	b, err := r.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM class_bookings WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func (r *repository) ListUserBookings(ctx context.Context, userID int) ([]Booking, error) {
	query := `SELECT b.id, b.user_id, b.gym_class_id, b.created_at,
			c.name AS class_name, c.instructor, c.day_of_week, c.start_time, c.end_time
		FROM class_bookings b
		JOIN gym_classes c ON c.id = b.gym_class_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC`

	bookings := []Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListClassBookings(ctx context.Context, classID int) ([]Booking, error) {
	query := `SELECT b.id, b.user_id, b.gym_class_id, b.created_at
		FROM class_bookings b
		WHERE b.gym_class_id = $1
		ORDER BY b.created_at ASC`

	bookings := []Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, classID); err != nil {
		return nil, err
	}
	return bookings, nil
}
