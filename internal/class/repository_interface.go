package class

import "context"

type Repository interface {
	CreateClass(ctx context.Context, gc *GymClass) error
	UpdateClass(ctx context.Context, gc *GymClass) error
	DeleteClass(ctx context.Context, id int) error
	GetClass(ctx context.Context, id int) (*GymClass, error)
	ListClasses(ctx context.Context) ([]ClassWithAvailability, error)
	ListClassesForDays(ctx context.Context, days []string) ([]ClassWithAvailability, error)

	// Book inserts a booking while holding a row lock on the class, so
	// concurrent bookings for the last spot serialize and the capacity
	// limit holds.
	Book(ctx context.Context, userID, classID int) (*Booking, error)
	CancelBooking(ctx context.Context, id int) (*Booking, error)
	GetBooking(ctx context.Context, id int) (*Booking, error)
	ListUserBookings(ctx context.Context, userID int) ([]Booking, error)
	ListClassBookings(ctx context.Context, classID int) ([]Booking, error)
}
