package class

import (
	"context"
	"errors"
	"time"

	"gymdesk/internal/auth"
	"gymdesk/internal/email"
	"gymdesk/internal/membership"
	"gymdesk/internal/metrics"
	"gymdesk/internal/user"
)

var (
	ErrNoMembership = errors.New("an active membership is required to book classes")
	ErrNotOwner     = errors.New("booking belongs to another member")
)

type Service interface {
	CreateClass(ctx context.Context, req CreateClassRequest) (*GymClass, error)
	UpdateClass(ctx context.Context, id int, req CreateClassRequest) (*GymClass, error)
	DeleteClass(ctx context.Context, id int) error
	GetClass(ctx context.Context, id int) (*GymClass, error)
	ListClasses(ctx context.Context) ([]ClassWithAvailability, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]ClassWithAvailability, error)

	Book(ctx context.Context, userID, classID int) (*Booking, error)
	CancelBooking(ctx context.Context, actorID int, actorRole string, bookingID int) error
	ListUserBookings(ctx context.Context, userID int) ([]Booking, error)
	ListClassBookings(ctx context.Context, classID int) ([]Booking, error)
}

type service struct {
	repo           Repository
	membershipRepo membership.Repository
	userRepo       user.Repository
	emailService   *email.Service
}

func NewService(repo Repository, membershipRepo membership.Repository, userRepo user.Repository, emailService *email.Service) Service {
	return &service{
		repo:           repo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		emailService:   emailService,
	}
}

func (s *service) CreateClass(ctx context.Context, req CreateClassRequest) (*GymClass, error) {
	gc := &GymClass{
		Name:        req.Name,
		Description: req.Description,
		Instructor:  req.Instructor,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Capacity:    req.Capacity,
	}
	if err := s.repo.CreateClass(ctx, gc); err != nil {
		return nil, err
	}
	return gc, nil
}

func (s *service) UpdateClass(ctx context.Context, id int, req CreateClassRequest) (*GymClass, error) {
	gc := &GymClass{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Instructor:  req.Instructor,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Capacity:    req.Capacity,
	}
	if err := s.repo.UpdateClass(ctx, gc); err != nil {
		return nil, err
	}
	return gc, nil
}

func (s *service) DeleteClass(ctx context.Context, id int) error {
	return s.repo.DeleteClass(ctx, id)
}

func (s *service) GetClass(ctx context.Context, id int) (*GymClass, error) {
	return s.repo.GetClass(ctx, id)
}

func (s *service) ListClasses(ctx context.Context) ([]ClassWithAvailability, error) {
	return s.repo.ListClasses(ctx)
}

// ListUpcoming returns classes scheduled on today or the following two
// weekdays.
func (s *service) ListUpcoming(ctx context.Context, now time.Time) ([]ClassWithAvailability, error) {
	days := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		days = append(days, now.AddDate(0, 0, i).Weekday().String())
	}
	return s.repo.ListClassesForDays(ctx, days)
}

// Book reserves a spot for the member. Booking requires an active
// membership; seats are club perks, not standalone purchases.
func (s *service) Book(ctx context.Context, userID, classID int) (*Booking, error) {
	sub, err := s.membershipRepo.GetActiveSubscription(ctx, userID)
	if err != nil {
		if errors.Is(err, membership.ErrNoActiveSubscription) {
			return nil, ErrNoMembership
		}
		return nil, err
	}
	if !sub.IsCurrentlyUsable(time.Now()) {
		return nil, ErrNoMembership
	}

	b, err := s.repo.Book(ctx, userID, classID)
	if err != nil {
		return nil, err
	}

	metrics.RecordClassBooking(b.ClassName)

	if u, err := s.userRepo.FindByID(ctx, userID); err == nil {
		gc := GymClass{DayOfWeek: b.DayOfWeek, StartTime: b.StartTime, EndTime: b.EndTime}
		s.emailService.SendBookingConfirmation(ctx, u.Email, u.Name, b.ClassName, b.Instructor, gc.Schedule())
	}

	return b, nil
}

func (s *service) CancelBooking(ctx context.Context, actorID int, actorRole string, bookingID int) error {
	b, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if actorRole == auth.RoleMember && b.UserID != actorID {
		return ErrNotOwner
	}

	if _, err := s.repo.CancelBooking(ctx, bookingID); err != nil {
		return err
	}

	metrics.RecordBookingCancellation()

	if u, err := s.userRepo.FindByID(ctx, b.UserID); err == nil {
		s.emailService.SendBookingCancellation(ctx, u.Email, u.Name, b.ClassName)
	}
	return nil
}

func (s *service) ListUserBookings(ctx context.Context, userID int) ([]Booking, error) {
	return s.repo.ListUserBookings(ctx, userID)
}

func (s *service) ListClassBookings(ctx context.Context, classID int) ([]Booking, error) {
	return s.repo.ListClassBookings(ctx, classID)
}
