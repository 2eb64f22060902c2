package attendance

import (
	"context"
	"errors"
	"time"

	"gymdesk/internal/membership"
	"gymdesk/internal/metrics"
)

var ErrNoMembership = errors.New("an active membership is required to check in")

type Service interface {
	CheckIn(ctx context.Context, userID int) (*Attendance, error)
	CheckOut(ctx context.Context, userID int) (*Attendance, error)
	History(ctx context.Context, userID, limit int) ([]Attendance, error)
	Summary(ctx context.Context, userID int) (*Summary, error)
	ListToday(ctx context.Context) ([]Attendance, error)
}

type service struct {
	repo           Repository
	membershipRepo membership.Repository
}

func NewService(repo Repository, membershipRepo membership.Repository) Service {
	return &service{repo: repo, membershipRepo: membershipRepo}
}

func (s *service) CheckIn(ctx context.Context, userID int) (*Attendance, error) {
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

	a, err := s.repo.CheckIn(ctx, userID)
	if err != nil {
		return nil, err
	}

	metrics.RecordCheckIn()
	return a, nil
}

func (s *service) CheckOut(ctx context.Context, userID int) (*Attendance, error) {
	a, err := s.repo.CheckOut(ctx, userID)
	if err != nil {
		return nil, err
	}

	metrics.RecordCheckOut()
	return a, nil
}

func (s *service) History(ctx context.Context, userID, limit int) ([]Attendance, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *service) Summary(ctx context.Context, userID int) (*Summary, error) {
	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	last30, err := s.repo.CountByUserSince(ctx, userID, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	visits, err := s.repo.VisitDays(ctx, userID)
	if err != nil {
		return nil, err
	}

	checkedIn, err := s.repo.HasOpen(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.ListByUser(ctx, userID, 10)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		TotalVisits:  total,
		VisitsThis30: last30,
		Streak:       Streak(visits, time.Local),
		CheckedIn:    checkedIn,
		Recent:       recent,
	}
	if len(recent) > 0 {
		summary.LastVisit = &recent[0].CheckIn
	}
	return summary, nil
}

func (s *service) ListToday(ctx context.Context) ([]Attendance, error) {
	return s.repo.ListToday(ctx)
}
