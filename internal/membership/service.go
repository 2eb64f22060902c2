package membership

import (
	"context"
	"errors"

	"gymdesk/internal/auth"
	"gymdesk/internal/email"
	"gymdesk/internal/metrics"
	"gymdesk/internal/plan"
	"gymdesk/internal/user"
)

var (
	ErrPlanInactive         = errors.New("plan is not available for purchase")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrNotAdmin             = errors.New("only admins can decide transactions")
	ErrNotOwner             = errors.New("subscription belongs to another member")
)

type Service interface {
	Purchase(ctx context.Context, userID int, req PurchaseRequest) (*Transaction, error)
	DirectPurchase(ctx context.Context, userID, planID int, paymentMethod string) (*Subscription, error)
	Decide(ctx context.Context, actorID int, actorRole string, txID int, approve bool) (*Transaction, error)
	GetTransaction(ctx context.Context, id int) (*Transaction, error)
	ListTransactions(ctx context.Context, status string) ([]Transaction, error)
	ListUserTransactions(ctx context.Context, userID int) ([]Transaction, error)
	ActiveSubscription(ctx context.Context, userID int) (*Subscription, error)
	ListUserSubscriptions(ctx context.Context, userID int) ([]Subscription, error)
	ListSubscriptions(ctx context.Context, status string) ([]Subscription, error)
	CancelSubscription(ctx context.Context, actorID int, actorRole string, subID int) error
	ListPayments(ctx context.Context) ([]Payment, error)
	ListUserPayments(ctx context.Context, userID int) ([]Payment, error)
}

type service struct {
	repo         Repository
	planRepo     plan.Repository
	userRepo     user.Repository
	emailService *email.Service
}

func NewService(repo Repository, planRepo plan.Repository, userRepo user.Repository, emailService *email.Service) Service {
	return &service{
		repo:         repo,
		planRepo:     planRepo,
		userRepo:     userRepo,
		emailService: emailService,
	}
}

func validMethod(m string) bool {
	return m == PaymentMethodCreditCard || m == PaymentMethodBankTransfer
}

// Purchase opens a pending transaction for the plan at its current
// price. The membership does not activate until an admin approves it.
func (s *service) Purchase(ctx context.Context, userID int, req PurchaseRequest) (*Transaction, error) {
	if !validMethod(req.PaymentMethod) {
		return nil, ErrInvalidPaymentMethod
	}

	p, err := s.planRepo.GetByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrPlanInactive
	}

	t := &Transaction{
		UserID:        userID,
		PlanID:        p.ID,
		AmountCents:   p.PriceCents,
		PaymentMethod: req.PaymentMethod,
	}
	if err := s.repo.CreateTransaction(ctx, t); err != nil {
		return nil, err
	}
	t.PlanName = p.Name

	metrics.RecordTransaction(TransactionPending, t.PaymentMethod)

	if u, err := s.userRepo.FindByID(ctx, userID); err == nil {
		s.emailService.SendTransactionReceived(ctx, u.Email, u.Name, p.Name, t.AmountCents)
	}

	return t, nil
}

// DirectPurchase activates a membership immediately, used by staff at
// the front desk where payment is taken on the spot.
func (s *service) DirectPurchase(ctx context.Context, userID, planID int, paymentMethod string) (*Subscription, error) {
	if paymentMethod == "" {
		paymentMethod = PaymentMethodCreditCard
	}
	if !validMethod(paymentMethod) {
		return nil, ErrInvalidPaymentMethod
	}

	p, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrPlanInactive
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	sub, err := s.repo.ActivateDirect(ctx, userID, p, paymentMethod)
	if err != nil {
		return nil, err
	}

	metrics.RecordTransaction(TransactionApproved, paymentMethod)
	metrics.RecordSubscription(p.Name)
	metrics.RecordRevenue(p.PriceCents)

	if u, err := s.userRepo.FindByID(ctx, userID); err == nil {
		s.emailService.SendSubscriptionActivated(ctx, u.Email, u.Name, p.Name, sub.EndDate)
	}

	return sub, nil
}

// Decide approves or rejects a pending transaction. Approval activates
// the membership atomically with the status flip; a transaction can be
// decided exactly once.
func (s *service) Decide(ctx context.Context, actorID int, actorRole string, txID int, approve bool) (*Transaction, error) {
	if actorRole != auth.RoleAdmin {
		return nil, ErrNotAdmin
	}

	if approve {
		sub, err := s.repo.ApproveTransaction(ctx, txID, actorID)
		if err != nil {
			return nil, err
		}

		t, err := s.repo.GetTransaction(ctx, txID)
		if err != nil {
			return nil, err
		}

		metrics.RecordTransaction(TransactionApproved, t.PaymentMethod)
		metrics.RecordSubscription(t.PlanName)
		metrics.RecordRevenue(t.AmountCents)

		if u, err := s.userRepo.FindByID(ctx, t.UserID); err == nil {
			s.emailService.SendSubscriptionActivated(ctx, u.Email, u.Name, t.PlanName, sub.EndDate)
		}
		return t, nil
	}

	if err := s.repo.RejectTransaction(ctx, txID, actorID); err != nil {
		return nil, err
	}

	t, err := s.repo.GetTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}

	metrics.RecordTransaction(TransactionRejected, t.PaymentMethod)

	if u, err := s.userRepo.FindByID(ctx, t.UserID); err == nil {
		s.emailService.SendTransactionRejected(ctx, u.Email, u.Name, t.PlanName)
	}
	return t, nil
}

func (s *service) GetTransaction(ctx context.Context, id int) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *service) ListTransactions(ctx context.Context, status string) ([]Transaction, error) {
	return s.repo.ListTransactions(ctx, status)
}

func (s *service) ListUserTransactions(ctx context.Context, userID int) ([]Transaction, error) {
	return s.repo.ListUserTransactions(ctx, userID)
}

func (s *service) ActiveSubscription(ctx context.Context, userID int) (*Subscription, error) {
	return s.repo.GetActiveSubscription(ctx, userID)
}

func (s *service) ListUserSubscriptions(ctx context.Context, userID int) ([]Subscription, error) {
	return s.repo.ListUserSubscriptions(ctx, userID)
}

func (s *service) ListSubscriptions(ctx context.Context, status string) ([]Subscription, error) {
	return s.repo.ListSubscriptions(ctx, status)
}

// CancelSubscription cancels an active subscription. Members may only
// cancel their own; admins may cancel any.
func (s *service) CancelSubscription(ctx context.Context, actorID int, actorRole string, subID int) error {
	sub, err := s.repo.GetSubscription(ctx, subID)
	if err != nil {
		return err
	}

	if actorRole != auth.RoleAdmin && sub.UserID != actorID {
		return ErrNotOwner
	}

	if err := s.repo.CancelSubscription(ctx, subID); err != nil {
		return err
	}

	metrics.RecordSubscriptionCancellation()
	return nil
}

func (s *service) ListPayments(ctx context.Context) ([]Payment, error) {
	return s.repo.ListPayments(ctx)
}

func (s *service) ListUserPayments(ctx context.Context, userID int) ([]Payment, error) {
	return s.repo.ListUserPayments(ctx, userID)
}
