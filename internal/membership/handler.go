package membership

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"gymdesk/internal/auth"
	"gymdesk/internal/email"
	"gymdesk/internal/logger"
	"gymdesk/internal/plan"
	"gymdesk/internal/user"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB, emailService *email.Service) *Handler {
	repo := NewRepository(db)
	planRepo := plan.NewRepository(db)
	userRepo := user.NewRepository(db)
	return &Handler{service: NewService(repo, planRepo, userRepo, emailService)}
}

// Purchase godoc
// @Summary      Purchase a membership plan
// @Description  Creates a pending transaction at the plan's current price. An admin must approve it before the membership activates.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        purchase body PurchaseRequest true "Plan and payment method"
// @Success      201  {object}  Transaction
// @Failure      400  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Security     BearerAuth
// @Router       /transactions [post]
func (h *Handler) Purchase(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.service.Purchase(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, plan.ErrPlanNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		case errors.Is(err, ErrPlanInactive), errors.Is(err, ErrInvalidPaymentMethod):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Errorf("failed to create transaction: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create transaction"})
		}
		return
	}

	c.JSON(http.StatusCreated, t)
}

// MyTransactions godoc
// @Summary      List my transactions
// @Tags         transactions
// @Produce      json
// @Success      200  {array}  Transaction
// @Security     BearerAuth
// @Router       /transactions/my [get]
func (h *Handler) MyTransactions(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	txs, err := h.service.ListUserTransactions(c.Request.Context(), userID)
	if err != nil {
		logger.Errorf("failed to list transactions for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list transactions"})
		return
	}
	c.JSON(http.StatusOK, txs)
}

// ListAll godoc
// @Summary      List all transactions
// @Description  Admin view of every transaction, optionally filtered by status.
// @Tags         transactions
// @Produce      json
// @Param        status query string false "pending, approved or rejected"
// @Success      200  {array}  Transaction
// @Security     BearerAuth
// @Router       /admin/transactions [get]
func (h *Handler) ListAll(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != TransactionPending && status != TransactionApproved && status != TransactionRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}

	txs, err := h.service.ListTransactions(c.Request.Context(), status)
	if err != nil {
		logger.Errorf("failed to list transactions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list transactions"})
		return
	}
	c.JSON(http.StatusOK, txs)
}

// ListSubscriptions godoc
// @Summary      List all subscriptions
// @Tags         subscriptions
// @Produce      json
// @Param        status query string false "Filter by status" Enums(active, expired, cancelled)
// @Success      200  {array}  Subscription
// @Security     BearerAuth
// @Router       /admin/subscriptions [get]
func (h *Handler) ListSubscriptions(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != SubscriptionActive && status != SubscriptionExpired && status != SubscriptionCancelled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}

	subs, err := h.service.ListSubscriptions(c.Request.Context(), status)
	if err != nil {
		logger.Errorf("failed to list subscriptions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list subscriptions"})
		return
	}
	c.JSON(http.StatusOK, subs)
}

// GetTransaction godoc
// @Summary      Get a transaction
// @Tags         transactions
// @Produce      json
// @Param        id path int true "Transaction ID"
// @Success      200  {object}  Transaction
// @Failure      404  {object}  gin.H
// @Security     BearerAuth
// @Router       /admin/transactions/{id} [get]
func (h *Handler) GetTransaction(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	t, err := h.service.GetTransaction(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
			return
		}
		logger.Errorf("failed to get transaction %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get transaction"})
		return
	}
	c.JSON(http.StatusOK, t)
}

// Decide godoc
// @Summary      Approve or reject a pending transaction
// @Description  Approving activates the member's subscription and records the payment in one step. A transaction can only be decided once.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id path int true "Transaction ID"
// @Param        decision body DecisionRequest true "Approve or reject"
// @Success      200  {object}  Transaction
// @Failure      403  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Failure      409  {object}  gin.H
// @Security     BearerAuth
// @Router       /admin/transactions/{id}/decision [post]
func (h *Handler) Decide(c *gin.Context) {
	actorID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, _ := auth.GetUserRole(c)
	t, err := h.service.Decide(c.Request.Context(), actorID, role, id, *req.Approve)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotAdmin):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, ErrTransactionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		case errors.Is(err, ErrTransactionDecided):
			c.JSON(http.StatusConflict, gin.H{"error": "transaction already decided"})
		default:
			logger.Errorf("failed to decide transaction %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to decide transaction"})
		}
		return
	}

	c.JSON(http.StatusOK, t)
}

// DirectPurchase godoc
// @Summary      Activate a membership immediately
// @Description  Front-desk purchase: records an already-approved transaction, activates the subscription and records the completed payment, skipping the approval queue.
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Param        purchase body CreateSubscriptionRequest true "Member and plan"
// @Success      201  {object}  Subscription
// @Failure      404  {object}  gin.H
// @Security     BearerAuth
// @Router       /staff/subscriptions [post]
func (h *Handler) DirectPurchase(c *gin.Context) {
	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.service.DirectPurchase(c.Request.Context(), req.UserID, req.PlanID, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, plan.ErrPlanNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		case errors.Is(err, user.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, ErrPlanInactive):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Errorf("failed to activate subscription: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to activate subscription"})
		}
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// MySubscription godoc
// @Summary      Get my active subscription
// @Tags         subscriptions
// @Produce      json
// @Success      200  {object}  Subscription
// @Failure      404  {object}  gin.H
// @Security     BearerAuth
// @Router       /subscriptions/my [get]
func (h *Handler) MySubscription(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sub, err := h.service.ActiveSubscription(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNoActiveSubscription) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active subscription"})
			return
		}
		logger.Errorf("failed to get subscription for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get subscription"})
		return
	}
	c.JSON(http.StatusOK, sub)
}

// MySubscriptionHistory godoc
// @Summary      List my subscription history
// @Tags         subscriptions
// @Produce      json
// @Success      200  {array}  Subscription
// @Security     BearerAuth
// @Router       /subscriptions/my/history [get]
func (h *Handler) MySubscriptionHistory(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	subs, err := h.service.ListUserSubscriptions(c.Request.Context(), userID)
	if err != nil {
		logger.Errorf("failed to list subscriptions for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list subscriptions"})
		return
	}
	c.JSON(http.StatusOK, subs)
}

// Cancel godoc
// @Summary      Cancel a subscription
// @Description  Cancels an active subscription. Members may only cancel their own.
// @Tags         subscriptions
// @Produce      json
// @Param        id path int true "Subscription ID"
// @Success      200  {object}  api.MessageResponse
// @Failure      403  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Failure      409  {object}  gin.H
// @Security     BearerAuth
// @Router       /subscriptions/{id}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	actorID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscription id"})
		return
	}

	role, _ := auth.GetUserRole(c)
	err = h.service.CancelSubscription(c.Request.Context(), actorID, role, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrSubscriptionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNotActive):
			c.JSON(http.StatusConflict, gin.H{"error": "subscription is not active"})
		default:
			logger.Errorf("failed to cancel subscription %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel subscription"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "subscription cancelled"})
}

// ListPayments godoc
// @Summary      List all payments
// @Tags         payments
// @Produce      json
// @Success      200  {array}  Payment
// @Security     BearerAuth
// @Router       /admin/payments [get]
func (h *Handler) ListPayments(c *gin.Context) {
	payments, err := h.service.ListPayments(c.Request.Context())
	if err != nil {
		logger.Errorf("failed to list payments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list payments"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

// MyPayments godoc
// @Summary      List my payments
// @Tags         payments
// @Produce      json
// @Success      200  {array}  Payment
// @Security     BearerAuth
// @Router       /payments/my [get]
func (h *Handler) MyPayments(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	payments, err := h.service.ListUserPayments(c.Request.Context(), userID)
	if err != nil {
		logger.Errorf("failed to list payments for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list payments"})
		return
	}
	c.JSON(http.StatusOK, payments)
}
