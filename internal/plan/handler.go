package plan

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"gymdesk/internal/logger"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// List godoc
// @Summary List membership plans
// @Description Returns active membership plans. Admins may pass include_inactive=true to see retired plans.
// @Tags plans
// @Produce json
// @Param include_inactive query bool false "Include deactivated plans (admin only)"
// @Success 200 {array} Plan
// @Failure 500 {object} api.ErrorResponse
// @Security BearerAuth
// @Router /plans [get]
func (h *Handler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true" && c.GetString("user_role") == "admin"

	plans, err := h.repo.GetAll(c.Request.Context(), !includeInactive)
	if err != nil {
		logger.Errorf("failed to list plans: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list plans"})
		return
	}
	c.JSON(http.StatusOK, plans)
}

// Get godoc
// @Summary Get a membership plan
// @Tags plans
// @Produce json
// @Param id path int true "Plan ID"
// @Success 200 {object} Plan
// @Failure 404 {object} api.ErrorResponse
// @Security BearerAuth
// @Router /plans/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}

	p, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
			return
		}
		logger.Errorf("failed to get plan %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get plan"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// Create godoc
// @Summary Create a membership plan
// @Tags plans
// @Accept json
// @Produce json
// @Param plan body CreatePlanRequest true "Plan details"
// @Success 201 {object} Plan
// @Failure 400 {object} api.ErrorResponse
// @Security BearerAuth
// @Router /admin/plans [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := &Plan{
		Name:         req.Name,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		DurationDays: req.DurationDays,
		IsActive:     true,
	}
	if err := h.repo.Create(c.Request.Context(), p); err != nil {
		logger.Errorf("failed to create plan: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create plan"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Deactivate godoc
// @Summary Deactivate a membership plan
// @Description Retires a plan from sale. Existing subscriptions are unaffected.
// @Tags plans
// @Produce json
// @Param id path int true "Plan ID"
// @Success 200 {object} api.MessageResponse
// @Failure 404 {object} api.ErrorResponse
// @Security BearerAuth
// @Router /admin/plans/{id} [delete]
func (h *Handler) Deactivate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}

	if err := h.repo.Deactivate(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
			return
		}
		logger.Errorf("failed to deactivate plan %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate plan"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "plan deactivated"})
}
