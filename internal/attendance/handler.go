package attendance

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"gymdesk/internal/auth"
	"gymdesk/internal/logger"
	"gymdesk/internal/membership"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB) *Handler {
	repo := NewRepository(db)
	membershipRepo := membership.NewRepository(db)
	return &Handler{service: NewService(repo, membershipRepo)}
}

func (h *Handler) respondCheckInErr(c *gin.Context, userID int, err error) {
	switch {
	case errors.Is(err, ErrNoMembership):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrAlreadyCheckedIn):
		c.JSON(http.StatusConflict, gin.H{"error": "already checked in"})
	default:
		logger.Errorf("check-in failed for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "check-in failed"})
	}
}

// CheckIn godoc
// @Summary      Check myself in
// @Description  Opens a visit record. Requires an active membership; fails if a visit is already open.
// @Tags         attendance
// @Produce      json
// @Success      201  {object}  Attendance
// @Failure      403  {object}  gin.H
// @Failure      409  {object}  gin.H
// @Security     BearerAuth
// @Router       /attendance/check-in [post]
func (h *Handler) CheckIn(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	a, err := h.service.CheckIn(c.Request.Context(), userID)
	if err != nil {
		h.respondCheckInErr(c, userID, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// CheckOut godoc
// @Summary      Check myself out
// @Tags         attendance
// @Produce      json
// @Success      200  {object}  Attendance
// @Failure      409  {object}  gin.H
// @Security     BearerAuth
// @Router       /attendance/check-out [post]
func (h *Handler) CheckOut(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	a, err := h.service.CheckOut(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNoOpenCheckIn) {
			c.JSON(http.StatusConflict, gin.H{"error": "no open check-in"})
			return
		}
		logger.Errorf("check-out failed for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "check-out failed"})
		return
	}
	c.JSON(http.StatusOK, a)
}

// StaffCheckIn godoc
// @Summary      Check a member in at the front desk
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        check-in body CheckInRequest true "Member to check in"
// @Success      201  {object}  Attendance
// @Failure      403  {object}  gin.H
// @Failure      409  {object}  gin.H
// @Security     BearerAuth
// @Router       /staff/attendance/check-in [post]
func (h *Handler) StaffCheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.service.CheckIn(c.Request.Context(), req.UserID)
	if err != nil {
		h.respondCheckInErr(c, req.UserID, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// StaffCheckOut godoc
// @Summary      Check a member out at the front desk
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        check-out body CheckInRequest true "Member to check out"
// @Success      200  {object}  Attendance
// @Failure      409  {object}  gin.H
// @Security     BearerAuth
// @Router       /staff/attendance/check-out [post]
func (h *Handler) StaffCheckOut(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.service.CheckOut(c.Request.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, ErrNoOpenCheckIn) {
			c.JSON(http.StatusConflict, gin.H{"error": "no open check-in"})
			return
		}
		logger.Errorf("check-out failed for user %d: %v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "check-out failed"})
		return
	}
	c.JSON(http.StatusOK, a)
}

// History godoc
// @Summary      List my visits
// @Tags         attendance
// @Produce      json
// @Param        limit query int false "Max records (default 50)"
// @Success      200  {array}  Attendance
// @Security     BearerAuth
// @Router       /attendance/my [get]
func (h *Handler) History(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	visits, err := h.service.History(c.Request.Context(), userID, limit)
	if err != nil {
		logger.Errorf("failed to list visits for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list visits"})
		return
	}
	c.JSON(http.StatusOK, visits)
}

// Summary godoc
// @Summary      My attendance summary
// @Description  Visit counts, current check-in state and the consecutive-day streak.
// @Tags         attendance
// @Produce      json
// @Success      200  {object}  Summary
// @Security     BearerAuth
// @Router       /attendance/summary [get]
func (h *Handler) Summary(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), userID)
	if err != nil {
		logger.Errorf("failed to build summary for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Today godoc
// @Summary      List today's visits
// @Tags         attendance
// @Produce      json
// @Success      200  {array}  Attendance
// @Security     BearerAuth
// @Router       /staff/attendance/today [get]
func (h *Handler) Today(c *gin.Context) {
	visits, err := h.service.ListToday(c.Request.Context())
	if err != nil {
		logger.Errorf("failed to list today's visits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list visits"})
		return
	}
	c.JSON(http.StatusOK, visits)
}
