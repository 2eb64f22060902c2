package class

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"gymdesk/internal/auth"
	"gymdesk/internal/email"
	"gymdesk/internal/logger"
	"gymdesk/internal/membership"
	"gymdesk/internal/user"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB, emailService *email.Service) *Handler {
	repo := NewRepository(db)
	membershipRepo := membership.NewRepository(db)
	userRepo := user.NewRepository(db)
	return &Handler{service: NewService(repo, membershipRepo, userRepo, emailService)}
}

// List godoc
// @Summary      List classes with availability
// @Tags         classes
// @Produce      json
// @Success      200  {array}  ClassWithAvailability
// @Security     BearerAuth
// @Router       /classes [get]
func (h *Handler) List(c *gin.Context) {
	classes, err := h.service.ListClasses(c.Request.Context())
	if err != nil {
		logger.Errorf("failed to list classes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list classes"})
		return
	}
	c.JSON(http.StatusOK, classes)
}

// ListUpcoming godoc
// @Summary      List classes over the next three days
// @Tags         classes
// @Produce      json
// @Success      200  {array}  ClassWithAvailability
// @Security     BearerAuth
// @Router       /classes/upcoming [get]
func (h *Handler) ListUpcoming(c *gin.Context) {
	classes, err := h.service.ListUpcoming(c.Request.Context(), time.Now())
	if err != nil {
		logger.Errorf("failed to list upcoming classes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list classes"})
		return
	}
	c.JSON(http.StatusOK, classes)
}

// Get godoc
// @Summary      Get a class
// @Tags         classes
// @Produce      json
// @Param        id path int true "Class ID"
// @Success      200  {object}  GymClass
// @Failure      404  {object}  gin.H
// @Security     BearerAuth
// @Router       /classes/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid class id"})
		return
	}

	gc, err := h.service.GetClass(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrClassNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "class not found"})
			return
		}
		logger.Errorf("failed to get class %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get class"})
		return
	}
	c.JSON(http.StatusOK, gc)
}

// Create godoc
// @Summary      Create a class
// @Tags         classes
// @Accept       json
// @Produce      json
// @Param        class body CreateClassRequest true "Class details"
// @Success      201  {object}  GymClass
// @Failure      400  {object}  gin.H
// @Security     BearerAuth
// @Router       /staff/classes [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gc, err := h.service.CreateClass(c.Request.Context(), req)
	if err != nil {
		logger.Errorf("failed to create class: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create class"})
		return
	}
	c.JSON(http.StatusCreated, gc)
}

// Update godoc
// @Summary      Update a class
// @Tags         classes
// @Accept       json
// @Produce      json
// @Param        id path int true "Class ID"
// @Param        class body CreateClassRequest true "Class details"
// @Success      200  {object}  GymClass
// @Failure      404  {object}  gin.H
// @Security     BearerAuth
// @Router       /staff/classes/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid class id"})
		return
	}

	var req CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gc, err := h.service.UpdateClass(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrClassNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "class not found"})
			return
		}
		logger.Errorf("failed to update class %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update class"})
		return
	}
	c.JSON(http.StatusOK, gc)
}

// Delete godoc
// @Summary      Delete a class
// @Tags         classes
// @Produce      json
// @Param        id path int true "Class ID"
// @Success      200  {object}  api.MessageResponse
// @Failure      404  {object}  gin.H
// @Security     BearerAuth
// @Router       /staff/classes/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid class id"})
		return
	}

	if err := h.service.DeleteClass(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrClassNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "class not found"})
			return
		}
		logger.Errorf("failed to delete class %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete class"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "class deleted"})
}

// Book godoc
// @Summary      Book a spot in a class
// @Description  Requires an active membership. A member holds at most one booking per class and the class capacity is never exceeded.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        booking body BookRequest true "Class to book"
// @Success      201  {object}  Booking
// @Failure      403  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Failure      409  {object}  gin.H
// @Security     BearerAuth
// @Router       /bookings [post]
func (h *Handler) Book(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.Book(c.Request.Context(), userID, req.GymClassID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoMembership):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, ErrClassNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "class not found"})
		case errors.Is(err, ErrClassFull):
			c.JSON(http.StatusConflict, gin.H{"error": "class is full"})
		case errors.Is(err, ErrAlreadyBooked):
			c.JSON(http.StatusConflict, gin.H{"error": "already booked for this class"})
		default:
			logger.Errorf("failed to book class %d for user %d: %v", req.GymClassID, userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to book class"})
		}
		return
	}

	c.JSON(http.StatusCreated, b)
}

// Cancel godoc
// @Summary      Cancel a booking
// @Description  Frees the spot for other members. Members may only cancel their own bookings.
// @Tags         bookings
// @Produce      json
// @Param        id path int true "Booking ID"
// @Success      200  {object}  api.MessageResponse
// @Failure      403  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Security     BearerAuth
// @Router       /bookings/{id} [delete]
func (h *Handler) Cancel(c *gin.Context) {
	actorID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	role, _ := auth.GetUserRole(c)
	if err := h.service.CancelBooking(c.Request.Context(), actorID, role, id); err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Errorf("failed to cancel booking %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel booking"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled"})
}

// MyBookings godoc
// @Summary      List my bookings
// @Tags         bookings
// @Produce      json
// @Success      200  {array}  Booking
// @Security     BearerAuth
// @Router       /bookings/my [get]
func (h *Handler) MyBookings(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookings, err := h.service.ListUserBookings(c.Request.Context(), userID)
	if err != nil {
		logger.Errorf("failed to list bookings for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// ClassBookings godoc
// @Summary      List bookings for a class
// @Tags         bookings
// @Produce      json
// @Param        id path int true "Class ID"
// @Success      200  {array}  Booking
// @Security     BearerAuth
// @Router       /staff/classes/{id}/bookings [get]
func (h *Handler) ClassBookings(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid class id"})
		return
	}

	bookings, err := h.service.ListClassBookings(c.Request.Context(), id)
	if err != nil {
		logger.Errorf("failed to list bookings for class %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}
	c.JSON(http.StatusOK, bookings)
}
