package dashboard

import (
	"net/http"

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

// Admin godoc
// @Summary      Admin dashboard
// @Description  Headline numbers for the whole club: members, subscriptions, revenue and a recent-activity feed.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  AdminStats
// @Failure      500  {object}  gin.H
// @Security     BearerAuth
// @Router       /admin/dashboard [get]
func (h *Handler) Admin(c *gin.Context) {
	ctx := c.Request.Context()
	stats := AdminStats{}

	var err error
	if stats.TotalMembers, err = h.repo.CountMembers(ctx); err != nil {
		h.fail(c, err)
		return
	}
	if stats.ActiveSubscriptions, err = h.repo.CountActiveSubscriptions(ctx); err != nil {
		h.fail(c, err)
		return
	}
	if stats.PendingTransactions, err = h.repo.CountPendingTransactions(ctx); err != nil {
		h.fail(c, err)
		return
	}
	if stats.RevenueCents, err = h.repo.RevenueCents(ctx); err != nil {
		h.fail(c, err)
		return
	}
	if stats.TodayCheckIns, err = h.repo.CountTodayCheckIns(ctx); err != nil {
		h.fail(c, err)
		return
	}
	if stats.CurrentlyInGym, err = h.repo.CountCurrentlyInGym(ctx); err != nil {
		h.fail(c, err)
		return
	}
	if stats.TotalClasses, err = h.repo.CountClasses(ctx); err != nil {
		h.fail(c, err)
		return
	}
	if stats.BookingsThisWeek, err = h.repo.CountBookingsSince(ctx, 7); err != nil {
		h.fail(c, err)
		return
	}
	if stats.RecentActivity, err = h.repo.RecentActivity(ctx, 20); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Staff godoc
// @Summary      Staff dashboard
// @Description  Front-desk view: who is in the gym and today's traffic.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  StaffStats
// @Failure      500  {object}  gin.H
// @Security     BearerAuth
// @Router       /staff/dashboard [get]
func (h *Handler) Staff(c *gin.Context) {
	ctx := c.Request.Context()
	stats := StaffStats{}

	var err error
	if stats.TodayCheckIns, err = h.repo.CountTodayCheckIns(ctx); err != nil {
		h.fail(c, err)
		return
	}
	if stats.CurrentlyInGym, err = h.repo.CountCurrentlyInGym(ctx); err != nil {
		h.fail(c, err)
		return
	}
	if stats.TotalMembers, err = h.repo.CountMembers(ctx); err != nil {
		h.fail(c, err)
		return
	}
	if stats.RecentActivity, err = h.repo.RecentActivity(ctx, 10); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) fail(c *gin.Context, err error) {
	logger.Errorf("failed to build dashboard: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard"})
}
