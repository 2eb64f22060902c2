package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"gymdesk/internal/attendance"
	"gymdesk/internal/auth"
	"gymdesk/internal/class"
	"gymdesk/internal/config"
	"gymdesk/internal/dashboard"
	"gymdesk/internal/email"
	"gymdesk/internal/membership"
	"gymdesk/internal/plan"
	"gymdesk/internal/user"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
	http   *http.Server
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())

	userHandler := user.NewHandler(db, cfg.JWTSecret)
	planHandler := plan.NewHandler(db)
	membershipHandler := membership.NewHandler(db, emailService)
	classHandler := class.NewHandler(db, emailService)
	attendanceHandler := attendance.NewHandler(db)
	dashboardHandler := dashboard.NewHandler(db)

	public := router.Group("/auth")
	public.Use(RateLimitMiddleware(5, 10))
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.GET("/plans", planHandler.List)
		protected.GET("/plans/:id", planHandler.Get)

		protected.POST("/transactions", membershipHandler.Purchase)
		protected.GET("/transactions/my", membershipHandler.MyTransactions)
		protected.GET("/payments/my", membershipHandler.MyPayments)
		protected.GET("/subscriptions/my", membershipHandler.MySubscription)
		protected.GET("/subscriptions/my/history", membershipHandler.MySubscriptionHistory)
		protected.POST("/subscriptions/:id/cancel", membershipHandler.Cancel)

		protected.GET("/classes", classHandler.List)
		protected.GET("/classes/upcoming", classHandler.ListUpcoming)
		protected.GET("/classes/:id", classHandler.Get)
		protected.POST("/bookings", classHandler.Book)
		protected.GET("/bookings/my", classHandler.MyBookings)
		protected.DELETE("/bookings/:id", classHandler.Cancel)

		protected.POST("/attendance/check-in", attendanceHandler.CheckIn)
		protected.POST("/attendance/check-out", attendanceHandler.CheckOut)
		protected.GET("/attendance/my", attendanceHandler.History)
		protected.GET("/attendance/summary", attendanceHandler.Summary)
	}

	staffMiddleware := auth.RequireRole("admin", "staff")
	staff := router.Group("/staff")
	staff.Use(authMiddleware, staffMiddleware)
	{
		staff.GET("/dashboard", dashboardHandler.Staff)
		staff.GET("/members", userHandler.ListMembers)
		staff.POST("/subscriptions", membershipHandler.DirectPurchase)

		staff.POST("/classes", classHandler.Create)
		staff.PUT("/classes/:id", classHandler.Update)
		staff.DELETE("/classes/:id", classHandler.Delete)
		staff.GET("/classes/:id/bookings", classHandler.ClassBookings)

		staff.POST("/attendance/check-in", attendanceHandler.StaffCheckIn)
		staff.POST("/attendance/check-out", attendanceHandler.StaffCheckOut)
		staff.GET("/attendance/today", attendanceHandler.Today)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.GET("/dashboard", dashboardHandler.Admin)
		admin.GET("/transactions", membershipHandler.ListAll)
		admin.GET("/transactions/:id", membershipHandler.GetTransaction)
		admin.POST("/transactions/:id/decision", membershipHandler.Decide)
		admin.GET("/subscriptions", membershipHandler.ListSubscriptions)
		admin.GET("/payments", membershipHandler.ListPayments)
		admin.POST("/plans", planHandler.Create)
		admin.DELETE("/plans/:id", planHandler.Deactivate)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
