package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	TransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_transactions_total",
			Help: "Total number of purchase transactions by final status",
		},
		[]string{"status", "payment_method"},
	)

	SubscriptionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_subscriptions_created_total",
			Help: "Total number of subscriptions activated",
		},
		[]string{"plan"},
	)

	SubscriptionsCancelledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_subscriptions_cancelled_total",
			Help: "Total number of subscriptions cancelled",
		},
	)

	RevenueCentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_revenue_cents_total",
			Help: "Total revenue from completed payments, in cents",
		},
	)

	ClassBookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_class_bookings_total",
			Help: "Total number of class bookings",
		},
		[]string{"class"},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	CheckInsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_checkins_total",
			Help: "Total number of attendance check-ins",
		},
	)

	CheckOutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_checkouts_total",
			Help: "Total number of attendance check-outs",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymdesk_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordTransaction(status, paymentMethod string) {
	TransactionsTotal.WithLabelValues(status, paymentMethod).Inc()
}

func RecordSubscription(plan string) {
	SubscriptionsCreatedTotal.WithLabelValues(plan).Inc()
}

func RecordSubscriptionCancellation() {
	SubscriptionsCancelledTotal.Inc()
}

func RecordRevenue(amountCents int64) {
	if amountCents > 0 {
		RevenueCentsTotal.Add(float64(amountCents))
	}
}

func RecordClassBooking(class string) {
	ClassBookingsTotal.WithLabelValues(class).Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordCheckIn() {
	CheckInsTotal.Inc()
}

func RecordCheckOut() {
	CheckOutsTotal.Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
