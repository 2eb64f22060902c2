package dashboard

import "time"

type AdminStats struct {
	TotalMembers          int   `json:"total_members"`
	ActiveSubscriptions   int   `json:"active_subscriptions"`
	PendingTransactions   int   `json:"pending_transactions"`
	RevenueCents          int64 `json:"revenue_cents"`
	TodayCheckIns         int   `json:"today_check_ins"`
	CurrentlyInGym        int   `json:"currently_in_gym"`
	TotalClasses          int   `json:"total_classes"`
	BookingsThisWeek      int   `json:"bookings_this_week"`

	RecentActivity []Activity `json:"recent_activity"`
}

type StaffStats struct {
	TodayCheckIns  int        `json:"today_check_ins"`
	CurrentlyInGym int        `json:"currently_in_gym"`
	TotalMembers   int        `json:"total_members"`
	RecentActivity []Activity `json:"recent_activity"`
}

// Activity is one row in the recent-activity feed: a signup, a
// transaction, a subscription, a booking or a check-in, merged into
// one timeline.
type Activity struct {
	Type       string    `db:"type" json:"type"`
	UserName   string    `db:"user_name" json:"user_name"`
	Detail     string    `db:"detail" json:"detail"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
}
