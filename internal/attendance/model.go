package attendance

import "time"

// Attendance is one gym visit. CheckOut stays nil while the member is
// still in the building.
type Attendance struct {
	ID        int        `db:"id" json:"id"`
	UserID    int        `db:"user_id" json:"user_id"`
	CheckIn   time.Time  `db:"check_in" json:"check_in"`
	CheckOut  *time.Time `db:"check_out" json:"check_out,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`

	UserName string `db:"user_name" json:"user_name,omitempty"`
}

type Summary struct {
	TotalVisits  int          `json:"total_visits"`
	VisitsThis30 int          `json:"visits_last_30_days"`
	Streak       int          `json:"streak"`
	LastVisit    *time.Time   `json:"last_visit,omitempty"`
	CheckedIn    bool         `json:"checked_in"`
	Recent       []Attendance `json:"recent"`
}

type CheckInRequest struct {
	UserID int `json:"user_id" binding:"required"`
}
