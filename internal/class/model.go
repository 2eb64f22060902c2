package class

import "time"

// GymClass is a weekly recurring class slot, e.g. Yoga every Tuesday
// from 10:00 to 11:00 with room for 20 members.
type GymClass struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Instructor  string    `db:"instructor" json:"instructor"`
	DayOfWeek   string    `db:"day_of_week" json:"day_of_week"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	Capacity    int       `db:"capacity" json:"capacity"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Schedule renders the human-readable slot, "Tuesday 10:00-11:00".
func (g *GymClass) Schedule() string {
	return g.DayOfWeek + " " + g.StartTime + "-" + g.EndTime
}

type ClassWithAvailability struct {
	GymClass
	BookedCount    int `db:"booked_count" json:"booked_count"`
	AvailableSpots int `db:"available_spots" json:"available_spots"`
}

type Booking struct {
	ID         int       `db:"id" json:"id"`
	UserID     int       `db:"user_id" json:"user_id"`
	GymClassID int       `db:"gym_class_id" json:"gym_class_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`

	ClassName  string `db:"class_name" json:"class_name,omitempty"`
	Instructor string `db:"instructor" json:"instructor,omitempty"`
	DayOfWeek  string `db:"day_of_week" json:"day_of_week,omitempty"`
	StartTime  string `db:"start_time" json:"start_time,omitempty"`
	EndTime    string `db:"end_time" json:"end_time,omitempty"`
}

type CreateClassRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	Instructor  string `json:"instructor" binding:"required,max=255"`
	DayOfWeek   string `json:"day_of_week" binding:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
}

type BookRequest struct {
	GymClassID int `json:"gym_class_id" binding:"required"`
}
