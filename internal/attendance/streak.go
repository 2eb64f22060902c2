package attendance

import "time"

// Streak counts consecutive calendar days with at least one visit,
// walking backwards from the most recent visit day. Multiple check-ins
// on the same day count once. Visits must be sorted newest first.
func Streak(visits []time.Time, loc *time.Location) int {
	if len(visits) == 0 {
		return 0
	}

	day := func(t time.Time) time.Time {
		t = t.In(loc)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}

	streak := 1
	current := day(visits[0])

	for _, v := range visits[1:] {
		d := day(v)
		if d.Equal(current) {
			continue
		}
		if d.Equal(current.AddDate(0, 0, -1)) {
			streak++
			current = d
			continue
		}
		break
	}

	return streak
}
