package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStreak(t *testing.T) {
	loc := time.UTC
	base := time.Date(2024, 3, 8, 18, 30, 0, 0, loc)

	day := func(offset int) time.Time {
		return base.AddDate(0, 0, offset)
	}

	tests := []struct {
		name   string
		visits []time.Time
		want   int
	}{
		{
			name:   "no visits",
			visits: nil,
			want:   0,
		},
		{
			name:   "single visit",
			visits: []time.Time{day(0)},
			want:   1,
		},
		{
			name:   "three consecutive days",
			visits: []time.Time{day(0), day(-1), day(-2)},
			want:   3,
		},
		{
			name:   "gap breaks the streak",
			visits: []time.Time{day(0), day(-1), day(-2), day(-5)},
			want:   3,
		},
		{
			name:   "two visits same day count once",
			visits: []time.Time{day(0), day(0).Add(-4 * time.Hour), day(-1)},
			want:   2,
		},
		{
			name:   "streak broken immediately",
			visits: []time.Time{day(0), day(-3), day(-4)},
			want:   1,
		},
		{
			name: "late night and early morning are different days",
			visits: []time.Time{
				time.Date(2024, 3, 8, 0, 10, 0, 0, loc),
				time.Date(2024, 3, 7, 23, 50, 0, 0, loc),
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Streak(tt.visits, loc))
		})
	}
}
