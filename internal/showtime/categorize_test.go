package showtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeTime(t *testing.T) {
	cases := []struct {
		in   string
		want Category
	}{
		{"7:00 AM", Morning},
		{"9 AM", Morning},
		{"11:59 AM", Morning},
		{"12:00 PM", Afternoon},
		{"12:30 PM", Afternoon},
		{"2:15 PM", Afternoon},
		{"4:59 PM", Afternoon},
		{"5:00 PM", Evening},
		{"7:00 PM", Evening},
		{"9:59 PM", Evening},
		{"10:00 PM", LateNight},
		{"11:45 PM", LateNight},
		{"12:00 AM", LateNight}, // midnight
		{"3:00 AM", LateNight},
		{"5:59 AM", LateNight},
		{"6:00 AM", Morning},

		// 24-hour input
		{"06:30", Morning},
		{"13:05", Afternoon},
		{"19:00", Evening},
		{"22:00", LateNight},
		{"23:59", LateNight},
		{"00:00", LateNight},

		// surrounding whitespace and case
		{"  7:00 pm  ", Evening},
		{"10:00am", Morning},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, CategorizeTime(tc.in))
		})
	}
}

func TestCategorizeTimeFallback(t *testing.T) {
	// unparseable input never errors, it lands in the evening bucket
	for _, in := range []string{"", "garbage", "half past nine", ":30", "??:??"} {
		assert.Equal(t, Evening, CategorizeTime(in), "input %q", in)
		assert.False(t, Parseable(in), "input %q", in)
	}
}

func TestParseable(t *testing.T) {
	assert.True(t, Parseable("7:00 PM"))
	assert.True(t, Parseable("19:00"))
	assert.False(t, Parseable("soon"))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("morning"))
	assert.True(t, Valid("late_night"))
	assert.False(t, Valid("Morning"))
	assert.False(t, Valid("midnight"))
	assert.False(t, Valid(""))
}
