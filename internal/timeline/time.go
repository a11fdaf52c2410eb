package timeline

import (
	"fmt"
	"time"
)

// MinutesPerDay is the length of the grid.
const MinutesPerDay = 24 * 60

// TimeToMinutes converts "HH:MM" to minutes since midnight.
// "24:00" is accepted and maps to MinutesPerDay.
func TimeToMinutes(t string) (int, error) {
	if len(t) != 5 || t[2] != ':' {
		return 0, ErrInvalidTimeFormat
	}
	for _, i := range []int{0, 1, 3, 4} {
		if t[i] < '0' || t[i] > '9' {
			return 0, ErrInvalidTimeFormat
		}
	}
	hours := int(t[0]-'0')*10 + int(t[1]-'0')
	mins := int(t[3]-'0')*10 + int(t[4]-'0')
	if mins > 59 || hours > 24 || (hours == 24 && mins != 0) {
		return 0, ErrInvalidTimeFormat
	}
	return hours*60 + mins, nil
}

// MinutesToTime converts minutes since midnight to "HH:MM" format.
// The end of the day is rendered as "24:00".
func MinutesToTime(m int) string {
	if m < 0 {
		m = 0
	}
	if m > MinutesPerDay {
		m = MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// MinuteOfDay returns the minutes elapsed since local midnight.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
