package utils

import "time"

// ============================================================================
// DUE DATE INTERVALS
// Maps a due date to a named bucket and display color. The mapping is
// total: every date lands in exactly one bucket, with "custom" as the
// fallback for anything beyond the named horizon.
// ============================================================================

const (
	IntervalNone      = "none"
	IntervalOverdue   = "overdue"
	IntervalToday     = "today"
	IntervalTomorrow  = "tomorrow"
	IntervalThreeDays = "three_days"
	IntervalNextWeek  = "next_week"
	IntervalTwoWeeks  = "two_weeks"
	IntervalOneMonth  = "one_month"
	IntervalCustom    = "custom"
)

// DueInterval is one named bucket of the fixed ordered set.
type DueInterval struct {
	Tag    string
	Offset int // days from today
	Color  string
}

// SelectableIntervals are the predefined choices offered in due date
// pickers, in ascending offset order.
var SelectableIntervals = []DueInterval{
	{Tag: IntervalToday, Offset: 0, Color: "#f97316"},
	{Tag: IntervalTomorrow, Offset: 1, Color: "#f59e0b"},
	{Tag: IntervalThreeDays, Offset: 3, Color: "#eab308"},
	{Tag: IntervalNextWeek, Offset: 7, Color: "#22c55e"},
	{Tag: IntervalTwoWeeks, Offset: 14, Color: "#14b8a6"},
	{Tag: IntervalOneMonth, Offset: 30, Color: "#3b82f6"},
}

var intervalColors = map[string]string{
	IntervalNone:      "#9ca3af",
	IntervalOverdue:   "#ef4444",
	IntervalToday:     "#f97316",
	IntervalTomorrow:  "#f59e0b",
	IntervalThreeDays: "#eab308",
	IntervalNextWeek:  "#22c55e",
	IntervalTwoWeeks:  "#14b8a6",
	IntervalOneMonth:  "#3b82f6",
	IntervalCustom:    "#6b7280",
}

// Dates farther out than this from any named offset fall back to custom
// when picking the closest interval.
const closestTolerance = 45

// IntervalColor returns the display color for a tag. Unknown tags get
// the custom color so callers never render an empty color.
func IntervalColor(tag string) string {
	if color, ok := intervalColors[tag]; ok {
		return color
	}
	return intervalColors[IntervalCustom]
}

// DaysUntil returns the calendar day difference between now and due,
// ignoring the time of day of both.
func DaysUntil(now, due time.Time) int {
	a := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// ClassifyDueDate maps a due date to its interval tag. Total and
// deterministic: a nil due date is "none", past dates are "overdue",
// and anything beyond one month is "custom".
func ClassifyDueDate(now time.Time, due *time.Time) string {
	if due == nil {
		return IntervalNone
	}

	days := DaysUntil(now, *due)
	switch {
	case days < 0:
		return IntervalOverdue
	case days == 0:
		return IntervalToday
	case days == 1:
		return IntervalTomorrow
	case days <= 3:
		return IntervalThreeDays
	case days <= 7:
		return IntervalNextWeek
	case days <= 14:
		return IntervalTwoWeeks
	case days <= 30:
		return IntervalOneMonth
	default:
		return IntervalCustom
	}
}

// ClosestInterval finds the predefined interval nearest to a stored due
// date, for default selection in pickers. Ties go to the earlier
// interval; dates in the past or beyond the tolerance are "custom".
func ClosestInterval(now time.Time, due *time.Time) string {
	if due == nil {
		return IntervalNone
	}

	days := DaysUntil(now, *due)
	if days < 0 || days > closestTolerance {
		return IntervalCustom
	}

	best := SelectableIntervals[0]
	bestDist := abs(days - best.Offset)
	for _, iv := range SelectableIntervals[1:] {
		if d := abs(days - iv.Offset); d < bestDist {
			best = iv
			bestDist = d
		}
	}
	return best.Tag
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
