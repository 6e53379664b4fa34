package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time { return &t }

func TestClassifyDueDate(t *testing.T) {
	tests := []struct {
		name string
		due  *time.Time
		want string
	}{
		{"nil date", nil, IntervalNone},
		{"yesterday", datePtr(now.AddDate(0, 0, -1)), IntervalOverdue},
		{"same day morning", datePtr(time.Date(2026, time.March, 10, 0, 1, 0, 0, time.UTC)), IntervalToday},
		{"same day evening", datePtr(time.Date(2026, time.March, 10, 23, 59, 0, 0, time.UTC)), IntervalToday},
		{"tomorrow", datePtr(now.AddDate(0, 0, 1)), IntervalTomorrow},
		{"in two days", datePtr(now.AddDate(0, 0, 2)), IntervalThreeDays},
		{"in three days", datePtr(now.AddDate(0, 0, 3)), IntervalThreeDays},
		{"in five days", datePtr(now.AddDate(0, 0, 5)), IntervalNextWeek},
		{"in seven days", datePtr(now.AddDate(0, 0, 7)), IntervalNextWeek},
		{"in ten days", datePtr(now.AddDate(0, 0, 10)), IntervalTwoWeeks},
		{"in thirty days", datePtr(now.AddDate(0, 0, 30)), IntervalOneMonth},
		{"in ninety days", datePtr(now.AddDate(0, 0, 90)), IntervalCustom},
		{"far past", datePtr(now.AddDate(-2, 0, 0)), IntervalOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDueDate(now, tt.due))
		})
	}
}

func TestClassifyDueDateDeterministic(t *testing.T) {
	// Totality: every offset in a wide range maps to exactly one tag,
	// and repeating the call yields the same tag.
	for offset := -400; offset <= 400; offset++ {
		due := datePtr(now.AddDate(0, 0, offset))
		first := ClassifyDueDate(now, due)
		second := ClassifyDueDate(now, due)
		assert.Equal(t, first, second, "offset %d", offset)
		assert.NotEmpty(t, first, "offset %d", offset)
		assert.NotEmpty(t, IntervalColor(first), "offset %d", offset)
	}
}

func TestClosestInterval(t *testing.T) {
	tests := []struct {
		name string
		due  *time.Time
		want string
	}{
		{"nil date", nil, IntervalNone},
		{"exactly today", datePtr(now), IntervalToday},
		{"exactly a week", datePtr(now.AddDate(0, 0, 7)), IntervalNextWeek},
		{"eight days rounds to week", datePtr(now.AddDate(0, 0, 8)), IntervalNextWeek},
		{"twelve days rounds to two weeks", datePtr(now.AddDate(0, 0, 12)), IntervalTwoWeeks},
		{"two days ties to earlier tomorrow", datePtr(now.AddDate(0, 0, 2)), IntervalTomorrow},
		{"twenty five days rounds to month", datePtr(now.AddDate(0, 0, 25)), IntervalOneMonth},
		{"past date is custom", datePtr(now.AddDate(0, 0, -3)), IntervalCustom},
		{"beyond tolerance is custom", datePtr(now.AddDate(0, 0, 60)), IntervalCustom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClosestInterval(now, tt.due))
		})
	}
}

func TestIntervalColorUnknownTag(t *testing.T) {
	assert.Equal(t, IntervalColor(IntervalCustom), IntervalColor("bogus"))
}

func TestDaysUntilIgnoresTimeOfDay(t *testing.T) {
	lateNow := time.Date(2026, time.March, 10, 23, 59, 59, 0, time.UTC)
	earlyDue := time.Date(2026, time.March, 11, 0, 0, 1, 0, time.UTC)
	assert.Equal(t, 1, DaysUntil(lateNow, earlyDue))
}
