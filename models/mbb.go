package models

import "time"

// ============================================================================
// MBB TIME TRACKING MODEL
// One entry per timer run. Earnings are frozen at stop time so later
// rate changes never rewrite history.
// ============================================================================

type TimeEntry struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	CategoryID   string     `json:"category_id"`
	CategoryName string     `json:"category_name,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	StoppedAt    *time.Time `json:"stopped_at,omitempty"`
	Seconds      int        `json:"seconds"`
	EarningsUSD  float64    `json:"earnings_usd"`
}

type StartTimerRequest struct {
	CategoryID string `json:"category_id" binding:"required,uuid"`
}

// CategoryEarnings is one line of the per-category balance breakdown.
type CategoryEarnings struct {
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Seconds      int     `json:"seconds"`
	EarningsUSD  float64 `json:"earnings_usd"`
}

type Balance struct {
	LifetimeUSD float64            `json:"lifetime_usd"`
	TodayUSD    float64            `json:"today_usd"`
	WeekUSD     float64            `json:"week_usd"`
	ByCategory  []CategoryEarnings `json:"by_category"`
}

// DailyEarnings is one point of the earnings chart series.
type DailyEarnings struct {
	Date        time.Time `json:"date"`
	EarningsUSD float64   `json:"earnings_usd"`
}
