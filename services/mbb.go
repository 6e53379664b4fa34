package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/mindbankhq/mindbank-api/models"
	"github.com/mindbankhq/mindbank-api/utils"
)

// ============================================================================
// MBB SERVICE - Mental Bank Balance time tracking
// One running entry per user, enforced by a partial unique index.
// Earnings are computed once at stop time from the category's rate at
// that moment, so later rate edits never rewrite tracked history.
// ============================================================================

var (
	ErrTimerAlreadyRunning = errors.New("a timer is already running")
	ErrNoRunningTimer      = errors.New("no timer is running")
	ErrCategoryNotFound    = errors.New("category not found")
)

type MBBService struct {
	db *sql.DB
}

func NewMBBService(db *sql.DB) *MBBService {
	return &MBBService{db: db}
}

// Earnings converts tracked seconds into dollars at the given hourly
// rate, rounded to cents.
func Earnings(seconds int, hourlyRate float64) float64 {
	return math.Round(hourlyRate*float64(seconds)/3600*100) / 100
}

// Start opens a new running entry for the category.
func (s *MBBService) Start(ctx context.Context, userID, categoryID string) (*models.TimeEntry, error) {
	var categoryName string
	err := s.db.QueryRowContext(ctx, `
		SELECT name FROM categories WHERE id = $1 AND user_id = $2 AND is_active
	`, categoryID, userID).Scan(&categoryName)
	if err == sql.ErrNoRows {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up category: %w", err)
	}

	var running bool
	err = s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM time_entries WHERE user_id = $1 AND stopped_at IS NULL)
	`, userID).Scan(&running)
	if err != nil {
		return nil, fmt.Errorf("failed to check running timer: %w", err)
	}
	if running {
		return nil, ErrTimerAlreadyRunning
	}

	entry := &models.TimeEntry{
		ID:           uuid.New().String(),
		UserID:       userID,
		CategoryID:   categoryID,
		CategoryName: categoryName,
		StartedAt:    time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO time_entries (id, user_id, category_id, started_at)
		VALUES ($1, $2, $3, $4)
	`, entry.ID, entry.UserID, entry.CategoryID, entry.StartedAt)
	if err != nil {
		// Two concurrent starts both pass the exists check; the partial
		// unique index on running entries rejects the loser.
		if utils.IsUniqueViolation(err) {
			return nil, ErrTimerAlreadyRunning
		}
		return nil, fmt.Errorf("failed to start timer: %w", err)
	}

	utils.LogTimerAction("start", userID, categoryID, 0)
	return entry, nil
}

// Stop closes the running entry and freezes its earnings.
func (s *MBBService) Stop(ctx context.Context, userID string) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	var rate float64
	err := s.db.QueryRowContext(ctx, `
		SELECT te.id, te.category_id, te.started_at, c.name, c.hourly_rate_usd
		FROM time_entries te
		INNER JOIN categories c ON te.category_id = c.id
		WHERE te.user_id = $1 AND te.stopped_at IS NULL
	`, userID).Scan(&entry.ID, &entry.CategoryID, &entry.StartedAt, &entry.CategoryName, &rate)
	if err == sql.ErrNoRows {
		return nil, ErrNoRunningTimer
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up running timer: %w", err)
	}

	stoppedAt := time.Now().UTC()
	seconds := int(stoppedAt.Sub(entry.StartedAt).Seconds())
	if seconds < 0 {
		seconds = 0
	}

	entry.UserID = userID
	entry.StoppedAt = &stoppedAt
	entry.Seconds = seconds
	entry.EarningsUSD = Earnings(seconds, rate)

	_, err = s.db.ExecContext(ctx, `
		UPDATE time_entries
		SET stopped_at = $1, seconds = $2, earnings_usd = $3
		WHERE id = $4 AND user_id = $5
	`, stoppedAt, seconds, entry.EarningsUSD, entry.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to stop timer: %w", err)
	}

	utils.LogTimerAction("stop", userID, entry.CategoryID, entry.EarningsUSD)
	return &entry, nil
}

// Entries lists finished and running entries, newest first, optionally
// bounded by [from, to) on the start time.
func (s *MBBService) Entries(ctx context.Context, userID string, from, to *time.Time) ([]models.TimeEntry, error) {
	query := `
		SELECT te.id, te.user_id, te.category_id, c.name, te.started_at, te.stopped_at, te.seconds, te.earnings_usd
		FROM time_entries te
		INNER JOIN categories c ON te.category_id = c.id
		WHERE te.user_id = $1
	`
	args := []interface{}{userID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND te.started_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND te.started_at < $%d", len(args))
	}
	query += " ORDER BY te.started_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	entries := []models.TimeEntry{}
	for rows.Next() {
		var entry models.TimeEntry
		var stoppedAt sql.NullTime
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.CategoryID, &entry.CategoryName,
			&entry.StartedAt, &stoppedAt, &entry.Seconds, &entry.EarningsUSD); err != nil {
			return nil, err
		}
		if stoppedAt.Valid {
			t := stoppedAt.Time
			entry.StoppedAt = &t
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Balance aggregates frozen earnings: lifetime, today, this week
// (Monday start), and a per-category breakdown.
func (s *MBBService) Balance(ctx context.Context, userID string, now time.Time) (*models.Balance, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekday := int(today.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	weekStart := today.AddDate(0, 0, -(weekday - 1))

	balance := &models.Balance{ByCategory: []models.CategoryEarnings{}}

	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(earnings_usd), 0),
		       COALESCE(SUM(earnings_usd) FILTER (WHERE started_at >= $2), 0),
		       COALESCE(SUM(earnings_usd) FILTER (WHERE started_at >= $3), 0)
		FROM time_entries
		WHERE user_id = $1 AND stopped_at IS NOT NULL
	`, userID, today, weekStart).Scan(&balance.LifetimeUSD, &balance.TodayUSD, &balance.WeekUSD)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate balance: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, COALESCE(SUM(te.seconds), 0), COALESCE(SUM(te.earnings_usd), 0)
		FROM categories c
		LEFT JOIN time_entries te ON te.category_id = c.id AND te.stopped_at IS NOT NULL
		WHERE c.user_id = $1
		GROUP BY c.id, c.name
		ORDER BY SUM(te.earnings_usd) DESC NULLS LAST
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate per-category earnings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ce models.CategoryEarnings
		if err := rows.Scan(&ce.CategoryID, &ce.CategoryName, &ce.Seconds, &ce.EarningsUSD); err != nil {
			return nil, err
		}
		balance.ByCategory = append(balance.ByCategory, ce)
	}
	return balance, rows.Err()
}

// DailySeries returns one point per day over the last `days` days,
// zero-filled so the chart has a continuous X axis.
func (s *MBBService) DailySeries(ctx context.Context, userID string, now time.Time, days int) ([]models.DailyEarnings, error) {
	if days <= 0 {
		days = 30
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -(days - 1))

	rows, err := s.db.QueryContext(ctx, `
		SELECT DATE_TRUNC('day', started_at), COALESCE(SUM(earnings_usd), 0)
		FROM time_entries
		WHERE user_id = $1 AND stopped_at IS NOT NULL AND started_at >= $2
		GROUP BY 1
	`, userID, start)
	if err != nil {
		return nil, fmt.Errorf("failed to load earnings series: %w", err)
	}
	defer rows.Close()

	byDay := make(map[string]float64)
	for rows.Next() {
		var day time.Time
		var amount float64
		if err := rows.Scan(&day, &amount); err != nil {
			return nil, err
		}
		byDay[day.Format("2006-01-02")] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	series := make([]models.DailyEarnings, 0, days)
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		series = append(series, models.DailyEarnings{
			Date:        d,
			EarningsUSD: byDay[d.Format("2006-01-02")],
		})
	}
	return series, nil
}
