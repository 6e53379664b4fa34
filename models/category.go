package models

import (
	"regexp"
	"time"
)

// ============================================================================
// MBB CATEGORY MODEL
// A category of life work. Tracked seconds times the hourly rate yield
// "mental bank balance" earnings.
// ============================================================================

// DefaultCategoryColor is used when a category is created or updated
// without an explicit color.
const DefaultCategoryColor = "#6b7280"

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidHexColor reports whether s is a #rrggbb hex color.
func ValidHexColor(s string) bool {
	return hexColorRegex.MatchString(s)
}

// ColorOrDefault substitutes the default color for an empty one.
func ColorOrDefault(color string) string {
	if color == "" {
		return DefaultCategoryColor
	}
	return color
}

type Category struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	HourlyRateUSD float64   `json:"hourly_rate_usd"`
	Color         string    `json:"color"`
	Icon          string    `json:"icon,omitempty"`
	IsActive      bool      `json:"is_active"`
	Position      int       `json:"position"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateCategoryRequest struct {
	Name          string   `json:"name" binding:"required,max=100"`
	Description   string   `json:"description"`
	HourlyRateUSD *float64 `json:"hourly_rate_usd" binding:"required"`
	Color         string   `json:"color"`
	Icon          string   `json:"icon"`
	IsActive      *bool    `json:"is_active"`
}

type UpdateCategoryRequest struct {
	Name          string   `json:"name" binding:"required,max=100"`
	Description   string   `json:"description"`
	HourlyRateUSD *float64 `json:"hourly_rate_usd" binding:"required"`
	Color         string   `json:"color"`
	Icon          string   `json:"icon"`
	IsActive      *bool    `json:"is_active"`
}

// ============================================================================
// CSV BULK IMPORT
// ============================================================================

// ImportRowError describes why a single CSV row was rejected.
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult is the collect-and-report outcome of a batch import.
// Valid rows are imported even when other rows fail.
type ImportResult struct {
	Imported int              `json:"imported"`
	Updated  int              `json:"updated"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors"`
}
