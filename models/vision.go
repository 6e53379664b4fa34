package models

import "time"

// ============================================================================
// VISION BOARD MODEL
// ============================================================================

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

type VisionItem struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	MediaURL  string     `json:"media_url"`
	MediaType string     `json:"media_type"`
	Goal      string     `json:"goal,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Position  int        `json:"position"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Derived from DueDate, never stored.
	DueInterval string `json:"due_interval,omitempty"`
	DueColor    string `json:"due_color,omitempty"`
}

type CreateVisionItemRequest struct {
	MediaURL  string  `json:"media_url" binding:"required,url"`
	MediaType string  `json:"media_type"`
	Goal      string  `json:"goal"`
	DueDate   *string `json:"due_date"` // YYYY-MM-DD
}

type UpdateVisionItemRequest struct {
	Goal    string  `json:"goal"`
	DueDate *string `json:"due_date"` // YYYY-MM-DD, empty string clears
}

type ReorderVisionRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}
