package models

import "time"

// ============================================================================
// JOURNAL MODEL
// ============================================================================

type JournalEntry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content,omitempty"`
	Mood       *string   `json:"mood,omitempty"`
	AudioURL   *string   `json:"audio_url,omitempty"`
	Transcript *string   `json:"transcript,omitempty"`
	EntryDate  time.Time `json:"entry_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateJournalEntryRequest struct {
	Title     string  `json:"title" binding:"required,max=255"`
	Content   string  `json:"content"`
	Mood      *string `json:"mood"`
	EntryDate string  `json:"entry_date"` // YYYY-MM-DD, defaults to today
}

type UpdateJournalEntryRequest struct {
	Title   string  `json:"title" binding:"required,max=255"`
	Content string  `json:"content"`
	Mood    *string `json:"mood"`
}
