package handlers

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mindbankhq/mindbank-api/middleware"
	"github.com/mindbankhq/mindbank-api/models"
	"github.com/mindbankhq/mindbank-api/services"
	"github.com/mindbankhq/mindbank-api/utils"
)

// Voice notes top out well under this.
const maxAudioSize = 25 << 20

type JournalHandler struct {
	DB          *sql.DB
	Storage     *services.StorageService
	Transcriber *services.TranscriberService
}

// Transcripts are encrypted at rest when DATA_ENCRYPTION_KEY is set.
func sealTranscript(text string) (string, error) {
	if os.Getenv("DATA_ENCRYPTION_KEY") == "" {
		return text, nil
	}
	return utils.EncryptText(text)
}

func openTranscript(stored string) string {
	if os.Getenv("DATA_ENCRYPTION_KEY") == "" {
		return stored
	}
	plain, err := utils.DecryptText(stored)
	if err != nil {
		// Rows written before encryption was enabled stay readable.
		return stored
	}
	return plain
}

const journalColumns = `id, user_id, title, content, mood, audio_url, transcript, entry_date, created_at, updated_at`

func scanJournalEntry(row interface{ Scan(...interface{}) error }) (models.JournalEntry, error) {
	var entry models.JournalEntry
	var mood, audioURL, transcript sql.NullString
	err := row.Scan(&entry.ID, &entry.UserID, &entry.Title, &entry.Content, &mood,
		&audioURL, &transcript, &entry.EntryDate, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return entry, err
	}
	if mood.Valid {
		entry.Mood = &mood.String
	}
	if audioURL.Valid {
		entry.AudioURL = &audioURL.String
	}
	if transcript.Valid {
		plain := openTranscript(transcript.String)
		entry.Transcript = &plain
	}
	return entry, nil
}

// GetEntries lists journal entries, newest entry date first.
func (h *JournalHandler) GetEntries(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT `+journalColumns+` FROM journal_entries
		WHERE user_id = $1
		ORDER BY entry_date DESC, created_at DESC
	`, userID)
	if err != nil {
		log.Printf("Error fetching journal entries: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch journal entries"})
		return
	}
	defer rows.Close()

	entries := []models.JournalEntry{}
	for rows.Next() {
		entry, err := scanJournalEntry(rows)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, entries)
}

func (h *JournalHandler) CreateEntry(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entryDate := time.Now()
	if strings.TrimSpace(req.EntryDate) != "" {
		parsed, err := time.Parse("2006-01-02", req.EntryDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "entry_date must be YYYY-MM-DD"})
			return
		}
		entryDate = parsed
	}

	row := h.DB.QueryRow(`
		INSERT INTO journal_entries (user_id, title, content, mood, entry_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+journalColumns+`
	`, userID, req.Title, req.Content, req.Mood, entryDate)

	entry, err := scanJournalEntry(row)
	if err != nil {
		log.Printf("Error creating journal entry: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create journal entry"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *JournalHandler) GetEntry(c *gin.Context) {
	userID := middleware.GetUserID(c)
	entryID := c.Param("id")

	row := h.DB.QueryRow(`
		SELECT `+journalColumns+` FROM journal_entries WHERE id = $1 AND user_id = $2
	`, entryID, userID)

	entry, err := scanJournalEntry(row)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch journal entry"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *JournalHandler) UpdateEntry(c *gin.Context) {
	userID := middleware.GetUserID(c)
	entryID := c.Param("id")

	var req models.UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row := h.DB.QueryRow(`
		UPDATE journal_entries
		SET title = $1, content = $2, mood = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING `+journalColumns+`
	`, req.Title, req.Content, req.Mood, entryID, userID)

	entry, err := scanJournalEntry(row)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		return
	}
	if err != nil {
		log.Printf("Error updating journal entry: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update journal entry"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *JournalHandler) DeleteEntry(c *gin.Context) {
	userID := middleware.GetUserID(c)
	entryID := c.Param("id")

	result, err := h.DB.Exec(`
		DELETE FROM journal_entries WHERE id = $1 AND user_id = $2
	`, entryID, userID)
	if err != nil {
		log.Printf("Error deleting journal entry: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete journal entry"})
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Journal entry deleted"})
}

// UploadAudio attaches a voice note to an entry: the audio goes to
// object storage, then to the transcription API. A transcription
// failure keeps the audio and reports the error instead of failing
// the upload.
func (h *JournalHandler) UploadAudio(c *gin.Context) {
	userID := middleware.GetUserID(c)
	entryID := c.Param("id")

	var exists bool
	err := h.DB.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM journal_entries WHERE id = $1 AND user_id = $2)
	`, entryID, userID).Scan(&exists)
	if err != nil || !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		return
	}

	file, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}
	if file.Size > maxAudioSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("audio exceeds %d MB limit", maxAudioSize>>20)})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read audio file"})
		return
	}
	defer f.Close()

	audio, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read audio file"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/webm"
	}

	audioURL, err := h.Storage.Upload(userID, file.Filename, contentType, audio)
	if err != nil {
		log.Printf("Error uploading audio: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload audio"})
		return
	}

	_, err = h.DB.Exec(`
		UPDATE journal_entries SET audio_url = $1, updated_at = NOW() WHERE id = $2
	`, audioURL, entryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save audio URL"})
		return
	}

	transcript, transcribeErr := h.Transcriber.Transcribe(c.Request.Context(), file.Filename, audio)
	if transcribeErr == nil && transcript != "" {
		sealed, err := sealTranscript(transcript)
		if err == nil {
			_, _ = h.DB.Exec(`
				UPDATE journal_entries SET transcript = $1, updated_at = NOW() WHERE id = $2
			`, sealed, entryID)
		} else {
			transcribeErr = err
		}
	}

	response := gin.H{"audio_url": audioURL}
	if transcribeErr != nil {
		log.Printf("Transcription failed for entry %s: %v", utils.MaskID(entryID), transcribeErr)
		response["transcription_error"] = "Transcription unavailable, audio saved"
	} else {
		response["transcript"] = transcript
	}

	c.JSON(http.StatusOK, response)
}
