package handlers

import (
	"database/sql"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mindbankhq/mindbank-api/middleware"
	"github.com/mindbankhq/mindbank-api/models"
	"github.com/mindbankhq/mindbank-api/services"
	"github.com/mindbankhq/mindbank-api/utils"
)

const maxMediaSize = 50 << 20

type VisionHandler struct {
	DB      *sql.DB
	Storage *services.StorageService
	WS      *WSHandler
}

const visionColumns = `id, user_id, media_url, media_type, goal, due_date, position, created_at, updated_at`

func scanVisionItem(row interface{ Scan(...interface{}) error }) (models.VisionItem, error) {
	var item models.VisionItem
	var dueDate sql.NullTime
	err := row.Scan(&item.ID, &item.UserID, &item.MediaURL, &item.MediaType, &item.Goal,
		&dueDate, &item.Position, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return item, err
	}
	if dueDate.Valid {
		t := dueDate.Time
		item.DueDate = &t
	}
	return item, nil
}

func annotateVisionItem(item *models.VisionItem, now time.Time) {
	item.DueInterval = utils.ClassifyDueDate(now, item.DueDate)
	item.DueColor = utils.IntervalColor(item.DueInterval)
}

// GetItems returns the vision board in gallery order.
func (h *VisionHandler) GetItems(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT `+visionColumns+` FROM vision_items
		WHERE user_id = $1
		ORDER BY position, created_at
	`, userID)
	if err != nil {
		log.Printf("Error fetching vision items: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vision items"})
		return
	}
	defer rows.Close()

	now := time.Now()
	items := []models.VisionItem{}
	for rows.Next() {
		item, err := scanVisionItem(rows)
		if err != nil {
			continue
		}
		annotateVisionItem(&item, now)
		items = append(items, item)
	}

	c.JSON(http.StatusOK, items)
}

// CreateItem registers an already-uploaded media URL on the board.
func (h *VisionHandler) CreateItem(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateVisionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mediaType := req.MediaType
	if mediaType == "" {
		mediaType = models.MediaTypeImage
	}
	if mediaType != models.MediaTypeImage && mediaType != models.MediaTypeVideo {
		c.JSON(http.StatusBadRequest, gin.H{"error": "media_type must be image or video"})
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row := h.DB.QueryRow(`
		INSERT INTO vision_items (user_id, media_url, media_type, goal, due_date, position)
		VALUES ($1, $2, $3, $4, $5,
			COALESCE((SELECT MAX(position) + 1 FROM vision_items WHERE user_id = $1), 0))
		RETURNING `+visionColumns+`
	`, userID, req.MediaURL, mediaType, req.Goal, dueDate)

	item, err := scanVisionItem(row)
	if err != nil {
		log.Printf("Error creating vision item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vision item"})
		return
	}

	annotateVisionItem(&item, time.Now())
	h.WS.BroadcastUpdate(userID, "vision_created", item.ID)
	c.JSON(http.StatusCreated, item)
}

// UpdateItem edits the goal and due date of a vision item.
func (h *VisionHandler) UpdateItem(c *gin.Context) {
	userID := middleware.GetUserID(c)
	itemID := c.Param("id")

	var req models.UpdateVisionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row := h.DB.QueryRow(`
		UPDATE vision_items
		SET goal = $1, due_date = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING `+visionColumns+`
	`, req.Goal, dueDate, itemID, userID)

	item, err := scanVisionItem(row)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vision item not found"})
		return
	}
	if err != nil {
		log.Printf("Error updating vision item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vision item"})
		return
	}

	annotateVisionItem(&item, time.Now())
	c.JSON(http.StatusOK, item)
}

// DeleteItem removes a vision item. The stored media stays in the
// bucket; only the URL reference is dropped.
func (h *VisionHandler) DeleteItem(c *gin.Context) {
	userID := middleware.GetUserID(c)
	itemID := c.Param("id")

	result, err := h.DB.Exec(`
		DELETE FROM vision_items WHERE id = $1 AND user_id = $2
	`, itemID, userID)
	if err != nil {
		log.Printf("Error deleting vision item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vision item"})
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vision item not found"})
		return
	}

	h.WS.BroadcastUpdate(userID, "vision_deleted", itemID)
	c.JSON(http.StatusOK, gin.H{"message": "Vision item deleted"})
}

// UploadMedia stores an image or video in the media bucket and returns
// its public URL for a subsequent CreateItem call.
func (h *VisionHandler) UploadMedia(c *gin.Context) {
	userID := middleware.GetUserID(c)

	file, err := c.FormFile("media")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "media file is required"})
		return
	}
	if file.Size > maxMediaSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "media exceeds 50 MB limit"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	mediaType := models.MediaTypeImage
	switch {
	case strings.HasPrefix(contentType, "image/"):
	case strings.HasPrefix(contentType, "video/"):
		mediaType = models.MediaTypeVideo
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "media must be an image or video"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read media file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read media file"})
		return
	}

	url, err := h.Storage.Upload(userID, file.Filename, contentType, data)
	if err != nil {
		log.Printf("Error uploading media: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload media"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"media_url": url, "media_type": mediaType})
}

// ReorderItems persists a drag-and-drop order. The submitted ids must
// be exactly the caller's items.
func (h *VisionHandler) ReorderItems(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.ReorderVisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := utils.WithTransaction(h.DB, func(tx *sql.Tx) error {
		rows, err := tx.Query(`SELECT id FROM vision_items WHERE user_id = $1 FOR UPDATE`, userID)
		if err != nil {
			return err
		}
		owned := make(map[string]bool)
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			owned[id] = true
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if len(req.IDs) != len(owned) {
			return errNotPermutation
		}
		seen := make(map[string]bool)
		for _, id := range req.IDs {
			if !owned[id] || seen[id] {
				return errNotPermutation
			}
			seen[id] = true
		}

		for position, id := range req.IDs {
			_, err := tx.Exec(`
				UPDATE vision_items SET position = $1, updated_at = NOW()
				WHERE id = $2 AND user_id = $3
			`, position, id, userID)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err == errNotPermutation {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids must be a permutation of your vision items"})
		return
	}
	if err != nil {
		log.Printf("Error reordering vision items: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder vision items"})
		return
	}

	h.WS.BroadcastUpdate(userID, "vision_reordered", "")
	c.JSON(http.StatusOK, gin.H{"message": "Vision board reordered"})
}

var errNotPermutation = errors.New("ids are not a permutation of stored items")
