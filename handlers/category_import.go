package handlers

import (
	"database/sql"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mindbankhq/mindbank-api/middleware"
	"github.com/mindbankhq/mindbank-api/models"
	"github.com/mindbankhq/mindbank-api/services"
)

// 2 MB is plenty for a category list.
const maxImportSize = 2 << 20

type CategoryImportHandler struct {
	DB      *sql.DB
	Service *services.ImportService
}

// ImportCategories accepts a CSV payload, either as a multipart "file"
// field or as a raw text/csv body. Valid rows are imported even when
// others fail; the response reports per-row errors.
func (h *CategoryImportHandler) ImportCategories(c *gin.Context) {
	userID := middleware.GetUserID(c)
	overwrite := c.Query("overwrite") == "true"

	reader, err := importBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer reader.Close()

	result, err := h.Service.ImportCategories(c.Request.Context(), userID, reader, overwrite)
	if err != nil {
		if strings.Contains(err.Error(), "header") || strings.Contains(err.Error(), "empty CSV") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error importing categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import categories"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// importBody picks the CSV source: an uploaded multipart "file" field
// when present, otherwise the raw request body. The caller closes the
// returned reader.
func importBody(c *gin.Context) (io.ReadCloser, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	if file, err := c.FormFile("file"); err == nil {
		return file.Open()
	}

	return c.Request.Body, nil
}

// ExportCategories streams the user's categories as CSV in the import
// format, so export followed by import (overwrite) is a no-op.
func (h *CategoryImportHandler) ExportCategories(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, user_id, name, description, hourly_rate_usd, color, icon, is_active, position, created_at, updated_at
		FROM categories
		WHERE user_id = $1
		ORDER BY position, created_at
	`, userID)
	if err != nil {
		log.Printf("Error exporting categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export categories"})
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Description, &cat.HourlyRateUSD,
			&cat.Color, &cat.Icon, &cat.IsActive, &cat.Position, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			continue
		}
		categories = append(categories, cat)
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="categories.csv"`)
	if err := services.WriteCategoriesCSV(c.Writer, categories); err != nil {
		log.Printf("Error writing CSV export: %v", err)
	}
}
