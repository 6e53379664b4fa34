package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mindbankhq/mindbank-api/middleware"
	"github.com/mindbankhq/mindbank-api/models"
	"github.com/mindbankhq/mindbank-api/utils"
)

type CategoryHandler struct {
	DB *sql.DB
}

// GetCategories returns the user's categories in board order.
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, user_id, name, description, hourly_rate_usd, color, icon, is_active, position, created_at, updated_at
		FROM categories
		WHERE user_id = $1
		ORDER BY position, created_at
	`, userID)
	if err != nil {
		log.Printf("Error fetching categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
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

	c.JSON(http.StatusOK, categories)
}

// CreateCategory creates a new category. Names are unique per user,
// case-insensitively.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if *req.HourlyRateUSD < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hourly_rate_usd must be >= 0"})
		return
	}
	if req.Color != "" && !models.ValidHexColor(req.Color) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "color must be a #rrggbb hex value"})
		return
	}

	var exists bool
	err := h.DB.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM categories WHERE user_id = $1 AND LOWER(name) = LOWER($2))
	`, userID, req.Name).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Category with this name already exists"})
		return
	}

	color := models.ColorOrDefault(req.Color)
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	var cat models.Category
	err = h.DB.QueryRow(`
		INSERT INTO categories (user_id, name, description, hourly_rate_usd, color, icon, is_active, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			COALESCE((SELECT MAX(position) + 1 FROM categories WHERE user_id = $1), 0))
		RETURNING id, user_id, name, description, hourly_rate_usd, color, icon, is_active, position, created_at, updated_at
	`, userID, strings.TrimSpace(req.Name), req.Description, *req.HourlyRateUSD, color, req.Icon, isActive).Scan(
		&cat.ID, &cat.UserID, &cat.Name, &cat.Description, &cat.HourlyRateUSD,
		&cat.Color, &cat.Icon, &cat.IsActive, &cat.Position, &cat.CreatedAt, &cat.UpdatedAt)

	if err != nil {
		if utils.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Category with this name already exists"})
			return
		}
		log.Printf("Error creating category: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, cat)
}

// GetCategory returns a single category owned by the caller.
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	userID := middleware.GetUserID(c)
	categoryID := c.Param("id")

	var cat models.Category
	err := h.DB.QueryRow(`
		SELECT id, user_id, name, description, hourly_rate_usd, color, icon, is_active, position, created_at, updated_at
		FROM categories
		WHERE id = $1 AND user_id = $2
	`, categoryID, userID).Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Description, &cat.HourlyRateUSD,
		&cat.Color, &cat.Icon, &cat.IsActive, &cat.Position, &cat.CreatedAt, &cat.UpdatedAt)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch category"})
		return
	}

	c.JSON(http.StatusOK, cat)
}

// UpdateCategory updates a category. A rename that collides with
// another category is a conflict.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID := middleware.GetUserID(c)
	categoryID := c.Param("id")

	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if *req.HourlyRateUSD < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hourly_rate_usd must be >= 0"})
		return
	}
	if req.Color != "" && !models.ValidHexColor(req.Color) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "color must be a #rrggbb hex value"})
		return
	}

	var conflict bool
	err := h.DB.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM categories WHERE user_id = $1 AND LOWER(name) = LOWER($2) AND id != $3)
	`, userID, req.Name, categoryID).Scan(&conflict)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if conflict {
		c.JSON(http.StatusConflict, gin.H{"error": "Category with this name already exists"})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	result, err := h.DB.Exec(`
		UPDATE categories
		SET name = $1, description = $2, hourly_rate_usd = $3, color = $4, icon = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
	`, strings.TrimSpace(req.Name), req.Description, *req.HourlyRateUSD, models.ColorOrDefault(req.Color), req.Icon, isActive, categoryID, userID)

	if err != nil {
		log.Printf("Error updating category: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category updated successfully"})
}

// DeleteCategory removes a category and, by cascade, its time entries.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID := middleware.GetUserID(c)
	categoryID := c.Param("id")

	result, err := h.DB.Exec(`
		DELETE FROM categories WHERE id = $1 AND user_id = $2
	`, categoryID, userID)
	if err != nil {
		log.Printf("Error deleting category: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
