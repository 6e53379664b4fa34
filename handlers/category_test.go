package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mindbankhq/mindbank-api/models"
)

// Validation failures return before any database access, so a handler
// with a nil DB is enough to exercise them.
func categoryTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &CategoryHandler{DB: nil}
	router := gin.New()
	router.POST("/categories", h.CreateCategory)
	router.PUT("/categories/:id", h.UpdateCategory)
	return router
}

func TestCreateCategoryRejectsInvalidColor(t *testing.T) {
	router := categoryTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/categories", strings.NewReader(`{"name":"Design","hourly_rate_usd":65,"color":"blue"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "#rrggbb")
}

func TestUpdateCategoryRejectsInvalidColor(t *testing.T) {
	router := categoryTestRouter()

	tests := []struct {
		name  string
		color string
	}{
		{"not hex", "blue"},
		{"missing hash", "3b82f6"},
		{"too short", "#3b8"},
		{"non-hex digits", "#3b82zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			body := `{"name":"Design","hourly_rate_usd":65,"color":"` + tt.color + `"}`
			req := httptest.NewRequest("PUT", "/categories/cat-1", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "#rrggbb")
		})
	}
}

func TestColorOrDefault(t *testing.T) {
	assert.Equal(t, models.DefaultCategoryColor, models.ColorOrDefault(""))
	assert.Equal(t, "#3b82f6", models.ColorOrDefault("#3b82f6"))
}

func TestValidHexColor(t *testing.T) {
	assert.True(t, models.ValidHexColor("#3b82f6"))
	assert.True(t, models.ValidHexColor("#ABCDEF"))
	assert.False(t, models.ValidHexColor("3b82f6"))
	assert.False(t, models.ValidHexColor("#3b82f"))
	assert.False(t, models.ValidHexColor("#3b82f6ff"))
}
