package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mindbankhq/mindbank-api/middleware"
	"github.com/mindbankhq/mindbank-api/models"
	"github.com/mindbankhq/mindbank-api/services"
)

type MBBHandler struct {
	Service *services.MBBService
}

// StartTimer opens a timer on a category. Only one timer may run at a
// time, so a second start is a conflict.
func (h *MBBHandler) StartTimer(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.StartTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.Service.Start(c.Request.Context(), userID, req.CategoryID)
	if errors.Is(err, services.ErrCategoryNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	if errors.Is(err, services.ErrTimerAlreadyRunning) {
		c.JSON(http.StatusConflict, gin.H{"error": "A timer is already running"})
		return
	}
	if err != nil {
		log.Printf("Error starting timer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start timer"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// StopTimer closes the running timer and returns the frozen earnings.
func (h *MBBHandler) StopTimer(c *gin.Context) {
	userID := middleware.GetUserID(c)

	entry, err := h.Service.Stop(c.Request.Context(), userID)
	if errors.Is(err, services.ErrNoRunningTimer) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No timer is running"})
		return
	}
	if err != nil {
		log.Printf("Error stopping timer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to stop timer"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// GetEntries lists entries, optionally bounded by ?from= and ?to=
// (YYYY-MM-DD, to exclusive).
func (h *MBBHandler) GetEntries(c *gin.Context) {
	userID := middleware.GetUserID(c)

	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
		return
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
		return
	}

	entries, err := h.Service.Entries(c.Request.Context(), userID, from, to)
	if err != nil {
		log.Printf("Error fetching entries: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch entries"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func parseDateQuery(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetBalance returns the mental bank balance aggregates.
func (h *MBBHandler) GetBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)

	balance, err := h.Service.Balance(c.Request.Context(), userID, time.Now())
	if err != nil {
		log.Printf("Error computing balance: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		return
	}

	c.JSON(http.StatusOK, balance)
}

// GetChart renders daily earnings over ?days= (default 30) as PNG.
func (h *MBBHandler) GetChart(c *gin.Context) {
	userID := middleware.GetUserID(c)

	days := 30
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 2 || n > 365 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 2 and 365"})
			return
		}
		days = n
	}

	series, err := h.Service.DailySeries(c.Request.Context(), userID, time.Now(), days)
	if err != nil {
		log.Printf("Error building earnings series: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build earnings series"})
		return
	}

	png, err := services.RenderEarningsChart(series)
	if err != nil {
		log.Printf("Error rendering chart: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render chart"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
