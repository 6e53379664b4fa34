package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func rateLimitTestRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimiter())
	router.GET("/resource", handler)
	return router
}

func TestRateLimiterDoesNotSerializeSlowRequests(t *testing.T) {
	router := rateLimitTestRouter(func(c *gin.Context) {
		time.Sleep(150 * time.Millisecond)
		c.Status(http.StatusOK)
	})

	start := time.Now()
	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/resource", nil)
			req.RemoteAddr = "10.0.0.7:4000"
			router.ServeHTTP(w, req)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(start)

	for _, code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}
	// Two 150ms requests running concurrently finish well under their
	// combined 300ms duration.
	assert.Less(t, elapsed, 280*time.Millisecond)
}

func TestRateLimiterRejectsOverLimit(t *testing.T) {
	router := rateLimitTestRouter(func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	var last int
	for i := 0; i < limiter.limit+1; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/resource", nil)
		req.RemoteAddr = "10.0.0.8:4000"
		router.ServeHTTP(w, req)
		last = w.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
}
