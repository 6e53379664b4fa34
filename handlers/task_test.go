package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindbankhq/mindbank-api/models"
	"github.com/mindbankhq/mindbank-api/utils"
)

func TestParseDueDate(t *testing.T) {
	valid := "2026-04-01"
	empty := ""
	bad := "01/04/2026"

	parsed, err := parseDueDate(&valid)
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), *parsed)

	parsed, err = parseDueDate(nil)
	require.NoError(t, err)
	assert.Nil(t, parsed)

	parsed, err = parseDueDate(&empty)
	require.NoError(t, err)
	assert.Nil(t, parsed, "empty string clears the date")

	_, err = parseDueDate(&bad)
	assert.Error(t, err)
}

func TestAnnotateTask(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	due := now.AddDate(0, 0, 1)
	task := models.Task{DueDate: &due}
	annotateTask(&task, now)
	assert.Equal(t, utils.IntervalTomorrow, task.DueInterval)
	assert.Equal(t, utils.IntervalColor(utils.IntervalTomorrow), task.DueColor)

	undated := models.Task{}
	annotateTask(&undated, now)
	assert.Equal(t, utils.IntervalNone, undated.DueInterval)
	assert.NotEmpty(t, undated.DueColor)
}

// Validation failures return before any database access, so a handler
// with a nil DB is enough to exercise them.
func taskTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &TaskHandler{DB: nil, WS: NewWSHandler()}
	router := gin.New()
	router.POST("/tasks", h.CreateTask)
	router.POST("/tasks/:id/move", h.MoveTask)
	router.GET("/tasks", h.GetTasks)
	return router
}

func TestCreateTaskRejectsMissingTitle(t *testing.T) {
	router := taskTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/tasks", strings.NewReader(`{"description":"no title"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTaskRejectsInvalidStatus(t *testing.T) {
	router := taskTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/tasks", strings.NewReader(`{"title":"Ship it","status":"blocked"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid status")
}

func TestCreateTaskRejectsBadDueDate(t *testing.T) {
	router := taskTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/tasks", strings.NewReader(`{"title":"Ship it","due_date":"next tuesday"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMoveTaskRejectsInvalidStatus(t *testing.T) {
	router := taskTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/tasks/abc/move", strings.NewReader(`{"status":"archived","position":0}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMoveTaskRejectsNegativePosition(t *testing.T) {
	router := taskTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/tasks/abc/move", strings.NewReader(`{"status":"done","position":-1}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTasksRejectsUnknownStatusFilter(t *testing.T) {
	router := taskTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/tasks?status=waiting", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
