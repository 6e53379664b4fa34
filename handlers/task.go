package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mindbankhq/mindbank-api/middleware"
	"github.com/mindbankhq/mindbank-api/models"
	"github.com/mindbankhq/mindbank-api/utils"
)

type TaskHandler struct {
	DB *sql.DB
	WS *WSHandler
}

// parseDueDate turns an optional YYYY-MM-DD string into a time pointer.
// An empty string means "clear the date".
func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(*raw))
	if err != nil {
		return nil, fmt.Errorf("due_date must be YYYY-MM-DD")
	}
	return &t, nil
}

func annotateTask(task *models.Task, now time.Time) {
	task.DueInterval = utils.ClassifyDueDate(now, task.DueDate)
	task.DueColor = utils.IntervalColor(task.DueInterval)
}

const taskColumns = `id, user_id, category_id, title, description, status, position, due_date, created_at, updated_at`

func scanTask(row interface{ Scan(...interface{}) error }) (models.Task, error) {
	var task models.Task
	var categoryID sql.NullString
	var dueDate sql.NullTime
	err := row.Scan(&task.ID, &task.UserID, &categoryID, &task.Title, &task.Description,
		&task.Status, &task.Position, &dueDate, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return task, err
	}
	if categoryID.Valid {
		task.CategoryID = &categoryID.String
	}
	if dueDate.Valid {
		t := dueDate.Time
		task.DueDate = &t
	}
	return task, nil
}

// GetTasks returns the board, optionally one column via ?status=.
func (h *TaskHandler) GetTasks(c *gin.Context) {
	userID := middleware.GetUserID(c)
	status := c.Query("status")

	if status != "" && !models.ValidTaskStatuses[status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []interface{}{userID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY status, position`

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		log.Printf("Error fetching tasks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}
	defer rows.Close()

	now := time.Now()
	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			continue
		}
		annotateTask(&task, now)
		tasks = append(tasks, task)
	}

	c.JSON(http.StatusOK, tasks)
}

// CreateTask appends a task to the bottom of its column.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := req.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	if !models.ValidTaskStatuses[status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row := h.DB.QueryRow(`
		INSERT INTO tasks (user_id, category_id, title, description, status, due_date, position)
		VALUES ($1, $2, $3, $4, $5, $6,
			COALESCE((SELECT MAX(position) + 1 FROM tasks WHERE user_id = $1 AND status = $5), 0))
		RETURNING `+taskColumns+`
	`, userID, req.CategoryID, req.Title, req.Description, status, dueDate)

	task, err := scanTask(row)
	if err != nil {
		log.Printf("Error creating task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	annotateTask(&task, time.Now())
	h.WS.BroadcastUpdate(userID, "task_created", task.ID)
	c.JSON(http.StatusCreated, task)
}

// GetTask returns a single task owned by the caller.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID := middleware.GetUserID(c)
	taskID := c.Param("id")

	row := h.DB.QueryRow(`
		SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2
	`, taskID, userID)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		return
	}

	annotateTask(&task, time.Now())
	c.JSON(http.StatusOK, task)
}

// UpdateTask edits title, description, category and due date. Column
// and position are changed through MoveTask only.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID := middleware.GetUserID(c)
	taskID := c.Param("id")

	var req models.UpdateTaskRequest
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
		UPDATE tasks
		SET title = $1, description = $2, category_id = $3, due_date = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING `+taskColumns+`
	`, req.Title, req.Description, req.CategoryID, dueDate, taskID, userID)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		log.Printf("Error updating task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	annotateTask(&task, time.Now())
	h.WS.BroadcastUpdate(userID, "task_updated", task.ID)
	c.JSON(http.StatusOK, task)
}

// MoveTask relocates a task to a column position, shifting displaced
// siblings in the same transaction so positions stay dense.
func (h *TaskHandler) MoveTask(c *gin.Context) {
	userID := middleware.GetUserID(c)
	taskID := c.Param("id")

	var req models.MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidTaskStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}
	if *req.Position < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Position must be >= 0"})
		return
	}

	err := utils.WithTransaction(h.DB, func(tx *sql.Tx) error {
		var oldStatus string
		var oldPosition int
		err := tx.QueryRow(`
			SELECT status, position FROM tasks WHERE id = $1 AND user_id = $2 FOR UPDATE
		`, taskID, userID).Scan(&oldStatus, &oldPosition)
		if err != nil {
			return err
		}

		// Close the gap in the source column.
		_, err = tx.Exec(`
			UPDATE tasks SET position = position - 1
			WHERE user_id = $1 AND status = $2 AND position > $3
		`, userID, oldStatus, oldPosition)
		if err != nil {
			return err
		}

		var columnSize int
		err = tx.QueryRow(`
			SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND status = $2 AND id != $3
		`, userID, req.Status, taskID).Scan(&columnSize)
		if err != nil {
			return err
		}

		position := *req.Position
		if position > columnSize {
			position = columnSize
		}

		// Make room in the target column.
		_, err = tx.Exec(`
			UPDATE tasks SET position = position + 1
			WHERE user_id = $1 AND status = $2 AND position >= $3 AND id != $4
		`, userID, req.Status, position, taskID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			UPDATE tasks SET status = $1, position = $2, updated_at = NOW()
			WHERE id = $3 AND user_id = $4
		`, req.Status, position, taskID, userID)
		return err
	})

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		log.Printf("Error moving task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move task"})
		return
	}

	h.WS.BroadcastUpdate(userID, "task_moved", taskID)
	c.JSON(http.StatusOK, gin.H{"message": "Task moved successfully"})
}

// DeleteTask removes a task and closes the position gap it leaves.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID := middleware.GetUserID(c)
	taskID := c.Param("id")

	err := utils.WithTransaction(h.DB, func(tx *sql.Tx) error {
		var status string
		var position int
		err := tx.QueryRow(`
			SELECT status, position FROM tasks WHERE id = $1 AND user_id = $2 FOR UPDATE
		`, taskID, userID).Scan(&status, &position)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(`DELETE FROM tasks WHERE id = $1`, taskID); err != nil {
			return err
		}

		_, err = tx.Exec(`
			UPDATE tasks SET position = position - 1
			WHERE user_id = $1 AND status = $2 AND position > $3
		`, userID, status, position)
		return err
	})

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		log.Printf("Error deleting task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	h.WS.BroadcastUpdate(userID, "task_deleted", taskID)
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
