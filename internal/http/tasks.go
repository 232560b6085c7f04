package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/library-api/internal/tasks"
)

// TasksController handles task queue management endpoints.
type TasksController struct {
	queue         TaskQueue
	retentionDays int
}

// NewTasksController creates a new TasksController. A nil queue means the
// task queue is disabled and every endpoint answers 503.
func NewTasksController(queue TaskQueue, retentionDays int) *TasksController {
	return &TasksController{queue: queue, retentionDays: retentionDays}
}

// TaskInfo represents basic information about a task.
type TaskInfo struct {
	ID     string `json:"id"`
	Type   string `json:"type,omitempty"`
	Status string `json:"status"`
}

type auditCleanupRequest struct {
	RetentionDays int `json:"retention_days" binding:"omitempty,min=1"`
}

func (tc *TasksController) available(c *gin.Context) bool {
	if tc.queue == nil {
		respondError(c, http.StatusServiceUnavailable, CodeUnavailable, "task queue is disabled")
		return false
	}
	return true
}

// RunAuditCleanup handles POST /tasks/audit-cleanup
// The body is optional; retention_days overrides the configured retention.
func (tc *TasksController) RunAuditCleanup(c *gin.Context) {
	if !tc.available(c) {
		return
	}

	var req auditCleanupRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, err)
			return
		}
	}
	if req.RetentionDays == 0 {
		req.RetentionDays = tc.retentionDays
	}

	task := tasks.CleanupAuditEventsTask{RetentionDays: req.RetentionDays}
	id, err := tc.queue.Enqueue(task)
	if err != nil {
		respondInternalError(c, err, "enqueue audit cleanup")
		return
	}

	c.JSON(http.StatusAccepted, TaskInfo{
		ID:     id,
		Type:   task.Config().Name,
		Status: tasks.StatusName(backlite.TaskStatusPending),
	})
}

// GetTaskStatus handles GET /tasks/:id
// Returns the status of a specific task.
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	if !tc.available(c) {
		return
	}

	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}
	if status == backlite.TaskStatusNotFound {
		respondNotFound(c, "task not found")
		return
	}

	c.JSON(http.StatusOK, TaskInfo{ID: taskID, Status: tasks.StatusName(status)})
}
