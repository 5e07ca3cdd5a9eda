// Package http provides the HTTP trigger for the task queue runner.
package http

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/booking/internal/errors"
	"github.com/allisson/booking/internal/httputil"
	tasksUseCase "github.com/allisson/booking/internal/tasks/usecase"
)

// RunTasksResponse reports the outcome of a trigger invocation.
type RunTasksResponse struct {
	Success   bool `json:"success"`
	Processed int  `json:"processed"`
	Total     int  `json:"total"`
}

// TaskHandler handles HTTP requests for running due tasks.
type TaskHandler struct {
	taskUseCase   tasksUseCase.TaskUseCase
	triggerSecret string
	logger        *slog.Logger
}

// NewTaskHandler creates a new task handler. An empty triggerSecret leaves
// the endpoint open.
func NewTaskHandler(taskUseCase tasksUseCase.TaskUseCase, triggerSecret string, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		taskUseCase:   taskUseCase,
		triggerSecret: triggerSecret,
		logger:        logger,
	}
}

// RunHandler picks up one batch of due tasks and executes them.
// GET /v1/tasks/run
func (h *TaskHandler) RunHandler(c *gin.Context) {
	if h.triggerSecret != "" {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.triggerSecret)) != 1 {
			httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrUnauthorized, "invalid trigger secret"), h.logger)
			return
		}
	}

	result, err := h.taskUseCase.Run(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, RunTasksResponse{
		Success:   true,
		Processed: result.Processed,
		Total:     result.Total,
	})
}
