package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jotelha/jlhfw/internal/domain/launches"
)

// TaskHandler defines the interface for handling task catalog operations
type TaskHandler interface {
	ListTasks(ctx *gin.Context)
}

// taskHandler struct holds the services
type taskHandler struct {
	taskLaunchService launches.TaskLaunchService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskLaunchService launches.TaskLaunchService) TaskHandler {
	return &taskHandler{
		taskLaunchService: taskLaunchService,
	}
}

// ListTasks returns the resolvable task names grouped by package
func (handler *taskHandler) ListTasks(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, handler.taskLaunchService.ListTasks())
}
