package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/jotelha/jlhfw/internal/domain/launches"
)

// SetupRoutes sets up all the API routes for version 1.
func SetupRoutes(r *gin.Engine,
	taskLaunchService launches.TaskLaunchService,
	launchMetadataService launches.LaunchMetadataService) {

	v1 := r.Group(BasePath) // lookup in version file

	// Launch Routes
	launchHandler := NewLaunchHandler(taskLaunchService, launchMetadataService)
	v1.POST("/launches", launchHandler.Launch)
	v1.GET("/launches", launchHandler.ListMetadata)
	v1.GET("/launches/:id", launchHandler.GetMetadataByID)
	v1.DELETE("/launches/:id", launchHandler.DeleteByID)

	// Task catalog Routes
	taskHandler := NewTaskHandler(taskLaunchService)
	v1.GET("/tasks", taskHandler.ListTasks)
}
