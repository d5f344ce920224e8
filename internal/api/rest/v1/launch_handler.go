package v1

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jotelha/jlhfw/internal/domain/launches"
	"github.com/jotelha/jlhfw/internal/domain/spec"
)

// LaunchHandler defines the interface for handling launch-related operations
type LaunchHandler interface {
	Launch(ctx *gin.Context)
	ListMetadata(ctx *gin.Context)
	GetMetadataByID(ctx *gin.Context)
	DeleteByID(ctx *gin.Context)
}

// launchHandler struct holds the services
type launchHandler struct {
	taskLaunchService     launches.TaskLaunchService
	launchMetadataService launches.LaunchMetadataService
}

// NewLaunchHandler creates a new LaunchHandler
func NewLaunchHandler(taskLaunchService launches.TaskLaunchService, launchMetadataService launches.LaunchMetadataService) LaunchHandler {
	return &launchHandler{
		taskLaunchService:     taskLaunchService,
		launchMetadataService: launchMetadataService,
	}
}

// Launch runs a task against a firework spec. A completed launch yields
// 201 with the task's action; a fizzled launch is still recorded and
// yields 200 with the error carried in the response body.
func (handler *launchHandler) Launch(ctx *gin.Context) {
	var request LaunchRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = "invalid request body"
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	if err := request.Validate(); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("validation failed: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	action, meta, err := handler.taskLaunchService.Launch(ctx, request.TaskName, spec.Spec(request.Params), spec.Spec(request.FWSpec))
	if err != nil {
		if meta == nil {
			var errorResponse ErrorResponse
			errorResponse.Message = fmt.Sprintf("error launching task: %v", err.Error())
			ctx.JSON(http.StatusBadRequest, errorResponse)
			return
		}
		ctx.JSON(http.StatusOK, NewLaunchResponse(meta, nil))
		return
	}

	ctx.JSON(http.StatusCreated, NewLaunchResponse(meta, action))
}

// ListMetadata fetches launch records optionally with query parameters
func (handler *launchHandler) ListMetadata(ctx *gin.Context) {
	query := launches.NewLaunchQuery()

	if taskName := ctx.Query("taskName"); len(taskName) > 0 {
		query.TaskName = taskName
	}

	if state := ctx.Query("state"); len(state) > 0 {
		query.State = state
	}

	if dateTimeCreated := ctx.Query("dateTimeCreated"); len(dateTimeCreated) > 0 {
		parsedTime, err := time.Parse(time.RFC3339, dateTimeCreated)
		if err == nil {
			query.DateTimeCreated = parsedTime
		}
	}

	if limit := ctx.Query("limit"); len(limit) > 0 {
		if parsed, err := strconv.Atoi(limit); err == nil {
			query.Limit = parsed
		}
	}

	if offset := ctx.Query("offset"); len(offset) > 0 {
		if parsed, err := strconv.Atoi(offset); err == nil {
			query.Offset = parsed
		}
	}

	if sortBy := ctx.Query("sortBy"); len(sortBy) > 0 {
		query.SortBy = sortBy
	}

	if sortOrder := ctx.Query("sortOrder"); len(sortOrder) > 0 {
		query.SortOrder = sortOrder
	}

	if err := query.Validate(); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("validation failed: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	launchMetas, err := handler.launchMetadataService.List(ctx, query)
	if err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("list query failed: %v", err.Error())
		ctx.JSON(http.StatusNotFound, errorResponse)
		return
	}

	var listResponse = []LaunchResponse{}
	for _, launchMeta := range launchMetas {
		listResponse = append(listResponse, NewLaunchResponse(launchMeta, nil))
	}

	ctx.JSON(http.StatusOK, listResponse)
}

// GetMetadataByID fetches a launch record by ID
func (handler *launchHandler) GetMetadataByID(ctx *gin.Context) {
	launchID := ctx.Param("id")

	launchMeta, err := handler.launchMetadataService.GetByID(ctx, launchID)
	if err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("launch with id %s not found", launchID)
		ctx.JSON(http.StatusNotFound, errorResponse)
		return
	}

	ctx.JSON(http.StatusOK, NewLaunchResponse(launchMeta, nil))
}

// DeleteByID deletes a launch record by ID
func (handler *launchHandler) DeleteByID(ctx *gin.Context) {
	launchID := ctx.Param("id")

	if err := handler.launchMetadataService.DeleteByID(ctx, launchID); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("launch with id %s not found", launchID)
		ctx.JSON(http.StatusNotFound, errorResponse)
		return
	}

	var infoResponse InfoResponse
	infoResponse.Message = fmt.Sprintf("deleted launch with id %s", launchID)
	ctx.JSON(http.StatusNoContent, infoResponse)
}
