package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jotelha/jlhfw/internal/domain/launches"
	"github.com/jotelha/jlhfw/internal/domain/tasks"
)

// LaunchRequest is the payload for launching a task
type LaunchRequest struct {
	TaskName string         `json:"task_name" validate:"required"`
	Params   map[string]any `json:"params"`
	FWSpec   map[string]any `json:"fw_spec"`
}

// Validate checks the launch request fields
func (r *LaunchRequest) Validate() error {
	validate := validator.New()

	err := validate.Struct(r)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}

// LaunchResponse describes a recorded launch, optionally with the
// action the task produced
type LaunchResponse struct {
	ID                string          `json:"id"`
	TaskName          string          `json:"task_name"`
	Package           string          `json:"package"`
	State             string          `json:"state"`
	LaunchDir         string          `json:"launch_dir"`
	Error             string          `json:"error,omitempty"`
	StoredData        json.RawMessage `json:"stored_data,omitempty"`
	DateTimeCreated   time.Time       `json:"date_time_created"`
	DateTimeCompleted time.Time       `json:"date_time_completed"`
	Action            *tasks.Action   `json:"action,omitempty"`
}

// NewLaunchResponse maps a launch record to its response form
func NewLaunchResponse(meta *launches.LaunchMeta, action *tasks.Action) LaunchResponse {
	return LaunchResponse{
		ID:                meta.ID,
		TaskName:          meta.TaskName,
		Package:           meta.Package,
		State:             meta.State,
		LaunchDir:         meta.LaunchDir,
		Error:             meta.Error,
		StoredData:        meta.StoredData,
		DateTimeCreated:   meta.DateTimeCreated,
		DateTimeCompleted: meta.DateTimeCompleted,
		Action:            action,
	}
}

// ErrorResponse carries an error message
type ErrorResponse struct {
	Message string `json:"message"`
}

// InfoResponse carries an informational message
type InfoResponse struct {
	Message string `json:"message"`
}
