package launches

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Launch states
const (
	StateCompleted = "COMPLETED"
	StateFizzled   = "FIZZLED"
)

// LaunchMeta is the record kept for a single task execution.
type LaunchMeta struct {
	ID                string    `validate:"required,uuid"`
	TaskName          string    `validate:"required"`
	Package           string    `validate:"required"`
	State             string    `validate:"required,oneof=COMPLETED FIZZLED"`
	LaunchDir         string    `validate:"required"`
	Error             string    ``
	StoredData        []byte    ``
	DateTimeCreated   time.Time `validate:"required"`
	DateTimeCompleted time.Time ``
}

// Validate checks the launch record before persisting it.
func (l *LaunchMeta) Validate() error {
	validate := validator.New()

	err := validate.Struct(l)
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

// LaunchQuery filters and paginates launch listings.
type LaunchQuery struct {
	TaskName        string
	State           string    `validate:"omitempty,oneof=COMPLETED FIZZLED"`
	DateTimeCreated time.Time

	Limit  int    `validate:"omitempty,min=1"`
	Offset int    `validate:"omitempty,min=0"`
	SortBy string `validate:"omitempty,oneof=task_name state date_time_created"`
	// SortOrder defines the order of the result: asc or desc
	SortOrder string `validate:"omitempty,oneof=asc desc"`
}

// NewLaunchQuery creates a LaunchQuery with sane pagination defaults.
func NewLaunchQuery() *LaunchQuery {
	return &LaunchQuery{
		Limit:     10,
		Offset:    0,
		SortBy:    "date_time_created",
		SortOrder: "desc",
	}
}

// Validate checks query parameters before hitting the repository.
func (q *LaunchQuery) Validate() error {
	validate := validator.New()

	err := validate.Struct(q)
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
