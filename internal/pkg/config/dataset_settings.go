package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// DatasetServerSettings holds connection settings for the dataset
// lookup server
type DatasetServerSettings struct {
	BaseURL        string `mapstructure:"base_url" validate:"required,url"`
	Token          string `mapstructure:"token"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"omitempty,min=1"`
	VerifySSL      bool   `mapstructure:"verify_ssl"`
}

// Validate checks that all fields in DatasetServerSettings are valid
func (s *DatasetServerSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for DatasetServerSettings: %w", err)
	}
	return nil
}
