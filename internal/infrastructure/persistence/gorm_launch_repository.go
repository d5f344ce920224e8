package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jotelha/jlhfw/internal/domain/launches"
	"github.com/jotelha/jlhfw/internal/infrastructure/persistence/models"
	"github.com/jotelha/jlhfw/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormLaunchRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormLaunchRepository creates a new GORM-based LaunchRepository implementation
func NewGormLaunchRepository(db *gorm.DB, logger logger.Logger) (launches.LaunchRepository, error) {
	return &gormLaunchRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormLaunchRepository) Create(ctx context.Context, launch *launches.LaunchMeta) error {
	// Validate domain entity (business rules)
	if err := launch.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	// Convert to GORM model
	model := &models.LaunchModel{}
	model.FromDomain(launch)

	// Persist to database
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create launch record: %w", err)
	}

	r.logger.Info("Created launch record with id ", launch.ID)
	return nil
}

func (r *gormLaunchRepository) List(ctx context.Context, query *launches.LaunchQuery) ([]*launches.LaunchMeta, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query parameters: %w", err)
	}

	var modelList []*models.LaunchModel
	dbQuery := r.db.WithContext(ctx).Model(&models.LaunchModel{})

	// Apply filters
	if query.TaskName != "" {
		dbQuery = dbQuery.Where("task_name LIKE ?", "%"+query.TaskName+"%")
	}
	if query.State != "" {
		dbQuery = dbQuery.Where("state = ?", query.State)
	}
	if !query.DateTimeCreated.IsZero() {
		dbQuery = dbQuery.Where("date_time_created >= ?", query.DateTimeCreated)
	}

	// Sorting
	if query.SortBy != "" {
		order := query.SortOrder
		if order == "" {
			order = "asc"
		}
		dbQuery = dbQuery.Order(fmt.Sprintf("%s %s", query.SortBy, order))
	}

	// Pagination
	if query.Limit > 0 {
		dbQuery = dbQuery.Limit(query.Limit)
	}
	if query.Offset > 0 {
		dbQuery = dbQuery.Offset(query.Offset)
	}

	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch launch records: %w", err)
	}

	// Convert to domain models
	domainList := make([]*launches.LaunchMeta, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}

	return domainList, nil
}

func (r *gormLaunchRepository) GetByID(ctx context.Context, id string) (*launches.LaunchMeta, error) {
	var model models.LaunchModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("launch record with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to fetch launch record: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormLaunchRepository) DeleteByID(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.LaunchModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete launch record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("launch record with ID %s not found", id)
	}

	r.logger.Info("Deleted launch record with id ", id)
	return nil
}
