package models

import (
	"time"

	"github.com/jotelha/jlhfw/internal/domain/launches"
)

// LaunchModel is the GORM database model for launch records (infrastructure concern)
type LaunchModel struct {
	ID                string    `gorm:"primaryKey;type:uuid"`
	TaskName          string    `gorm:"not null;index;type:varchar(255)"`
	Package           string    `gorm:"not null;type:varchar(255)"`
	State             string    `gorm:"not null;index;type:varchar(20)"`
	LaunchDir         string    `gorm:"not null;type:varchar(1024)"`
	Error             string    `gorm:"type:text"`
	StoredData        []byte    `gorm:"type:bytes"`
	DateTimeCreated   time.Time `gorm:"not null;index"`
	DateTimeCompleted time.Time ``
}

// TableName specifies the table name for GORM
func (LaunchModel) TableName() string {
	return "launches"
}

// ToDomain converts GORM model to domain entity
func (m *LaunchModel) ToDomain() *launches.LaunchMeta {
	return &launches.LaunchMeta{
		ID:                m.ID,
		TaskName:          m.TaskName,
		Package:           m.Package,
		State:             m.State,
		LaunchDir:         m.LaunchDir,
		Error:             m.Error,
		StoredData:        m.StoredData,
		DateTimeCreated:   m.DateTimeCreated,
		DateTimeCompleted: m.DateTimeCompleted,
	}
}

// FromDomain converts domain entity to GORM model
func (m *LaunchModel) FromDomain(l *launches.LaunchMeta) {
	m.ID = l.ID
	m.TaskName = l.TaskName
	m.Package = l.Package
	m.State = l.State
	m.LaunchDir = l.LaunchDir
	m.Error = l.Error
	m.StoredData = l.StoredData
	m.DateTimeCreated = l.DateTimeCreated
	m.DateTimeCompleted = l.DateTimeCompleted
}
