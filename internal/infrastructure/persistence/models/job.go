package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/job"
)

// JobModel is the persistence model for job.Job
type JobModel struct {
	TenantAggregateModel
	DisplayID   string     `gorm:"type:varchar(30);not null"`
	Name        string     `gorm:"type:varchar(200);not null"`
	CustomerID  *uuid.UUID `gorm:"type:uuid"`
	Status      string     `gorm:"type:varchar(20);not null;default:'planned'"`
	StartDate   *time.Time
	DueDate     *time.Time
	CompletedAt *time.Time
	Notes       string `gorm:"type:text;not null;default:''"`
}

// TableName returns the table name for GORM
func (JobModel) TableName() string {
	return "jobs"
}

// ToDomain converts the model to a domain Job
func (m *JobModel) ToDomain() *job.Job {
	j := &job.Job{
		DisplayID:   m.DisplayID,
		Name:        m.Name,
		CustomerID:  m.CustomerID,
		Status:      job.Status(m.Status),
		StartDate:   m.StartDate,
		DueDate:     m.DueDate,
		CompletedAt: m.CompletedAt,
		Notes:       m.Notes,
	}
	m.PopulateTenantAggregateRoot(&j.TenantAggregateRoot)
	return j
}

// JobModelFromDomain converts a domain Job to the model
func JobModelFromDomain(j *job.Job) *JobModel {
	m := &JobModel{
		DisplayID:   j.DisplayID,
		Name:        j.Name,
		CustomerID:  j.CustomerID,
		Status:      string(j.Status),
		StartDate:   j.StartDate,
		DueDate:     j.DueDate,
		CompletedAt: j.CompletedAt,
		Notes:       j.Notes,
	}
	m.FromDomainTenantAggregateRoot(j.TenantAggregateRoot)
	return m
}
