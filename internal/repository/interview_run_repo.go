package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CE2L/ICT-Project1-KOR/internal/models"
)

// InterviewRunRepository persists completed analysis runs.
type InterviewRunRepository interface {
	Create(ctx context.Context, run *models.InterviewRun) error
	GetByID(ctx context.Context, id uuid.UUID) (models.InterviewRun, error)
	List(ctx context.Context, limit int) ([]models.InterviewRun, error)
}

type interviewRunRepository struct {
	db *gorm.DB
}

// NewInterviewRunRepository builds a gorm-backed run repository.
func NewInterviewRunRepository(db *gorm.DB) InterviewRunRepository {
	return &interviewRunRepository{db: db}
}

func (r *interviewRunRepository) Create(ctx context.Context, run *models.InterviewRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *interviewRunRepository) GetByID(ctx context.Context, id uuid.UUID) (models.InterviewRun, error) {
	var run models.InterviewRun
	err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error
	return run, err
}

func (r *interviewRunRepository) List(ctx context.Context, limit int) ([]models.InterviewRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var runs []models.InterviewRun
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
