package postgres

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/talentsift/backend/internal/models"
	"github.com/talentsift/backend/internal/utils"
)

type AnalysisRepository interface {
	Insert(ctx context.Context, a *models.ResumeAnalysis) error
	// GetByIDAndUser enforces per-user visibility: a row owned by another
	// user is indistinguishable from a missing one.
	GetByIDAndUser(ctx context.Context, id, userID uint) (*models.ResumeAnalysis, error)
	ListRecentByUser(ctx context.Context, userID uint, limit int) ([]models.ResumeAnalysis, error)
	MarkCompleted(ctx context.Context, id uint, totalResumes int, rankedResults datatypes.JSON) error
	MarkFailed(ctx context.Context, id uint) error
}

type analysisRepo struct {
	db *gorm.DB
}

func NewAnalysisRepo(db *gorm.DB) AnalysisRepository {
	return &analysisRepo{db: db}
}

func (r *analysisRepo) Insert(ctx context.Context, a *models.ResumeAnalysis) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *analysisRepo) GetByIDAndUser(ctx context.Context, id, userID uint) (*models.ResumeAnalysis, error) {
	var row models.ResumeAnalysis
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *analysisRepo) ListRecentByUser(ctx context.Context, userID uint, limit int) ([]models.ResumeAnalysis, error) {
	var rows []models.ResumeAnalysis
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// MarkCompleted and MarkFailed guard on status=processing so terminal states
// stay final even if a runner is somehow duplicated.

func (r *analysisRepo) MarkCompleted(ctx context.Context, id uint, totalResumes int, rankedResults datatypes.JSON) error {
	return r.db.WithContext(ctx).
		Model(&models.ResumeAnalysis{}).
		Where("id = ? AND status = ?", id, models.StatusProcessing).
		Updates(map[string]any{
			"total_resumes":  totalResumes,
			"ranked_results": rankedResults,
			"status":         models.StatusCompleted,
		}).Error
}

func (r *analysisRepo) MarkFailed(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.ResumeAnalysis{}).
		Where("id = ? AND status = ?", id, models.StatusProcessing).
		Update("status", models.StatusFailed).Error
}
