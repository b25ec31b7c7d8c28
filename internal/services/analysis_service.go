package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/talentsift/backend/internal/cache"
	"github.com/talentsift/backend/internal/export"
	"github.com/talentsift/backend/internal/models"
	pgrepo "github.com/talentsift/backend/internal/repositories/postgres"
	"github.com/talentsift/backend/internal/utils"
	"github.com/talentsift/backend/internal/workers"
)

// recentLimit caps the my-analyses listing.
const recentLimit = 10

// cacheTTL is short: a cached row only has to survive a few polls, and the
// runner invalidates on terminal transitions anyway.
const cacheTTL = time.Minute

type Dispatcher interface {
	Dispatch(b workers.Batch)
}

type AnalysisService interface {
	// Start persists the processing row, hands the batch to the background
	// runner, and returns immediately. The client polls Get for the outcome.
	Start(ctx context.Context, userID uint, jobRole, jobDescription string, files []workers.UploadedFile) (*models.ResumeAnalysis, error)
	ListRecent(ctx context.Context, userID uint) ([]models.ResumeAnalysis, error)
	Get(ctx context.Context, id, userID uint) (*models.ResumeAnalysis, error)
	// Export renders a completed batch as a spreadsheet. Jobs that are still
	// processing, failed, or missing a job role are not ready for download.
	Export(ctx context.Context, id, userID uint) (data []byte, filename string, err error)
}

type analysisService struct {
	analyses pgrepo.AnalysisRepository
	runner   Dispatcher
	cache    cache.Cache // optional
}

func NewAnalysisService(analyses pgrepo.AnalysisRepository, runner Dispatcher, c cache.Cache) AnalysisService {
	return &analysisService{analyses: analyses, runner: runner, cache: c}
}

func (s *analysisService) Start(ctx context.Context, userID uint, jobRole, jobDescription string, files []workers.UploadedFile) (*models.ResumeAnalysis, error) {
	const op = "AnalysisService.Start"

	if userID == 0 {
		return nil, utils.E(utils.CodeUnauthorized, op, "unauthorized", nil)
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_description is required", nil)
	}
	if len(files) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "no resumes uploaded", nil)
	}

	a := &models.ResumeAnalysis{
		UserID:         userID,
		JobRole:        jobRole,
		JobDescription: jobDescription,
		Status:         models.StatusProcessing,
	}
	if err := s.analyses.Insert(ctx, a); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create analysis", err)
	}

	s.runner.Dispatch(workers.Batch{
		AnalysisID:     a.ID,
		UserID:         userID,
		JobDescription: jobDescription,
		Files:          files,
	})
	return a, nil
}

func (s *analysisService) ListRecent(ctx context.Context, userID uint) ([]models.ResumeAnalysis, error) {
	const op = "AnalysisService.ListRecent"

	rows, err := s.analyses.ListRecentByUser(ctx, userID, recentLimit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list analyses", err)
	}
	return rows, nil
}

func (s *analysisService) Get(ctx context.Context, id, userID uint) (*models.ResumeAnalysis, error) {
	const op = "AnalysisService.Get"

	key := cache.AnalysisKey(id, userID)
	if s.cache != nil {
		var cached models.ResumeAnalysis
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	a, err := s.analyses.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "analysis not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get analysis", err)
	}

	// Only completed rows are cached. A processing row written here could land
	// after the runner's invalidation and serve a stale status for the rest of
	// its TTL.
	if s.cache != nil && a.Status == models.StatusCompleted {
		_ = s.cache.SetJSON(ctx, key, a, cacheTTL)
	}
	return a, nil
}

func (s *analysisService) Export(ctx context.Context, id, userID uint) ([]byte, string, error) {
	const op = "AnalysisService.Export"

	a, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, "", err
	}
	if a.Status != models.StatusCompleted {
		return nil, "", utils.E(utils.CodeNotFound, op, "analysis is not completed yet", nil)
	}
	if strings.TrimSpace(a.JobRole) == "" {
		return nil, "", utils.E(utils.CodeNotFound, op, "analysis has no job role", nil)
	}

	var results []models.Candidate
	if err := json.Unmarshal(a.RankedResults, &results); err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to decode ranked results", err)
	}

	data, err := export.Workbook(results)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to build spreadsheet", err)
	}
	return data, export.Filename(a.JobRole, time.Now()), nil
}
