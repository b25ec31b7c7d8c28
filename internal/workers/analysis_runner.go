package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/talentsift/backend/internal/cache"
	"github.com/talentsift/backend/internal/extract"
	"github.com/talentsift/backend/internal/models"
	"github.com/talentsift/backend/internal/ranking"
	pgrepo "github.com/talentsift/backend/internal/repositories/postgres"
	"github.com/talentsift/backend/internal/storage"
)

// Analyzer is the per-resume extraction step. Parse-level failures are
// absorbed inside the implementation; a returned error is unrecoverable and
// fails the whole batch.
type Analyzer interface {
	Analyze(ctx context.Context, resumeText, jobDescription string) (models.Candidate, error)
}

// UploadedFile is a fully-read copy of one multipart upload. The handler reads
// all bytes before the request returns, so the runner never touches request
// state.
type UploadedFile struct {
	Name string
	Data []byte
}

// Batch is the snapshot handed across the async boundary at upload time.
type Batch struct {
	AnalysisID     uint
	UserID         uint
	JobDescription string
	Files          []UploadedFile
}

// AnalysisRunner executes the extract -> analyze -> rank pipeline outside the
// request cycle and records the terminal status. All-or-nothing: any
// unabsorbed error fails the batch with no partial results. No retries; the
// client resubmits a failed batch as a new job.
type AnalysisRunner struct {
	Analyses  pgrepo.AnalysisRepository
	Extractor extract.Extractor
	Analyzer  Analyzer
	Archive   storage.Uploader // optional resume archive
	Cache     cache.Cache      // optional, invalidated on terminal transition
	Logger    *logrus.Logger
}

// Dispatch is fire-and-forget: it returns immediately and the batch runs on
// its own goroutine with a background context, independent of the request.
func (r *AnalysisRunner) Dispatch(b Batch) {
	go r.process(context.Background(), b)
}

func (r *AnalysisRunner) process(ctx context.Context, b Batch) {
	log := r.log().WithFields(logrus.Fields{
		"analysis_id": b.AnalysisID,
		"user_id":     b.UserID,
		"files":       len(b.Files),
	})

	defer func() {
		if p := recover(); p != nil {
			log.WithField("panic", p).Error("analysis pipeline panicked")
			r.fail(ctx, b)
		}
	}()

	candidates := make([]models.Candidate, 0, len(b.Files))
	for _, f := range b.Files {
		text, err := r.Extractor.Text(f.Data)
		if err != nil {
			log.WithError(err).WithField("file", f.Name).Error("text extraction failed")
			r.fail(ctx, b)
			return
		}

		c, err := r.Analyzer.Analyze(ctx, text, b.JobDescription)
		if err != nil {
			log.WithError(err).WithField("file", f.Name).Error("candidate analysis failed")
			r.fail(ctx, b)
			return
		}
		c.FileName = f.Name
		candidates = append(candidates, c)
	}

	ranked := ranking.Rank(candidates)
	payload, err := json.Marshal(ranked)
	if err != nil {
		log.WithError(err).Error("serialize ranked results")
		r.fail(ctx, b)
		return
	}

	if err := r.Analyses.MarkCompleted(ctx, b.AnalysisID, len(ranked), datatypes.JSON(payload)); err != nil {
		log.WithError(err).Error("mark analysis completed")
		return
	}
	r.invalidate(ctx, b)
	r.archive(ctx, b, log)

	log.Info("analysis completed")
}

func (r *AnalysisRunner) fail(ctx context.Context, b Batch) {
	if err := r.Analyses.MarkFailed(ctx, b.AnalysisID); err != nil {
		r.log().WithError(err).WithField("analysis_id", b.AnalysisID).Error("mark analysis failed")
		return
	}
	r.invalidate(ctx, b)
}

func (r *AnalysisRunner) invalidate(ctx context.Context, b Batch) {
	if r.Cache == nil {
		return
	}
	_ = r.Cache.Del(ctx, cache.AnalysisKey(b.AnalysisID, b.UserID))
}

// archive is best-effort: storage trouble never changes the batch outcome.
func (r *AnalysisRunner) archive(ctx context.Context, b Batch, log *logrus.Entry) {
	if r.Archive == nil {
		return
	}
	for _, f := range b.Files {
		objectName := fmt.Sprintf("resumes/%d/%d/%s.pdf", b.UserID, b.AnalysisID, uuid.NewString())
		if _, err := r.Archive.Upload(ctx, objectName, "application/pdf", bytes.NewReader(f.Data)); err != nil {
			log.WithError(err).WithField("file", f.Name).Warn("resume archive upload failed")
		}
	}
}

func (r *AnalysisRunner) log() *logrus.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return logrus.StandardLogger()
}
