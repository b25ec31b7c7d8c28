package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/talentsift/backend/internal/models"
	"github.com/talentsift/backend/internal/utils"
	"github.com/talentsift/backend/internal/workers"
)

type fakeAnalysisRepo struct {
	rows   map[uint]*models.ResumeAnalysis
	nextID uint
}

func newFakeAnalysisRepo() *fakeAnalysisRepo {
	return &fakeAnalysisRepo{rows: make(map[uint]*models.ResumeAnalysis)}
}

func (f *fakeAnalysisRepo) Insert(_ context.Context, a *models.ResumeAnalysis) error {
	f.nextID++
	a.ID = f.nextID
	copy := *a
	f.rows[a.ID] = &copy
	return nil
}

func (f *fakeAnalysisRepo) GetByIDAndUser(_ context.Context, id, userID uint) (*models.ResumeAnalysis, error) {
	a, ok := f.rows[id]
	if !ok || a.UserID != userID {
		return nil, utils.ErrNotFound
	}
	copy := *a
	return &copy, nil
}

func (f *fakeAnalysisRepo) ListRecentByUser(_ context.Context, userID uint, limit int) ([]models.ResumeAnalysis, error) {
	var out []models.ResumeAnalysis
	for id := f.nextID; id >= 1 && len(out) < limit; id-- {
		if a, ok := f.rows[id]; ok && a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAnalysisRepo) MarkCompleted(_ context.Context, id uint, totalResumes int, rankedResults datatypes.JSON) error {
	a := f.rows[id]
	if a.Status != models.StatusProcessing {
		return nil
	}
	a.TotalResumes = totalResumes
	a.RankedResults = rankedResults
	a.Status = models.StatusCompleted
	return nil
}

func (f *fakeAnalysisRepo) MarkFailed(_ context.Context, id uint) error {
	a := f.rows[id]
	if a.Status != models.StatusProcessing {
		return nil
	}
	a.Status = models.StatusFailed
	return nil
}

type fakeResultsCache struct {
	entries map[string][]byte
}

func newFakeResultsCache() *fakeResultsCache {
	return &fakeResultsCache{entries: make(map[string][]byte)}
}

func (f *fakeResultsCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	b, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (f *fakeResultsCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	f.entries[key] = b
	return nil
}

func (f *fakeResultsCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.entries, k)
	}
	return nil
}

type fakeDispatcher struct {
	batches []workers.Batch
}

func (f *fakeDispatcher) Dispatch(b workers.Batch) {
	f.batches = append(f.batches, b)
}

func TestStart(t *testing.T) {
	repo := newFakeAnalysisRepo()
	disp := &fakeDispatcher{}
	svc := NewAnalysisService(repo, disp, nil)
	ctx := context.Background()

	files := []workers.UploadedFile{
		{Name: "a.pdf", Data: []byte("%PDF-a")},
		{Name: "b.pdf", Data: []byte("%PDF-b")},
	}

	a, err := svc.Start(ctx, 1, "Backend Engineer", "Go experience required", files)
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if a.ID == 0 {
		t.Error("analysis not persisted before dispatch")
	}
	if a.Status != models.StatusProcessing {
		t.Errorf("status = %q, want processing", a.Status)
	}

	if len(disp.batches) != 1 {
		t.Fatalf("dispatched %d batches, want 1", len(disp.batches))
	}
	b := disp.batches[0]
	if b.AnalysisID != a.ID || b.UserID != 1 {
		t.Errorf("batch keys wrong: %+v", b)
	}
	if b.JobDescription != "Go experience required" {
		t.Errorf("batch job description = %q", b.JobDescription)
	}
	if len(b.Files) != 2 || b.Files[0].Name != "a.pdf" {
		t.Errorf("batch files wrong: %+v", b.Files)
	}
}

func TestStart_Validation(t *testing.T) {
	svc := NewAnalysisService(newFakeAnalysisRepo(), &fakeDispatcher{}, nil)
	ctx := context.Background()
	files := []workers.UploadedFile{{Name: "a.pdf", Data: []byte("x")}}

	if _, err := svc.Start(ctx, 1, "Role", "  ", files); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Errorf("blank job description: got %v, want invalid_argument", err)
	}
	if _, err := svc.Start(ctx, 1, "Role", "jd", nil); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Errorf("no files: got %v, want invalid_argument", err)
	}
	if _, err := svc.Start(ctx, 0, "Role", "jd", files); !utils.IsCode(err, utils.CodeUnauthorized) {
		t.Errorf("no user: got %v, want unauthorized", err)
	}
}

func TestGet_ScopedToOwner(t *testing.T) {
	repo := newFakeAnalysisRepo()
	svc := NewAnalysisService(repo, &fakeDispatcher{}, nil)
	ctx := context.Background()

	a, err := svc.Start(ctx, 1, "Role", "jd", []workers.UploadedFile{{Name: "a.pdf", Data: []byte("x")}})
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if _, err := svc.Get(ctx, a.ID, 1); err != nil {
		t.Errorf("owner Get() error: %v", err)
	}
	if _, err := svc.Get(ctx, a.ID, 2); !utils.IsCode(err, utils.CodeNotFound) {
		t.Errorf("foreign Get(): got %v, want not_found", err)
	}
	if _, err := svc.Get(ctx, 9999, 1); !utils.IsCode(err, utils.CodeNotFound) {
		t.Errorf("missing Get(): got %v, want not_found", err)
	}
}

func TestGet_CachesOnlyCompletedRows(t *testing.T) {
	repo := newFakeAnalysisRepo()
	c := newFakeResultsCache()
	svc := NewAnalysisService(repo, &fakeDispatcher{}, c)
	ctx := context.Background()

	a, err := svc.Start(ctx, 1, "Role", "jd", []workers.UploadedFile{{Name: "a.pdf", Data: []byte("x")}})
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	got, err := svc.Get(ctx, a.ID, 1)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Status != models.StatusProcessing {
		t.Fatalf("status = %q, want processing", got.Status)
	}
	if len(c.entries) != 0 {
		t.Fatal("a processing row was written to the cache")
	}

	payload, _ := json.Marshal([]models.Candidate{{FileName: "a.pdf", MatchScore: 50}})
	if err := repo.MarkCompleted(ctx, a.ID, 1, payload); err != nil {
		t.Fatalf("MarkCompleted() error: %v", err)
	}

	// The poll after completion must see the terminal state, then the
	// completed row may be cached.
	got, err = svc.Get(ctx, a.ID, 1)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Status != models.StatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}
	if len(c.entries) != 1 {
		t.Errorf("completed row not cached: %d entries", len(c.entries))
	}

	var cached models.ResumeAnalysis
	for _, b := range c.entries {
		if err := json.Unmarshal(b, &cached); err != nil {
			t.Fatalf("cached entry is not JSON: %v", err)
		}
	}
	if cached.Status != models.StatusCompleted {
		t.Errorf("cached status = %q, want completed", cached.Status)
	}
}

func TestGet_ServesCachedCompletedRow(t *testing.T) {
	repo := newFakeAnalysisRepo()
	c := newFakeResultsCache()
	svc := NewAnalysisService(repo, &fakeDispatcher{}, c)
	ctx := context.Background()

	a, err := svc.Start(ctx, 1, "Role", "jd", []workers.UploadedFile{{Name: "a.pdf", Data: []byte("x")}})
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	payload, _ := json.Marshal([]models.Candidate{{FileName: "a.pdf", MatchScore: 50}})
	if err := repo.MarkCompleted(ctx, a.ID, 1, payload); err != nil {
		t.Fatalf("MarkCompleted() error: %v", err)
	}

	if _, err := svc.Get(ctx, a.ID, 1); err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	// Remove the row; a cache hit must still serve it.
	delete(repo.rows, a.ID)
	got, err := svc.Get(ctx, a.ID, 1)
	if err != nil {
		t.Fatalf("cached Get() error: %v", err)
	}
	if got.Status != models.StatusCompleted || got.ID != a.ID {
		t.Errorf("cached row wrong: %+v", got)
	}
}

func TestListRecent(t *testing.T) {
	repo := newFakeAnalysisRepo()
	svc := NewAnalysisService(repo, &fakeDispatcher{}, nil)
	ctx := context.Background()

	files := []workers.UploadedFile{{Name: "a.pdf", Data: []byte("x")}}
	for i := 0; i < 12; i++ {
		if _, err := svc.Start(ctx, 1, "Role", "jd", files); err != nil {
			t.Fatalf("Start() error: %v", err)
		}
	}
	if _, err := svc.Start(ctx, 2, "Role", "jd", files); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	rows, err := svc.ListRecent(ctx, 1)
	if err != nil {
		t.Fatalf("ListRecent() error: %v", err)
	}
	if len(rows) != recentLimit {
		t.Errorf("got %d rows, want %d", len(rows), recentLimit)
	}
	for _, r := range rows {
		if r.UserID != 1 {
			t.Errorf("listing leaked row owned by user %d", r.UserID)
		}
	}
}

func TestExport(t *testing.T) {
	repo := newFakeAnalysisRepo()
	svc := NewAnalysisService(repo, &fakeDispatcher{}, nil)
	ctx := context.Background()

	a, err := svc.Start(ctx, 1, "Backend Engineer", "jd", []workers.UploadedFile{{Name: "a.pdf", Data: []byte("x")}})
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	// Still processing: no download yet.
	if _, _, err := svc.Export(ctx, a.ID, 1); !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("processing Export(): got %v, want not_found", err)
	}

	ranked := []models.Candidate{{FileName: "a.pdf", Name: "Jane", MatchScore: 80, InterviewPriority: models.PriorityHigh}}
	payload, _ := json.Marshal(ranked)
	if err := repo.MarkCompleted(ctx, a.ID, 1, payload); err != nil {
		t.Fatalf("MarkCompleted() error: %v", err)
	}

	data, filename, err := svc.Export(ctx, a.ID, 1)
	if err != nil {
		t.Fatalf("completed Export() error: %v", err)
	}
	if len(data) == 0 {
		t.Error("Export() returned empty workbook")
	}
	if !strings.HasPrefix(filename, "Backend_Engineer_") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("filename = %q", filename)
	}
}

func TestExport_BlankJobRole(t *testing.T) {
	repo := newFakeAnalysisRepo()
	svc := NewAnalysisService(repo, &fakeDispatcher{}, nil)
	ctx := context.Background()

	a, err := svc.Start(ctx, 1, "  ", "jd", []workers.UploadedFile{{Name: "a.pdf", Data: []byte("x")}})
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	payload, _ := json.Marshal([]models.Candidate{})
	if err := repo.MarkCompleted(ctx, a.ID, 0, payload); err != nil {
		t.Fatalf("MarkCompleted() error: %v", err)
	}

	if _, _, err := svc.Export(ctx, a.ID, 1); !utils.IsCode(err, utils.CodeNotFound) {
		t.Errorf("blank role Export(): got %v, want not_found", err)
	}
}
