package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/talentsift/backend/internal/models"
	"github.com/talentsift/backend/internal/services"
	"github.com/talentsift/backend/internal/utils"
	"github.com/talentsift/backend/internal/workers"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxResumeBytes caps a single uploaded resume.
const maxResumeBytes = 10 << 20

type AnalysisHandler struct {
	svc services.AnalysisService
}

func NewAnalysisHandler(svc services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

// Analyze reads every uploaded file into memory, creates the processing row,
// and returns before any extraction or AI work starts.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	const op = "AnalysisHandler.Analyze"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid multipart form", err))
		return
	}

	jobDescription := c.PostForm("job_description")
	jobRole := c.PostForm("job_role")

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "no resumes uploaded", nil))
		return
	}

	files := make([]workers.UploadedFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != ".pdf" {
			writeError(c, utils.E(utils.CodeInvalidArgument, op, "only .pdf files are allowed", nil))
			return
		}
		if fh.Size <= 0 {
			writeError(c, utils.E(utils.CodeInvalidArgument, op, "empty file", nil))
			return
		}
		if fh.Size > maxResumeBytes {
			writeError(c, utils.E(utils.CodeInvalidArgument, op, "file too large (max 10MB)", nil))
			return
		}

		f, err := fh.Open()
		if err != nil {
			writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(c, utils.E(utils.CodeInternal, op, "failed to read upload", err))
			return
		}
		files = append(files, workers.UploadedFile{Name: fh.Filename, Data: data})
	}

	a, err := h.svc.Start(c.Request.Context(), userID, jobRole, jobDescription, files)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analysis_id": a.ID,
		"status":      a.Status,
		"message":     "Analysis started. Poll the analysis for results.",
	})
}

func (h *AnalysisHandler) MyAnalyses(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListRecent(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, a := range rows {
		out = append(out, gin.H{
			"analysis_id":   a.ID,
			"job_role":      a.JobRole,
			"total_resumes": a.TotalResumes,
			"status":        a.Status,
			"created_at":    a.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *AnalysisHandler) Get(c *gin.Context) {
	const op = "AnalysisHandler.Get"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, ok := analysisID(c)
	if !ok {
		writeError(c, utils.E(utils.CodeNotFound, op, "analysis not found", nil))
		return
	}

	a, err := h.svc.Get(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{
		"analysis_id":   a.ID,
		"job_role":      a.JobRole,
		"total_resumes": a.TotalResumes,
		"status":        a.Status,
		"created_at":    a.CreatedAt,
	}
	if a.Status == models.StatusCompleted {
		resp["results"] = a.RankedResults
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AnalysisHandler) Download(c *gin.Context) {
	const op = "AnalysisHandler.Download"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, ok := analysisID(c)
	if !ok {
		writeError(c, utils.E(utils.CodeNotFound, op, "analysis not found", nil))
		return
	}

	data, filename, err := h.svc.Export(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func analysisID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
