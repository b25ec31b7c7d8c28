package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/talentsift/backend/internal/models"
	"github.com/talentsift/backend/internal/providers/llm"
)

// maxResumeChars bounds the resume excerpt embedded in the prompt.
const maxResumeChars = 4000

// Analyzer extracts structured candidate data and a match score from resume
// text via the LLM provider. Unparseable model output is absorbed into a
// fallback record so one bad response never fails a whole batch; transport
// errors propagate to the caller.
type Analyzer struct {
	provider llm.Provider
}

func New(provider llm.Provider) *Analyzer {
	return &Analyzer{provider: provider}
}

func (a *Analyzer) Analyze(ctx context.Context, resumeText, jobDescription string) (models.Candidate, error) {
	raw, err := a.provider.GenerateContent(ctx, buildPrompt(jobDescription, truncate(resumeText)))
	if err != nil {
		return models.Candidate{}, fmt.Errorf("generate content: %w", err)
	}

	// Schema-constrained responses parse directly; free-text responses may
	// wrap the JSON in code fences.
	var c models.Candidate
	if err := json.Unmarshal([]byte(raw), &c); err == nil {
		return c, nil
	}
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &c); err == nil {
		return c, nil
	}
	return fallback(), nil
}

func buildPrompt(jobDescription, resumeExcerpt string) string {
	var sb strings.Builder
	sb.WriteString("Extract candidate information from the resume and compare with job description.\n\n")
	sb.WriteString("Job Description:\n")
	sb.WriteString(jobDescription)
	sb.WriteString("\n\nResume:\n")
	sb.WriteString(resumeExcerpt)
	return sb.String()
}

// truncate bounds the excerpt to maxResumeChars characters, not bytes, so
// multi-byte resumes keep the same amount of text as ASCII ones.
func truncate(s string) string {
	if len(s) <= maxResumeChars {
		return s
	}
	r := []rune(s)
	if len(r) <= maxResumeChars {
		return s
	}
	return string(r[:maxResumeChars])
}

func stripCodeFence(input string) string {
	clean := strings.TrimSpace(input)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

func fallback() models.Candidate {
	return models.Candidate{
		Name:              "Not Found",
		ContactNumber:     "Not Found",
		Email:             "Not Found",
		MatchScore:        0,
		InterviewPriority: models.PriorityLow,
	}
}
