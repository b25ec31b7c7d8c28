package models

const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Candidate is the per-resume extraction result. It is never persisted on its
// own; the ranked slice is serialized into ResumeAnalysis.RankedResults.
type Candidate struct {
	FileName          string  `json:"file_name"`
	Name              string  `json:"name"`
	ContactNumber     string  `json:"contact_number"`
	Email             string  `json:"email"`
	MatchScore        float64 `json:"match_score"`
	InterviewPriority string  `json:"interview_priority"`
}
