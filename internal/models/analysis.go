package models

import (
	"time"

	"gorm.io/datatypes"
)

type AnalysisStatus string

const (
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

// ResumeAnalysis is one batch of uploaded resumes analyzed against a single
// job description. RankedResults stays null until the background runner marks
// the batch completed; processing -> completed|failed is the only transition
// and terminal states are final.
type ResumeAnalysis struct {
	ID             uint           `gorm:"column:id;primaryKey" json:"id"`
	UserID         uint           `gorm:"column:user_id;index;not null" json:"user_id"`
	JobRole        string         `gorm:"column:job_role;type:text" json:"job_role"`
	JobDescription string         `gorm:"column:job_description;type:text" json:"job_description"`
	TotalResumes   int            `gorm:"column:total_resumes" json:"total_resumes"`
	RankedResults  datatypes.JSON `gorm:"column:ranked_results" json:"ranked_results,omitempty"`
	Status         AnalysisStatus `gorm:"column:status;type:text;default:processing" json:"status"`
	CreatedAt      time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (ResumeAnalysis) TableName() string { return "resume_analyses" }
