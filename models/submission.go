package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmissionType string

const (
	SubmissionAbstract     SubmissionType = "abstract"
	SubmissionPresentation SubmissionType = "presentation"
	SubmissionVideo        SubmissionType = "video"
	SubmissionGithub       SubmissionType = "github"
	SubmissionDemo         SubmissionType = "demo"
	SubmissionReport       SubmissionType = "report"
)

func (t SubmissionType) Valid() bool {
	switch t {
	case SubmissionAbstract, SubmissionPresentation, SubmissionVideo,
		SubmissionGithub, SubmissionDemo, SubmissionReport:
		return true
	}
	return false
}

// Submission holds the latest deliverable per (team, type). Re-submission
// overwrites the row and bumps Version; rows are never deleted.
type Submission struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TeamID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_team_type" json:"team_id"`
	Type        SubmissionType `gorm:"type:varchar(20);not null;uniqueIndex:idx_team_type" json:"type"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	FilePath    string         `gorm:"type:text" json:"file_path,omitempty"`
	URL         string         `gorm:"type:text" json:"url,omitempty"`
	SubmittedAt time.Time      `gorm:"not null" json:"submitted_at"`
	SubmittedBy uuid.UUID      `gorm:"type:uuid;not null" json:"submitted_by"`
	Version     int            `gorm:"not null;default:1" json:"version"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
