package services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/projecthub/backend/models"
)

// ObjectStore is the file storage collaborator. Satisfied by
// utils.SupabaseStore; tests substitute a fake.
type ObjectStore interface {
	Upload(objectPath string, data []byte, contentType string) (string, error)
	PublicURL(objectPath string) string
}

// ProgressFunc receives upload progress as 0-100 for UI consumption.
type ProgressFunc func(teamID string, subType models.SubmissionType, percent int)

type SubmissionService struct {
	DB         *gorm.DB
	Store      ObjectStore
	Cache      *Cache
	OnProgress ProgressFunc
}

func NewSubmissionService(db *gorm.DB, store ObjectStore, cache *Cache) *SubmissionService {
	return &SubmissionService{DB: db, Store: store, Cache: cache}
}

func submissionsCacheKey(teamID uuid.UUID) string {
	return "submissions:" + teamID.String()
}

func (s *SubmissionService) progress(teamID uuid.UUID, t models.SubmissionType, percent int) {
	if s.OnProgress != nil {
		s.OnProgress(teamID.String(), t, percent)
	}
}

// Submit validates the attempt, uploads any attached file, then upserts the
// one record the (team, type) pair owns. Re-submission bumps the version
// under a row lock so concurrent submitters serialize instead of losing
// updates. Validation failures never reach storage or the database.
func (s *SubmissionService) Submit(ctx context.Context, teamID, userID uuid.UUID, in *SubmissionInput) (*models.Submission, error) {
	if verr := ValidatePolicy(in); verr != nil {
		return nil, verr
	}
	if in.HasFile() {
		if verr := ValidateFile(in); verr != nil {
			return nil, verr
		}
	}

	// Reset progress before a new attempt and on any exit.
	s.progress(teamID, in.Type, 0)
	defer s.progress(teamID, in.Type, 0)

	var filePath string
	if in.HasFile() {
		// storage-go gives no native progress events, so this degrades to a
		// 0/100 jump around the single upload call.
		objectPath := fmt.Sprintf("%s/%s/%d%s",
			teamID, in.Type, time.Now().UnixNano(), strings.ToLower(filepath.Ext(in.FileName)))

		contentType := mime.TypeByExtension(filepath.Ext(in.FileName))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		path, err := s.Store.Upload(objectPath, in.FileData, contentType)
		if err != nil {
			return nil, fmt.Errorf("file upload failed: %w", err)
		}
		filePath = path
		s.progress(teamID, in.Type, 100)
	}

	var result models.Submission
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lookup := tx
		// sqlite (tests) serializes writers on its own and rejects FOR UPDATE.
		if tx.Dialector.Name() == "postgres" {
			lookup = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var existing models.Submission
		err := lookup.
			Where("team_id = ? AND type = ?", teamID, in.Type).
			First(&existing).Error

		switch {
		case err == nil:
			// Update in place: unspecified fields keep their prior values.
			existing.Title = in.Title
			existing.Description = in.Description
			if filePath != "" {
				existing.FilePath = filePath
			}
			if in.URL != "" {
				existing.URL = in.URL
			}
			existing.SubmittedBy = userID
			existing.SubmittedAt = time.Now()
			existing.Version++
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			result = existing
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			result = models.Submission{
				TeamID:      teamID,
				Type:        in.Type,
				Title:       in.Title,
				Description: in.Description,
				FilePath:    filePath,
				URL:         in.URL,
				SubmittedAt: time.Now(),
				SubmittedBy: userID,
				Version:     1,
			}
			return tx.Create(&result).Error

		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	s.Cache.Invalidate(ctx, submissionsCacheKey(teamID))
	return &result, nil
}

// SubmissionView is a Submission plus its resolved public file URL.
type SubmissionView struct {
	models.Submission
	FileURL string `json:"file_url,omitempty"`
}

// TeamSubmissions lists a team's submissions latest-first, through the cache.
func (s *SubmissionService) TeamSubmissions(ctx context.Context, teamID uuid.UUID) ([]SubmissionView, error) {
	key := submissionsCacheKey(teamID)

	var views []SubmissionView
	if s.Cache.Get(ctx, key, &views) {
		return views, nil
	}

	var subs []models.Submission
	if err := s.DB.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("submitted_at DESC").
		Find(&subs).Error; err != nil {
		return nil, err
	}

	views = make([]SubmissionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, SubmissionView{
			Submission: sub,
			FileURL:    s.Store.PublicURL(sub.FilePath),
		})
	}

	s.Cache.Set(ctx, key, views)
	return views, nil
}
