package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/projecthub/backend/models"
)

type fakeStore struct {
	uploads  int
	lastPath string
	failNext bool
}

func (f *fakeStore) Upload(objectPath string, data []byte, contentType string) (string, error) {
	if f.failNext {
		return "", errors.New("storage unavailable")
	}
	f.uploads++
	f.lastPath = objectPath
	return objectPath, nil
}

func (f *fakeStore) PublicURL(objectPath string) string {
	if objectPath == "" {
		return ""
	}
	return "https://files.example.com/" + objectPath
}

func newTestService(t *testing.T) (*SubmissionService, *fakeStore) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Submission{}))

	store := &fakeStore{}
	return NewSubmissionService(db, store, NewCache(nil, 0)), store
}

func TestSubmitCreatesVersionOne(t *testing.T) {
	svc, store := newTestService(t)
	teamID, userID := uuid.New(), uuid.New()

	sub, err := svc.Submit(context.Background(), teamID, userID, &SubmissionInput{
		Title: "Our repo",
		Type:  models.SubmissionGithub,
		URL:   "https://github.com/x/y",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, sub.Version)
	assert.Equal(t, teamID, sub.TeamID)
	assert.Equal(t, userID, sub.SubmittedBy)
	assert.Empty(t, sub.FilePath)
	assert.Equal(t, 0, store.uploads, "url-only submit must not touch storage")
}

func TestResubmitBumpsVersionInPlace(t *testing.T) {
	svc, _ := newTestService(t)
	teamID, userID := uuid.New(), uuid.New()

	first, err := svc.Submit(context.Background(), teamID, userID, &SubmissionInput{
		Title: "Our repo",
		Type:  models.SubmissionGithub,
		URL:   "https://github.com/x/y",
	})
	require.NoError(t, err)

	second, err := svc.Submit(context.Background(), teamID, uuid.New(), &SubmissionInput{
		Title: "Our repo v2",
		Type:  models.SubmissionGithub,
		URL:   "https://github.com/x/z",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "re-submission updates the same row")
	assert.Equal(t, 2, second.Version)
	assert.Equal(t, "https://github.com/x/z", second.URL)
	assert.NotEqual(t, first.SubmittedBy, second.SubmittedBy)

	var count int64
	svc.DB.Model(&models.Submission{}).Where("team_id = ?", teamID).Count(&count)
	assert.EqualValues(t, 1, count, "at most one row per (team, type)")
}

func TestResubmitKeepsUnspecifiedFields(t *testing.T) {
	svc, store := newTestService(t)
	teamID, userID := uuid.New(), uuid.New()

	_, err := svc.Submit(context.Background(), teamID, userID, &SubmissionInput{
		Title:    "Demo",
		Type:     models.SubmissionDemo,
		FileName: "demo.zip",
		FileSize: 64,
		FileData: []byte{0x50, 0x4B, 0x03, 0x04},
	})
	require.NoError(t, err)
	firstPath := store.lastPath
	require.NotEmpty(t, firstPath)

	// Second submit provides only a URL; the stored file path must survive.
	second, err := svc.Submit(context.Background(), teamID, userID, &SubmissionInput{
		Title: "Demo with link",
		Type:  models.SubmissionDemo,
		URL:   "https://demo.example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, second.Version)
	assert.Equal(t, firstPath, second.FilePath)
	assert.Equal(t, "https://demo.example.com", second.URL)
}

func TestResubmitIsNeverANoOp(t *testing.T) {
	svc, _ := newTestService(t)
	teamID, userID := uuid.New(), uuid.New()

	in := SubmissionInput{
		Title: "Repo",
		Type:  models.SubmissionGithub,
		URL:   "https://github.com/x/y",
	}
	_, err := svc.Submit(context.Background(), teamID, userID, &in)
	require.NoError(t, err)
	again := in
	sub, err := svc.Submit(context.Background(), teamID, userID, &again)
	require.NoError(t, err)

	assert.Equal(t, 2, sub.Version, "identical resubmission still bumps the version")
}

func TestSubmitRejectsBeforeAnyCollaboratorCall(t *testing.T) {
	svc, store := newTestService(t)
	teamID, userID := uuid.New(), uuid.New()

	_, err := svc.Submit(context.Background(), teamID, userID, &SubmissionInput{
		Title: "Abstract",
		Type:  models.SubmissionAbstract,
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "file", verr.Field)

	assert.Equal(t, 0, store.uploads)
	var count int64
	svc.DB.Model(&models.Submission{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestUploadFailureAbortsBeforeRecordMutation(t *testing.T) {
	svc, store := newTestService(t)
	store.failNext = true
	teamID, userID := uuid.New(), uuid.New()

	_, err := svc.Submit(context.Background(), teamID, userID, &SubmissionInput{
		Title:    "Report",
		Type:     models.SubmissionReport,
		FileName: "report.docx",
		FileSize: 64,
		FileData: []byte{0x50, 0x4B, 0x03, 0x04},
	})
	require.Error(t, err)

	var count int64
	svc.DB.Model(&models.Submission{}).Count(&count)
	assert.EqualValues(t, 0, count, "no partial record after a failed upload")
}

func TestUploadPathIsUniquePerAttempt(t *testing.T) {
	svc, store := newTestService(t)
	teamID, userID := uuid.New(), uuid.New()

	in := func() *SubmissionInput {
		return &SubmissionInput{
			Title:    "Demo",
			Type:     models.SubmissionDemo,
			FileName: "demo.zip",
			FileSize: 64,
			FileData: []byte{0x50, 0x4B, 0x03, 0x04},
		}
	}

	_, err := svc.Submit(context.Background(), teamID, userID, in())
	require.NoError(t, err)
	firstPath := store.lastPath

	_, err = svc.Submit(context.Background(), teamID, userID, in())
	require.NoError(t, err)

	assert.NotEqual(t, firstPath, store.lastPath, "prior versions' files must not be overwritten")
	assert.Contains(t, store.lastPath, teamID.String()+"/demo/")
}

func TestSubmitReportsProgress(t *testing.T) {
	svc, _ := newTestService(t)
	teamID, userID := uuid.New(), uuid.New()

	var seen []int
	svc.OnProgress = func(tid string, st models.SubmissionType, percent int) {
		seen = append(seen, percent)
	}

	_, err := svc.Submit(context.Background(), teamID, userID, &SubmissionInput{
		Title:    "Demo",
		Type:     models.SubmissionDemo,
		FileName: "demo.zip",
		FileSize: 64,
		FileData: []byte{0x50, 0x4B, 0x03, 0x04},
	})
	require.NoError(t, err)

	// Reset, jump to 100 after the upload, reset on completion.
	assert.Equal(t, []int{0, 100, 0}, seen)
}

func TestTeamSubmissionsLatestFirstWithFileURLs(t *testing.T) {
	svc, _ := newTestService(t)
	teamID, userID := uuid.New(), uuid.New()

	_, err := svc.Submit(context.Background(), teamID, userID, &SubmissionInput{
		Title:    "Demo",
		Type:     models.SubmissionDemo,
		FileName: "demo.zip",
		FileSize: 64,
		FileData: []byte{0x50, 0x4B, 0x03, 0x04},
	})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), teamID, userID, &SubmissionInput{
		Title: "Repo",
		Type:  models.SubmissionGithub,
		URL:   "https://github.com/x/y",
	})
	require.NoError(t, err)

	views, err := svc.TeamSubmissions(context.Background(), teamID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	for _, v := range views {
		if v.Type == models.SubmissionDemo {
			assert.Contains(t, v.FileURL, "https://files.example.com/")
		} else {
			assert.Empty(t, v.FileURL)
		}
	}
}
