package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecthub/backend/models"
)

func TestValidatePolicyRequiredInputs(t *testing.T) {
	tests := []struct {
		name      string
		input     SubmissionInput
		wantField string
	}{
		{
			name:      "abstract without file or url",
			input:     SubmissionInput{Title: "Our abstract", Type: models.SubmissionAbstract},
			wantField: "file",
		},
		{
			name:      "report without file",
			input:     SubmissionInput{Title: "Final report", Type: models.SubmissionReport},
			wantField: "file",
		},
		{
			name:      "presentation without file",
			input:     SubmissionInput{Title: "Slides", Type: models.SubmissionPresentation},
			wantField: "file",
		},
		{
			name:      "github without url",
			input:     SubmissionInput{Title: "Repo", Type: models.SubmissionGithub},
			wantField: "url",
		},
		{
			name:      "video without url",
			input:     SubmissionInput{Title: "Demo video", Type: models.SubmissionVideo},
			wantField: "url",
		},
		{
			name:      "demo with neither file nor url",
			input:     SubmissionInput{Title: "Demo", Type: models.SubmissionDemo},
			wantField: "file",
		},
		{
			name:      "missing title",
			input:     SubmissionInput{Type: models.SubmissionGithub, URL: "https://github.com/x/y"},
			wantField: "title",
		},
		{
			name:      "unknown type",
			input:     SubmissionInput{Title: "x", Type: "poster"},
			wantField: "type",
		},
		{
			name:      "malformed url",
			input:     SubmissionInput{Title: "Repo", Type: models.SubmissionGithub, URL: "not a url"},
			wantField: "url",
		},
		{
			name:      "ftp url rejected",
			input:     SubmissionInput{Title: "Repo", Type: models.SubmissionGithub, URL: "ftp://example.com/x"},
			wantField: "url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidatePolicy(&tt.input)
			require.NotNil(t, verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestValidatePolicyAccepts(t *testing.T) {
	tests := []struct {
		name  string
		input SubmissionInput
	}{
		{
			name:  "github with url only",
			input: SubmissionInput{Title: "Repo", Type: models.SubmissionGithub, URL: "https://github.com/x/y"},
		},
		{
			name:  "abstract with file",
			input: SubmissionInput{Title: "Abstract", Type: models.SubmissionAbstract, FileName: "abstract.pdf", FileSize: 100},
		},
		{
			name:  "demo with url only",
			input: SubmissionInput{Title: "Demo", Type: models.SubmissionDemo, URL: "https://demo.example.com"},
		},
		{
			name:  "demo with file only",
			input: SubmissionInput{Title: "Demo", Type: models.SubmissionDemo, FileName: "demo.zip", FileSize: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, ValidatePolicy(&tt.input))
		})
	}
}

func TestPolicyFor(t *testing.T) {
	p, ok := PolicyFor(models.SubmissionReport)
	require.True(t, ok)
	assert.True(t, p.RequiresFile)
	assert.False(t, p.RequiresURL)
	assert.Equal(t, int64(10*mb), p.MaxFileSize)

	_, ok = PolicyFor("poster")
	assert.False(t, ok)
}
