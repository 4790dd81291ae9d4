package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/projecthub/backend/models"
)

// SubmissionPolicy states what inputs a submission type requires. The rules
// live in a table so a policy change never touches control flow.
type SubmissionPolicy struct {
	RequiresFile bool
	RequiresURL  bool
	// EitherAccepted relaxes the two flags above to "at least one of file/url".
	EitherAccepted bool
	// Extensions is the allow-list for uploaded files, lowercase with dot.
	Extensions []string
	// MaxFileSize in bytes; 0 means the type takes no file.
	MaxFileSize int64
}

const mb = 1024 * 1024

var submissionPolicies = map[models.SubmissionType]SubmissionPolicy{
	models.SubmissionAbstract: {
		RequiresFile: true,
		Extensions:   []string{".pdf", ".doc", ".docx"},
		MaxFileSize:  5 * mb,
	},
	models.SubmissionPresentation: {
		RequiresFile: true,
		Extensions:   []string{".pdf", ".ppt", ".pptx"},
		MaxFileSize:  10 * mb,
	},
	models.SubmissionVideo: {
		RequiresURL: true,
	},
	models.SubmissionGithub: {
		RequiresURL: true,
	},
	models.SubmissionDemo: {
		EitherAccepted: true,
		Extensions:     []string{".zip", ".rar"},
		MaxFileSize:    50 * mb,
	},
	models.SubmissionReport: {
		RequiresFile: true,
		Extensions:   []string{".pdf", ".doc", ".docx"},
		MaxFileSize:  10 * mb,
	},
}

// PolicyFor returns the input policy for a submission type.
func PolicyFor(t models.SubmissionType) (SubmissionPolicy, bool) {
	p, ok := submissionPolicies[t]
	return p, ok
}

// ValidationError is a client-side rejection attributed to one form field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SubmissionInput is a submit attempt before any network call.
type SubmissionInput struct {
	Title       string
	Description string
	Type        models.SubmissionType
	URL         string
	FileName    string
	FileSize    int64
	FileData    []byte
}

func (in *SubmissionInput) HasFile() bool { return in.FileName != "" }

// ValidatePolicy checks the per-type input requirements. Pure function of the
// input; it must reject before any collaborator is contacted.
func ValidatePolicy(in *SubmissionInput) *ValidationError {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Message: "Title is required"}
	}
	if !in.Type.Valid() {
		return &ValidationError{Field: "type", Message: "Unknown submission type"}
	}

	policy := submissionPolicies[in.Type]

	if in.URL != "" {
		if u, err := url.Parse(in.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return &ValidationError{Field: "url", Message: "Please enter a valid URL"}
		}
	}

	if policy.EitherAccepted {
		if !in.HasFile() && in.URL == "" {
			// Either-required violations are attributed to the file field.
			return &ValidationError{Field: "file", Message: "Provide a file or a URL for this submission type"}
		}
		return nil
	}
	if policy.RequiresURL && in.URL == "" {
		return &ValidationError{Field: "url", Message: "URL is required for this submission type"}
	}
	if policy.RequiresFile && !in.HasFile() {
		return &ValidationError{Field: "file", Message: "File is required for this submission type"}
	}
	return nil
}
