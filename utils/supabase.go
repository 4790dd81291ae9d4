package utils

import (
	"bytes"
	"fmt"
	"os"

	storage "github.com/supabase-community/storage-go"
)

// SubmissionBucket holds every uploaded deliverable file.
const SubmissionBucket = "project_files"

// SupabaseStore uploads submission files to Supabase Storage.
type SupabaseStore struct {
	baseURL string
	apiKey  string
}

func NewSupabaseStore() *SupabaseStore {
	return &SupabaseStore{
		baseURL: os.Getenv("SUPABASE_URL"),
		apiKey:  os.Getenv("SUPABASE_KEY"),
	}
}

// Upload pushes data to the project_files bucket at objectPath.
// upsert is off: every attempt writes a fresh, timestamp-qualified path so
// prior versions' files are never overwritten.
func (s *SupabaseStore) Upload(objectPath string, data []byte, contentType string) (string, error) {
	client := storage.NewClient(s.baseURL+"/storage/v1", s.apiKey, nil)

	cacheControl := "3600"
	upsert := false
	options := storage.FileOptions{
		ContentType:  &contentType,
		CacheControl: &cacheControl,
		Upsert:       &upsert,
	}

	_, err := client.UploadFile(SubmissionBucket, objectPath, bytes.NewReader(data), options)
	if err != nil {
		return "", fmt.Errorf("supabase upload failed: %w", err)
	}
	return objectPath, nil
}

// PublicURL resolves a stored object path to its public download URL.
func (s *SupabaseStore) PublicURL(objectPath string) string {
	if objectPath == "" {
		return ""
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, SubmissionBucket, objectPath)
}
