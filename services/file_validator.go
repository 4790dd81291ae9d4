package services

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extensions that are never accepted regardless of the type's allow-list.
var suspiciousExtensions = map[string]bool{
	".exe": true, ".bat": true, ".cmd": true, ".scr": true,
	".pif": true, ".com": true, ".js": true, ".vbs": true,
}

var zipBasedExtensions = map[string]bool{
	".pptx": true, ".docx": true, ".xlsx": true,
}

func humanFileSize(size int64) string {
	switch {
	case size >= 1024*1024*1024:
		return fmt.Sprintf("%.0fGB", float64(size)/(1024*1024*1024))
	case size >= 1024*1024:
		return fmt.Sprintf("%.0fMB", float64(size)/(1024*1024))
	case size >= 1024:
		return fmt.Sprintf("%.0fKB", float64(size)/1024)
	}
	return fmt.Sprintf("%dB", size)
}

// ValidateFile runs every local file check before any upload: size cap,
// extension allow-list, path traversal, and content sniffing. Sniffing
// failures hard-block the upload.
func ValidateFile(in *SubmissionInput) *ValidationError {
	policy := submissionPolicies[in.Type]
	if policy.MaxFileSize == 0 {
		return &ValidationError{Field: "file", Message: "This submission type does not take a file"}
	}
	if in.FileSize > policy.MaxFileSize {
		return &ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("File size exceeds the %s limit", humanFileSize(policy.MaxFileSize)),
		}
	}

	if strings.Contains(in.FileName, "../") || strings.Contains(in.FileName, "..\\") {
		return &ValidationError{Field: "file", Message: "Invalid file name"}
	}

	ext := strings.ToLower(filepath.Ext(in.FileName))
	if suspiciousExtensions[ext] {
		return &ValidationError{Field: "file", Message: "File type not allowed for security reasons"}
	}

	allowed := false
	for _, e := range policy.Extensions {
		if e == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		return &ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("Invalid file type. Allowed: %s", strings.Join(policy.Extensions, ", ")),
		}
	}

	if err := sniffContent(ext, in.FileData); err != nil {
		return &ValidationError{Field: "file", Message: err.Error()}
	}
	return nil
}

// sniffContent verifies magic bytes for formats we know, plus a full parse
// for PDFs. A mismatch blocks the upload.
func sniffContent(ext string, data []byte) error {
	switch {
	case ext == ".pdf":
		if len(data) < 4 || !bytes.HasPrefix(data, []byte("%PDF")) {
			return fmt.Errorf("Invalid PDF file format")
		}
		if _, err := pdf.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
			return fmt.Errorf("Invalid PDF file format")
		}
	case zipBasedExtensions[ext]:
		// Office OOXML formats are zip containers.
		if len(data) < 2 || data[0] != 0x50 || data[1] != 0x4B {
			return fmt.Errorf("Invalid Office document format")
		}
	}
	return nil
}
