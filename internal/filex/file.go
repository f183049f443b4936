// Package filex contains small filesystem helpers for the CLI.
package filex

import (
	"fmt"
	"net/http"
	"os"
)

// MaxPhotoSize caps how large a photo attachment may be (the story service
// rejects uploads above 1 MB).
const MaxPhotoSize = 1 << 20

// ReadPhoto reads an image file from disk and sniffs its MIME type from the
// leading bytes. Files larger than MaxPhotoSize are rejected.
func ReadPhoto(path string) (data []byte, mimeType string, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > MaxPhotoSize {
		return nil, "", fmt.Errorf("photo %s is too large: %d bytes (max %d)", path, info.Size(), MaxPhotoSize)
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}

	return data, http.DetectContentType(data), nil
}
