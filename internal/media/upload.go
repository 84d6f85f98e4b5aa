// AngelaMos | 2026
// upload.go

package media

import (
	"fmt"
	"io"
	"net/http"

	"github.com/mentorcamp/backend/internal/core"
)

// FormImage reads the "image" part of a multipart request. The caller closes
// the returned reader.
func FormImage(w http.ResponseWriter, r *http.Request) (io.ReadCloser, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, core.NewValidationError("image", "is required")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		buf := make([]byte, 512)
		n, _ := file.Read(buf)
		contentType = http.DetectContentType(buf[:n])
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("rewind upload: %w", err)
		}
	}

	switch contentType {
	case "image/png", "image/jpeg", "image/gif", "image/webp":
	default:
		_ = file.Close()
		return nil, core.NewValidationError("image", "must be a png, jpeg, gif or webp image")
	}

	return file, nil
}
