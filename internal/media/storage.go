// AngelaMos | 2026
// storage.go

package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/mentorcamp/backend/internal/config"
	"github.com/mentorcamp/backend/internal/core"
)

const (
	FolderAvatars    = "avatars"
	FolderTeamIcons  = "team-icons"
	FolderEventMedia = "events"

	MaxUploadBytes = 5 << 20
)

var ErrStorageDisabled = core.NewAppError(
	core.ErrExternalFailed,
	"Image uploads are not configured.",
	http.StatusServiceUnavailable,
	"STORAGE_DISABLED",
)

// ImageStorage stores uploaded images and returns their public URL.
type ImageStorage interface {
	UploadImage(ctx context.Context, r io.Reader, folder, name string) (string, error)
	DeleteImage(ctx context.Context, fileURL string) error
}

// New returns Cloudinary storage, or a storage that rejects every upload when
// no Cloudinary URL is configured.
func New(cfg config.CloudinaryConfig) (ImageStorage, error) {
	if cfg.URL == "" {
		return disabled{}, nil
	}

	cld, err := cloudinary.NewFromURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	return &CloudinaryStorage{cld: cld, root: strings.Trim(cfg.Folder, "/")}, nil
}

type CloudinaryStorage struct {
	cld  *cloudinary.Cloudinary
	root string
}

func (s *CloudinaryStorage) UploadImage(
	ctx context.Context,
	r io.Reader,
	folder, name string,
) (string, error) {
	params := uploader.UploadParams{
		Folder:         path.Join(s.root, folder),
		PublicID:       name,
		Overwrite:      api.Bool(true),
		Format:         "webp",
		Transformation: "q_auto",
	}

	resp, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", errors.Join(core.ErrExternalFailed, err))
	}
	if resp.SecureURL == "" {
		return "", fmt.Errorf("upload image: empty url: %w", core.ErrExternalFailed)
	}

	return resp.SecureURL, nil
}

// DeleteImage treats an image that is already gone as deleted.
func (s *CloudinaryStorage) DeleteImage(ctx context.Context, fileURL string) error {
	publicID := PublicID(fileURL)
	if publicID == "" {
		return fmt.Errorf("delete image: no public id in %q: %w", fileURL, core.ErrInvalidInput)
	}

	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:   publicID,
		Invalidate: api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("delete image: %w", errors.Join(core.ErrExternalFailed, err))
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("delete image: result %q: %w", resp.Result, core.ErrExternalFailed)
	}

	return nil
}

// PublicID extracts "folder/name" from a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v171/avatars/u1.webp.
func PublicID(fileURL string) string {
	u, err := url.Parse(fileURL)
	if err != nil {
		return ""
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	start := -1
	for i, p := range parts {
		if p == "upload" {
			start = i + 1
			break
		}
	}
	if start < 0 || start >= len(parts) {
		return ""
	}

	rest := parts[start:]
	if isVersion(rest[0]) {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return ""
	}

	joined := strings.Join(rest, "/")
	return strings.TrimSuffix(joined, path.Ext(joined))
}

func isVersion(segment string) bool {
	if len(segment) < 2 || segment[0] != 'v' {
		return false
	}
	for _, c := range segment[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

type disabled struct{}

func (disabled) UploadImage(context.Context, io.Reader, string, string) (string, error) {
	return "", ErrStorageDisabled
}

func (disabled) DeleteImage(context.Context, string) error {
	return nil
}
