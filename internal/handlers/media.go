package handlers

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"fbay/internal/auctionerrors"
	"fbay/pkg/logger"
)

// MediaPrefix is the URL prefix uploaded files are served under.
const MediaPrefix = "/media"

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// MediaStore saves uploaded images below a root directory.
type MediaStore struct {
	root string
}

// NewMediaStore creates a MediaStore rooted at dir.
func NewMediaStore(dir string) *MediaStore {
	return &MediaStore{root: dir}
}

// Root returns the directory files are stored in.
func (m *MediaStore) Root() string {
	return m.root
}

// Save stores the multipart file in field under subdir and returns its path
// relative to the root. It returns nil when the request carries no such file.
func (m *MediaStore) Save(c *fiber.Ctx, field, subdir string) (*string, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, auctionerrors.Field(field, auctionerrors.ErrInvalidUpload)
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	fh := files[0]

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !imageExtensions[ext] {
		return nil, auctionerrors.Field(field, auctionerrors.ErrInvalidUpload)
	}

	if err := os.MkdirAll(filepath.Join(m.root, subdir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	rel := path.Join(subdir, uuid.NewString()+ext)
	if err := c.SaveFile(fh, filepath.Join(m.root, filepath.FromSlash(rel))); err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}
	return &rel, nil
}

// Discard removes a file stored by Save. Requests that fail after the upload
// was saved call it so rejected uploads do not stay on disk.
func (m *MediaStore) Discard(rel *string) {
	if rel == nil {
		return
	}
	if err := os.Remove(filepath.Join(m.root, filepath.FromSlash(*rel))); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to remove rejected upload", map[string]any{
			"path":  *rel,
			"error": err.Error(),
		})
	}
}
