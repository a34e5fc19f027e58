package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/dfryer1193/markblog/blog/domain"
	"github.com/gabriel-vasile/mimetype"
)

var _ domain.ImageRepository = (*FileImageRepository)(nil)

const (
	defaultImageDir       = "./public/uploads"
	defaultImageURLPrefix = "/uploads"
)

var (
	allowedImageTypes = map[string]struct{}{
		"image/jpeg": {},
		"image/png":  {},
		"image/gif":  {},
		"image/webp": {},
	}

	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)
)

// FileImageRepository stores uploaded images under a public static directory
type FileImageRepository struct {
	dir       string
	urlPrefix string
	now       func() time.Time
}

// NewImageRepository creates a FileImageRepository writing to dir and serving from urlPrefix
func NewImageRepository(dir, urlPrefix string) *FileImageRepository {
	if dir == "" {
		dir = defaultImageDir
	}
	if urlPrefix == "" {
		urlPrefix = defaultImageURLPrefix
	}

	return &FileImageRepository{
		dir:       dir,
		urlPrefix: urlPrefix,
		now:       time.Now,
	}
}

// Dir returns the directory images are written to.
func (r *FileImageRepository) Dir() string {
	return r.dir
}

// URLPrefix returns the public URL prefix uploaded files are served under.
func (r *FileImageRepository) URLPrefix() string {
	return r.urlPrefix
}

// SaveImage validates the image and writes it under a timestamp-prefixed name.
// The stored ContentType is the one sniffed from the content.
func (r *FileImageRepository) SaveImage(ctx context.Context, img *domain.Image) error {
	if img == nil {
		return fmt.Errorf("image cannot be nil")
	}

	if img.Filename == "" {
		return &domain.ValidationError{Field: "file", Message: "no file provided"}
	}

	if len(img.Content) > domain.MaxImageSize {
		return domain.ErrImageTooLarge
	}

	// The declared type comes from the client, so the bytes decide.
	detected := mimetype.Detect(img.Content).String()
	if _, ok := allowedImageTypes[detected]; !ok {
		return domain.ErrUnsupportedImageType
	}
	img.ContentType = detected

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}

	createdAt := r.now()
	filename := storedImageName(createdAt, img.Filename)
	localPath := filepath.Join(r.dir, filename)

	if err := os.WriteFile(localPath, img.Content, 0644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}

	img.Filename = filename
	img.URL = path.Join(r.urlPrefix, filename)
	img.CreatedAt = createdAt

	return nil
}

// DeleteImage removes an uploaded image from the filesystem
func (r *FileImageRepository) DeleteImage(ctx context.Context, filename string) error {
	if filename == "" {
		return fmt.Errorf("image filename cannot be empty")
	}

	base := filepath.Base(filename)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return domain.ErrNotFound
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	localPath := filepath.Join(r.dir, base)
	if err := os.Remove(localPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to remove image file: %w", err)
	}

	return nil
}

// storedImageName builds "<unix-millis>-<sanitized original name>".
func storedImageName(at time.Time, original string) string {
	base := filepath.Base(original)
	return strconv.FormatInt(at.UnixMilli(), 10) + "-" + unsafeFilenameChars.ReplaceAllString(base, "_")
}
