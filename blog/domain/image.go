package domain

import (
	"context"
	"errors"
	"time"
)

// MaxImageSize is the largest upload accepted by an ImageRepository.
const MaxImageSize = 5 << 20

var (
	ErrUnsupportedImageType = errors.New("invalid file type, only images are allowed")
	ErrImageTooLarge        = errors.New("file too large, maximum size is 5MB")
)

// Image represents an uploaded image file
// The post layer only ever sees its URL, typically as Frontmatter.CoverImage.
type Image struct {
	Filename    string
	ContentType string
	Content     []byte
	URL         string
	CreatedAt   time.Time
}

type ImageRepository interface {
	// SaveImage validates and stores the image, filling in Filename and URL.
	SaveImage(ctx context.Context, img *Image) error

	// DeleteImage removes a stored image by filename
	DeleteImage(ctx context.Context, filename string) error
}
