package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dfryer1193/markblog/api"
	"github.com/dfryer1193/markblog/blog/domain"
	"github.com/dfryer1193/markblog/internal/middleware"
	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	images domain.ImageRepository
}

func NewUploadHandler(images domain.ImageRepository) *UploadHandler {
	return &UploadHandler{images: images}
}

func (h *UploadHandler) RegisterRoutes(r gin.IRouter, sessions middleware.SessionVerifier) {
	r.POST("/upload", middleware.RequireAuth(sessions), h.Upload)
	r.DELETE("/upload/:filename", middleware.RequireAuth(sessions), h.DeleteUpload)
}

func (h *UploadHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "No file provided"})
		return
	}

	if fh.Size > domain.MaxImageSize {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "File too large. Maximum size is 5MB."})
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, fmt.Errorf("failed to open upload: %w", err), "Failed to upload file")
		return
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, domain.MaxImageSize+1))
	if err != nil {
		respondError(c, fmt.Errorf("failed to read upload: %w", err), "Failed to upload file")
		return
	}

	img := &domain.Image{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     content,
	}

	if err := h.images.SaveImage(c.Request.Context(), img); err != nil {
		switch {
		case errors.Is(err, domain.ErrUnsupportedImageType):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid file type. Only images are allowed."})
		case errors.Is(err, domain.ErrImageTooLarge):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "File too large. Maximum size is 5MB."})
		default:
			respondError(c, err, "Failed to upload file")
		}
		return
	}

	c.JSON(http.StatusOK, api.UploadResponse{URL: img.URL, Filename: img.Filename})
}

func (h *UploadHandler) DeleteUpload(c *gin.Context) {
	if err := h.images.DeleteImage(c.Request.Context(), c.Param("filename")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "File not found"})
			return
		}
		respondError(c, err, "Failed to delete file")
		return
	}

	c.JSON(http.StatusOK, api.DeleteUploadResponse{Success: true})
}
